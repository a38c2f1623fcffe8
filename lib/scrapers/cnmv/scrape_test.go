package cnmv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"shortwatch/lib/shorts"
	"shortwatch/lib/telemetry"

	"github.com/stretchr/testify/require"
)

var grifols = shorts.Company{
	FullName: "Grifols Clase A",
	Name:     "GRIFOLS",
	Ticker:   "GRF",
	ISIN:     "ES0171996087",
	NIF:      "A-58389123",
}

func TestParsePositions(t *testing.T) {
	positions, err := parsePositions(classifiedPage(validShortResponse), grifols)
	require.NoError(t, err)
	require.Len(t, positions, 2)

	require.Equal(t, shorts.ShortPosition{
		Owner:    "AQR CAPITAL MANAGEMENT, LLC",
		Weight:   1.53,
		OpenDate: time.Date(2024, time.May, 17, 13, 30, 0, 0, time.UTC),
		Ticker:   "GRF",
	}, positions[0])
	require.Equal(t, shorts.ShortPosition{
		Owner:    "MILLENNIUM INTERNATIONAL MANAGEMENT LP",
		Weight:   0.61,
		OpenDate: time.Date(2024, time.January, 3, 14, 30, 0, 0, time.UTC),
		Ticker:   "GRF",
	}, positions[1])
}

func TestParsePositionsEmptyPage(t *testing.T) {
	positions, err := parsePositions(classifiedPage(validNoPositions), grifols)
	require.NoError(t, err)
	require.Empty(t, positions)
}

func TestParseMalformedWeight(t *testing.T) {
	_, err := parsePositions(classifiedPage(malformedWeight), grifols)
	require.ErrorIs(t, err, shorts.ErrMalformedNumber)
}

func TestParseMalformedDate(t *testing.T) {
	_, err := parsePositions(classifiedPage(malformedDate), grifols)
	require.ErrorIs(t, err, shorts.ErrInvalidDate)
}

// comma decimals must parse to exactly the value their period twin parses to
func TestWeightCommaRoundTrip(t *testing.T) {
	for _, text := range []string{"0,02", "0,5", "1,53", "12,75", "99,999", "100,0"} {
		comma, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
		require.NoError(t, err)
		period, err := strconv.ParseFloat(strings.Replace(text, ",", ".", -1), 64)
		require.NoError(t, err)
		require.Equal(t, period, comma, text)
	}
}

// duplicate (owner, ticker) rows within one page are undefined behavior
// upstream, this just pins down that both rows survive extraction so the
// reconciler's first-match-wins pass stays observable
func TestParseDuplicateOwnersKept(t *testing.T) {
	body := strings.Replace(
		validShortResponse,
		"MILLENNIUM INTERNATIONAL MANAGEMENT LP",
		"AQR CAPITAL MANAGEMENT, LLC",
		1,
	)
	positions, err := parsePositions(classifiedPage(body), grifols)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	require.Equal(t, positions[0].Owner, positions[1].Owner)
	require.NotEqual(t, positions[0].Weight, positions[1].Weight)
}

func setupTestClient(t *testing.T, handler http.Handler) *Client {
	cleanup := telemetry.SetupForTesting(t, "scrapers/cnmv")
	t.Cleanup(cleanup)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseUrl:            server.URL,
		ShortPositionsPath: "/shorts",
	})
	require.NoError(t, err)
	return client
}

func TestShortPositions(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "A-58389123", r.URL.Query().Get("nif"))
		fmt.Fprint(w, validShortResponse)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	snapshot, err := client.ShortPositions(ctx, grifols)
	require.NoError(t, err)
	require.Len(t, snapshot.Positions, 2)
	require.InDelta(t, 2.14, snapshot.Total, 1e-9)
	require.False(t, snapshot.Date.IsZero())
}

func TestShortPositionsServerFailure(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.ShortPositions(context.Background(), grifols)
	require.ErrorIs(t, err, shorts.ErrExternalService)
}

func TestShortPositionsMissingNIF(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("a company without NIF must never reach the source")
	}))

	noNif := grifols
	noNif.NIF = ""
	_, err := client.ShortPositions(context.Background(), noNif)
	require.ErrorIs(t, err, shorts.ErrMissingNIF)
}

func TestProviderRejectsHistoricalTimeFrame(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, validShortResponse)
	}))

	_, err := client.Positions(context.Background(), grifols, shorts.TimeFrame{Since: time.Now()})
	require.ErrorIs(t, err, shorts.ErrUnsupportedTimeFrame)

	_, err = client.Positions(context.Background(), grifols, shorts.TimeFrame{})
	require.NoError(t, err)
}
