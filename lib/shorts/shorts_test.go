package shorts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSamePair(t *testing.T) {
	a := ShortPosition{Owner: "FundA", Weight: 1.5, Ticker: "GRF"}
	b := ShortPosition{Owner: "FundA", Weight: 2.0, Ticker: "GRF"}
	c := ShortPosition{Owner: "FundB", Weight: 1.5, Ticker: "GRF"}

	require.True(t, a.SamePair(b))
	require.False(t, a.SamePair(c))
	require.NotEqual(t, a, b)
}

func TestSnapshotTotal(t *testing.T) {
	now := time.Now()
	snap := NewAliveShortPositions([]ShortPosition{
		{Owner: "FundA", Weight: 1.5, Ticker: "GRF"},
		{Owner: "FundB", Weight: 0.61, Ticker: "GRF"},
		{Owner: "FundC", Weight: 2.04, Ticker: "GRF"},
	}, now)

	require.InDelta(t, 4.15, snap.Total, 1e-9)
	require.Equal(t, now, snap.Date)

	empty := NewAliveShortPositions(nil, now)
	require.Zero(t, empty.Total)
	require.Empty(t, empty.Positions)
}

func TestRegulatorFromISIN(t *testing.T) {
	require.Equal(t, RegulatorCNMV, Company{ISIN: "ES0171996087"}.Regulator())
	require.Equal(t, RegulatorUnknown, Company{ISIN: "NL0015001FS8"}.Regulator())
	require.Equal(t, RegulatorUnknown, Company{}.Regulator())
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Lookup(Company{Name: "Grifols", ISIN: "ES0171996087"})
	require.Error(t, err)

	registry.Register(RegulatorCNMV, nil)
	p, err := registry.Lookup(Company{Name: "Grifols", ISIN: "ES0171996087"})
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestFindCompany(t *testing.T) {
	directory := []Company{
		{FullName: "Grifols Clase A", Name: "GRIFOLS", Ticker: "GRF", ISIN: "ES0171996087", NIF: "A-58389123"},
		{FullName: "Solaria Energía", Name: "SOLARIA", Ticker: "SLR", ISIN: "ES0165386014", NIF: "A83511501"},
		{FullName: "Ferrovial SE", Name: "FERROVIAL", Ticker: "FER", ISIN: "NL0015001FS8"},
	}

	{
		c, ok := FindCompany(directory, "slr")
		require.True(t, ok)
		require.Equal(t, "SOLARIA", c.Name)
	}
	{
		c, ok := FindCompany(directory, "A-58389123")
		require.True(t, ok)
		require.Equal(t, "GRF", c.Ticker)
	}
	{
		c, ok := FindCompany(directory, "grifols")
		require.True(t, ok)
		require.Equal(t, "GRF", c.Ticker)
	}
	{
		c, ok := FindCompany(directory, "ferovial")
		require.True(t, ok)
		require.Equal(t, "FER", c.Ticker)
	}
	{
		_, ok := FindCompany(directory, "")
		require.False(t, ok)
	}
	{
		_, ok := FindCompany(directory, "totally unrelated words")
		require.False(t, ok)
	}
}
