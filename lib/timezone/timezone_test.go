package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDisclosureUTC(t *testing.T) {
	cases := []struct {
		date   time.Time
		expect time.Time
	}{
		// winter, CET = UTC+1
		{
			date:   time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			expect: time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC),
		},
		// summer, CEST = UTC+2
		{
			date:   time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
			expect: time.Date(2024, time.July, 1, 13, 30, 0, 0, time.UTC),
		},
		// spring-forward day itself, the 02:00-03:00 hole does not touch 15:30
		{
			date:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			expect: time.Date(2024, time.March, 31, 13, 30, 0, 0, time.UTC),
		},
		// fall-back day
		{
			date:   time.Date(2024, time.October, 27, 0, 0, 0, 0, time.UTC),
			expect: time.Date(2024, time.October, 27, 14, 30, 0, 0, time.UTC),
		},
	}

	for _, test := range cases {
		got, err := DisclosureUTC(test.date)
		require.NoError(t, err)
		require.Equal(t, test.expect, got)
	}
}

func TestDisclosureUTCKeepsOnlyTheDate(t *testing.T) {
	// the time-of-day of the input must not leak into the result
	a, err := DisclosureUTC(time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	b, err := DisclosureUTC(time.Date(2024, time.May, 2, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, a, b)
}
