package timezone

import (
	"fmt"
	"time"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Madrid")
	if err != nil {
		panic(err)
	}
}

// force timezone to be Madrid regardless of where the job runs, the source
// publishes everything in Spanish local time and date arithmetic with
// <time.Time>.Year()/Month()/Day() would drift on servers pinned elsewhere
func Now() time.Time {
	return time.Now().In(Location)
}

// Positions are disclosed once per day no later than 15:30 local time, so
// only the calendar date is meaningful. Pinning the time of day avoids
// day-boundary artifacts when the date is normalized to UTC.
const (
	disclosureHour   = 15
	disclosureMinute = 30
)

// DisclosureUTC combines a disclosure date with the fixed 15:30 Madrid
// publication time and converts it to UTC. It fails when the wall time does
// not survive the conversion, which happens for dates placed inside a DST
// transition hole.
func DisclosureUTC(date time.Time) (time.Time, error) {
	local := time.Date(
		date.Year(), date.Month(), date.Day(),
		disclosureHour, disclosureMinute, 0, 0,
		Location,
	)
	if local.Hour() != disclosureHour || local.Minute() != disclosureMinute {
		return time.Time{}, fmt.Errorf(
			"disclosure time %02d:%02d does not exist on %s",
			disclosureHour, disclosureMinute, date.Format(time.DateOnly),
		)
	}
	return local.UTC(), nil
}
