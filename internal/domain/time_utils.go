package domain

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the YYYYMMDD format of insight and delivery date parameters
	DateLayout = "20060102"

	// maxEpochMillis is 9999-12-31T23:59:59.999Z
	maxEpochMillis int64 = 253402300799999
)

// platformZone is the time zone the platform counts dates in (UTC+9)
var platformZone = time.FixedZone("JST", 9*60*60)

// FormatDate returns the YYYYMMDD date of t in the platform time zone
func FormatDate(t time.Time) string {
	return t.In(platformZone).Format(DateLayout)
}

// ValidateDate checks a YYYYMMDD date parameter
func ValidateDate(date string) error {
	if len(date) != len(DateLayout) {
		return fmt.Errorf("date %q must have the form YYYYMMDD", date)
	}
	if _, err := time.ParseInLocation(DateLayout, date, platformZone); err != nil {
		return fmt.Errorf("date %q must have the form YYYYMMDD: %w", date, err)
	}
	return nil
}

// TimeFromEpochMillis converts a platform timestamp to an instant.
// Negative and out-of-range values are rejected rather than clamped.
func TimeFromEpochMillis(ms int64) (time.Time, error) {
	if ms < 0 {
		return time.Time{}, fmt.Errorf("timestamp %d is negative", ms)
	}
	if ms > maxEpochMillis {
		return time.Time{}, fmt.Errorf("timestamp %d is out of range", ms)
	}
	return time.UnixMilli(ms).UTC(), nil
}
