// Package coredata converts instants stored in the Core Data reference-epoch
// basis into standard Go time values and back.
package coredata

import (
	"math"
	"time"
)

// ReferenceEpochOffset is the number of seconds between the Core Data
// reference epoch (2001-01-01T00:00:00Z) and the Unix epoch. Stored raw
// values are seconds since the reference epoch; adding this offset yields a
// Unix-epoch UTC instant.
const ReferenceEpochOffset int64 = 978307200

// ToLocal converts a raw stored value into civil time in loc. The timezone is
// always an explicit parameter; sub-second precision of the raw value is
// preserved.
func ToLocal(raw float64, loc *time.Location) time.Time {
	sec := int64(math.Floor(raw))
	nsec := int64(math.Round((raw - float64(sec)) * 1e9))
	return time.Unix(sec+ReferenceEpochOffset, nsec).In(loc)
}

// ToRaw converts an absolute instant into the raw stored basis. Query
// boundaries must be expressed in this basis so they compare directly against
// the stored columns.
func ToRaw(t time.Time) float64 {
	return float64(t.Unix()-ReferenceEpochOffset) + float64(t.Nanosecond())/1e9
}
