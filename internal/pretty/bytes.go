// Package pretty renders byte counts the way stats are shown to the user
// at process end.
package pretty

import (
	"fmt"
	"math"
)

var byteUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb", "eb", "zb", "yb"}

// Bytes formats n using the largest unit from byteUnits that keeps the
// mantissa below 1024, matching the teacher's reporting precision of two
// decimal places above the base unit.
func Bytes(n uint64) string {
	const unit = 1024.0

	if n < uint64(unit) {
		return fmt.Sprintf("%d%s", n, byteUnits[0])
	}

	f := float64(n)
	exp := math.Floor(math.Log(f) / math.Log(unit))

	idx := int(exp)
	if idx >= len(byteUnits) {
		idx = len(byteUnits) - 1
	}

	f /= math.Pow(unit, exp)

	return fmt.Sprintf("%.2f%s", f, byteUnits[idx])
}
