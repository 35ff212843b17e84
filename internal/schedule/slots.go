// Package schedule assigns interview slots and dispatches candidate
// notifications.
package schedule

import "time"

// Slots returns n interview start times beginning at start, each slot one
// duration after the previous. Slots never overlap and never reorder: the
// i-th candidate always gets start + i*d.
func Slots(start time.Time, n int, d time.Duration) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	slots := make([]time.Time, n)
	for i := range slots {
		slots[i] = start.Add(time.Duration(i) * d)
	}
	return slots
}
