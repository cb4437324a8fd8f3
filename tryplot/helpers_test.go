package tryplot

import (
	"strconv"
	"time"
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

// sequentialIDs returns an id generator yielding try-1, try-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "try-" + strconv.Itoa(n)
	}
}

func newTestStore() *Store {
	return NewStore(
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return testNow }),
	)
}
