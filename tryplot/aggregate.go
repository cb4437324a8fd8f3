package tryplot

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Bucket is one row of a breakdown: how many tries fell into Key and what
// share of the total that is.
type Bucket struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Color   string `json:"color,omitempty"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// Centroid is the mean position of one team's tries.
type Centroid struct {
	Team  Team    `json:"team"`
	Count int     `json:"count"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Summary holds every breakdown of a set of tries.
type Summary struct {
	Total     int        `json:"total"`
	ByZone    []Bucket   `json:"by_zone"`
	ByQuarter []Bucket   `json:"by_quarter"`
	ByPhase   []Bucket   `json:"by_phase"`
	ByType    []Bucket   `json:"by_type"`
	ByTeam    []Bucket   `json:"by_team"`
	Centroids []Centroid `json:"centroids"`
}

// Percent is count as a rounded whole percentage of total, or 0 when there
// is nothing to divide by.
func Percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// Summarize recomputes every breakdown from scratch.
func Summarize(events []TryEvent) Summary {
	return Summary{
		Total:     len(events),
		ByZone:    ByZone(events),
		ByQuarter: ByQuarter(events),
		ByPhase:   ByPhase(events),
		ByType:    ByType(events),
		ByTeam:    ByTeam(events),
		Centroids: Centroids(events),
	}
}

// ByZone counts tries per zone, always reporting all four zones.
func ByZone(events []TryEvent) []Bucket {
	counts := make(map[Zone]int, len(zones))
	for _, ev := range events {
		counts[ev.Zone]++
	}
	out := make([]Bucket, 0, len(zones))
	for _, z := range zones {
		out = append(out, Bucket{
			Key:     string(z),
			Label:   z.Label(),
			Count:   counts[z],
			Percent: Percent(counts[z], len(events)),
		})
	}
	return out
}

// ByQuarter counts tries per quarter, always reporting quarters 1 to 4.
func ByQuarter(events []TryEvent) []Bucket {
	var counts [Quarters + 1]int
	for _, ev := range events {
		if ValidQuarter(ev.Quarter) {
			counts[ev.Quarter]++
		}
	}
	out := make([]Bucket, 0, Quarters)
	for q := 1; q <= Quarters; q++ {
		out = append(out, Bucket{
			Key:     strconv.Itoa(q),
			Label:   "Q" + strconv.Itoa(q),
			Count:   counts[q],
			Percent: Percent(counts[q], len(events)),
		})
	}
	return out
}

// ByPhase counts tries per phase bucket, always reporting all four.
func ByPhase(events []TryEvent) []Bucket {
	counts := make(map[Phase]int, len(phases))
	for _, ev := range events {
		counts[ev.Phase]++
	}
	out := make([]Bucket, 0, len(phases))
	for _, p := range phases {
		out = append(out, Bucket{
			Key:     string(p),
			Label:   p.Label(),
			Count:   counts[p],
			Percent: Percent(counts[p], len(events)),
		})
	}
	return out
}

// ByType counts tries per source type. Types that never occur are left out,
// the rest keep their display order.
func ByType(events []TryEvent) []Bucket {
	counts := make(map[TryType]int, len(tryTypes))
	for _, ev := range events {
		counts[ev.Type]++
	}
	var out []Bucket
	for _, t := range tryTypes {
		n := counts[t]
		if n == 0 {
			continue
		}
		info := t.Info()
		out = append(out, Bucket{
			Key:     string(t),
			Label:   info.Label,
			Color:   info.Color,
			Count:   n,
			Percent: Percent(n, len(events)),
		})
	}
	return out
}

// ByTeam counts tries per team, home first.
func ByTeam(events []TryEvent) []Bucket {
	counts := make(map[Team]int, len(teams))
	for _, ev := range events {
		counts[ev.Team]++
	}
	out := make([]Bucket, 0, len(teams))
	for _, t := range teams {
		out = append(out, Bucket{
			Key:     string(t),
			Label:   t.Label(),
			Color:   t.Color(),
			Count:   counts[t],
			Percent: Percent(counts[t], len(events)),
		})
	}
	return out
}

// Centroids returns the mean try position of each team that has scored.
func Centroids(events []TryEvent) []Centroid {
	var out []Centroid
	for _, t := range teams {
		var xs, ys []float64
		for _, ev := range events {
			if ev.Team != t {
				continue
			}
			xs = append(xs, ev.X)
			ys = append(ys, ev.Y)
		}
		if len(xs) == 0 {
			continue
		}
		out = append(out, Centroid{
			Team:  t,
			Count: len(xs),
			X:     stat.Mean(xs, nil),
			Y:     stat.Mean(ys, nil),
		})
	}
	return out
}
