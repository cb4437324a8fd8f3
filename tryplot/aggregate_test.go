package tryplot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 0, Percent(3, 0))
	assert.Equal(t, 25, Percent(1, 4))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 13, Percent(1, 8), "12.5 rounds up")
	assert.Equal(t, 100, Percent(7, 7))
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil)

	assert.Equal(t, 0, sum.Total)
	require.Len(t, sum.ByZone, 4)
	require.Len(t, sum.ByQuarter, 4)
	require.Len(t, sum.ByPhase, 4)
	assert.Empty(t, sum.ByType)
	assert.Empty(t, sum.Centroids)
	for _, b := range append(append(sum.ByZone, sum.ByQuarter...), sum.ByPhase...) {
		assert.Zero(t, b.Count)
		assert.Zero(t, b.Percent)
	}
}

func TestByZone_OneTryPerBand(t *testing.T) {
	s := newTestStore()
	for _, y := range []float64{10, 35, 65, 90} {
		_, err := s.Add(Point{X: 50, Y: y}, TypeLineout, TeamHome)
		require.NoError(t, err)
	}

	got := ByZone(s.All())
	require.Len(t, got, 4)
	for i, z := range Zones() {
		assert.Equal(t, string(z), got[i].Key)
		assert.Equal(t, z.Label(), got[i].Label)
		assert.Equal(t, 1, got[i].Count)
		assert.Equal(t, 25, got[i].Percent)
	}
}

func TestByQuarterAndPhase(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 4; i++ {
		_, err := s.Add(Point{X: 50, Y: 50}, TypeScrum, TeamHome)
		require.NoError(t, err)
	}
	_, err := s.Update("try-2", 3, Phase2To3)
	require.NoError(t, err)
	_, err = s.Update("try-3", 3, Phase7Plus)
	require.NoError(t, err)

	quarters := ByQuarter(s.All())
	assert.Equal(t, []int{2, 0, 2, 0}, counts(quarters))
	assert.Equal(t, []int{50, 0, 50, 0}, percents(quarters))
	assert.Equal(t, "Q1", quarters[0].Label)

	ph := ByPhase(s.All())
	assert.Equal(t, []int{2, 1, 0, 1}, counts(ph))
	assert.Equal(t, []int{50, 25, 0, 25}, percents(ph))
	assert.Equal(t, string(Phase1), ph[0].Key)
}

func TestByType_OmitsUnusedTypes(t *testing.T) {
	s := newTestStore()
	for _, tt := range []TryType{TypePenalty, TypeLineout, TypePenalty} {
		_, err := s.Add(Point{X: 50, Y: 50}, tt, TeamHome)
		require.NoError(t, err)
	}

	got := ByType(s.All())
	require.Len(t, got, 2)
	// Display order, not first-seen order.
	assert.Equal(t, string(TypeLineout), got[0].Key)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 33, got[0].Percent)
	assert.Equal(t, string(TypePenalty), got[1].Key)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, 67, got[1].Percent)
	assert.Equal(t, TypePenalty.Info().Color, got[1].Color)
}

func TestByTeamAndCentroids(t *testing.T) {
	s := newTestStore()
	_, err := s.Add(Point{X: 20, Y: 80}, TypeScrum, TeamHome)
	require.NoError(t, err)
	_, err = s.Add(Point{X: 40, Y: 90}, TypeScrum, TeamHome)
	require.NoError(t, err)

	teams := ByTeam(s.All())
	assert.Equal(t, []int{2, 0}, counts(teams))
	assert.Equal(t, []int{100, 0}, percents(teams))

	cs := Centroids(s.All())
	require.Len(t, cs, 1)
	assert.Equal(t, TeamHome, cs[0].Team)
	assert.Equal(t, 2, cs[0].Count)
	assert.InDelta(t, 30, cs[0].X, 1e-9)
	assert.InDelta(t, 85, cs[0].Y, 1e-9)
}

func TestSummarize_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newTestStore()
	types := TryTypes()

	for step := 0; step < 300; step++ {
		if s.Len() > 0 && rng.Intn(3) == 0 {
			all := s.All()
			s.Remove(all[rng.Intn(len(all))].ID)
		} else {
			ev, err := s.Add(
				Point{X: rng.Float64() * 100, Y: rng.Float64() * 100},
				types[rng.Intn(len(types))],
				Teams()[rng.Intn(2)],
			)
			require.NoError(t, err)
			_, err = s.Update(ev.ID, 1+rng.Intn(Quarters), Phases()[rng.Intn(4)])
			require.NoError(t, err)
		}

		sum := Summarize(s.All())
		require.Equal(t, s.Len(), sum.Total)

		views := map[string][]Bucket{
			"zone":    sum.ByZone,
			"quarter": sum.ByQuarter,
			"phase":   sum.ByPhase,
			"type":    sum.ByType,
			"team":    sum.ByTeam,
		}
		for name, view := range views {
			total := 0
			for _, c := range counts(view) {
				total += c
			}
			require.Equal(t, sum.Total, total, "%s counts at step %d", name, step)

			if sum.Total == 0 {
				continue
			}
			pct := 0
			for _, p := range percents(view) {
				pct += p
			}
			slack := len(view) - 1
			require.InDelta(t, 100, pct, float64(slack), "%s percents at step %d", name, step)
		}
	}
}

func counts(bs []Bucket) []int {
	out := make([]int, len(bs))
	for i, b := range bs {
		out[i] = b.Count
	}
	return out
}

func percents(bs []Bucket) []int {
	out := make([]int, len(bs))
	for i, b := range bs {
		out[i] = b.Percent
	}
	return out
}
