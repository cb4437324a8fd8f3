package tryplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Add(t *testing.T) {
	s := newTestStore()

	ev, err := s.Add(Point{X: 50, Y: 10}, TypeLineout, TeamHome)
	require.NoError(t, err)

	assert.Equal(t, "try-1", ev.ID)
	assert.Equal(t, ZoneDefending22, ev.Zone)
	assert.Equal(t, 1, ev.Quarter)
	assert.Equal(t, Phase1, ev.Phase)
	assert.Equal(t, testNow, ev.CreatedAt)
	assert.Equal(t, 1, s.Len())

	_, err = s.Add(Point{X: 1, Y: 1}, TryType("drop_goal"), TeamHome)
	assert.ErrorIs(t, err, ErrUnknownTryType)
	_, err = s.Add(Point{X: 1, Y: 1}, TypeScrum, Team("neutral"))
	assert.ErrorIs(t, err, ErrUnknownTeam)
	assert.Equal(t, 1, s.Len())
}

func TestStore_AddDefaultsToUUID(t *testing.T) {
	s := NewStore()
	a, err := s.Add(Point{X: 1, Y: 1}, TypeScrum, TeamAway)
	require.NoError(t, err)
	b, err := s.Add(Point{X: 2, Y: 2}, TypeScrum, TeamAway)
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestStore_RejectsDuplicateGeneratedID(t *testing.T) {
	s := NewStore(WithIDGenerator(func() string { return "same" }))
	_, err := s.Add(Point{X: 1, Y: 1}, TypeScrum, TeamAway)
	require.NoError(t, err)
	_, err = s.Add(Point{X: 2, Y: 2}, TypeScrum, TeamAway)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Update(t *testing.T) {
	s := newTestStore()
	orig, err := s.Add(Point{X: 30, Y: 60}, TypeTurnover, TeamAway)
	require.NoError(t, err)

	updated, err := s.Update(orig.ID, 3, Phase4To6)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quarter)
	assert.Equal(t, Phase4To6, updated.Phase)

	// Position, type, team and zone never move.
	assert.Equal(t, orig.X, updated.X)
	assert.Equal(t, orig.Y, updated.Y)
	assert.Equal(t, orig.Type, updated.Type)
	assert.Equal(t, orig.Team, updated.Team)
	assert.Equal(t, orig.Zone, updated.Zone)

	got, ok := s.Get(orig.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got)

	_, err = s.Update(orig.ID, 5, Phase1)
	assert.ErrorIs(t, err, ErrInvalidQuarter)
	_, err = s.Update(orig.ID, 2, Phase("phase_99"))
	assert.ErrorIs(t, err, ErrUnknownPhase)
	_, err = s.Update("missing", 2, Phase1)
	assert.ErrorIs(t, err, ErrTryNotFound)
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := newTestStore()
	for _, y := range []float64{10, 35, 65} {
		_, err := s.Add(Point{X: 50, Y: y}, TypeScrum, TeamHome)
		require.NoError(t, err)
	}

	assert.False(t, s.Remove("nope"), "unknown id is a no-op")
	assert.Equal(t, 3, s.Len())

	assert.True(t, s.Remove("try-2"))
	ids := []string{}
	for _, ev := range s.All() {
		ids = append(ids, ev.ID)
	}
	assert.Equal(t, []string{"try-1", "try-3"}, ids, "order is preserved")

	assert.Equal(t, 2, s.Clear())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Clear(), "clearing an empty store is a no-op")
	assert.Empty(t, s.All())
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s := newTestStore()
	_, err := s.Add(Point{X: 50, Y: 50}, TypeScrum, TeamHome)
	require.NoError(t, err)

	all := s.All()
	all[0].Quarter = 4

	got, _ := s.Get("try-1")
	assert.Equal(t, 1, got.Quarter)
}

func TestStore_Restore(t *testing.T) {
	s := newTestStore()
	_, err := s.Add(Point{X: 50, Y: 50}, TypeScrum, TeamHome)
	require.NoError(t, err)

	good := []TryEvent{
		{ID: "a", X: 10, Y: 90, Type: TypePenalty, Team: TeamAway, Zone: ZoneAttacking22, Quarter: 2, Phase: Phase2To3},
		{ID: "b", X: 20, Y: 15, Type: TypeRestart, Team: TeamHome, Zone: ZoneDefending22, Quarter: 4, Phase: Phase7Plus},
	}

	t.Run("rejects duplicates and leaves store untouched", func(t *testing.T) {
		err := s.Restore([]TryEvent{good[0], good[0]})
		assert.ErrorIs(t, err, ErrDuplicateID)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("rejects invalid events", func(t *testing.T) {
		bad := good[1]
		bad.Quarter = 0
		assert.ErrorIs(t, s.Restore([]TryEvent{good[0], bad}), ErrInvalidQuarter)

		bad = good[1]
		bad.Zone = "in_goal"
		assert.ErrorIs(t, s.Restore([]TryEvent{bad}), ErrUnknownZone)

		bad = good[1]
		bad.ID = ""
		assert.ErrorIs(t, s.Restore([]TryEvent{bad}), ErrMissingID)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("rejects a zone that disagrees with the position", func(t *testing.T) {
		before := s.All()
		bad := good[0]
		bad.Zone = ZoneDefending22
		assert.ErrorIs(t, s.Restore([]TryEvent{good[1], bad}), ErrZoneMismatch)
		assert.Equal(t, before, s.All())

		// Band edges belong to the band above.
		edge := good[1]
		edge.Y = 20
		edge.Zone = ZoneDefending22
		assert.ErrorIs(t, s.Restore([]TryEvent{edge}), ErrZoneMismatch)
		edge.Zone = ZoneDefendingHalfway
		require.NoError(t, s.Restore([]TryEvent{edge}))
		require.NoError(t, s.Restore(before))
	})

	t.Run("replaces contents", func(t *testing.T) {
		require.NoError(t, s.Restore(good))
		assert.Equal(t, good, s.All())
	})
}
