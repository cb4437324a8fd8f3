package tryplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScene_Pitch(t *testing.T) {
	s := BuildScene(DefaultMapper(), nil, nil)

	assert.Equal(t, LogicalWidth, s.Width)
	assert.Equal(t, LogicalHeight, s.Height)
	// Four boundary lines plus the two 22s and halfway.
	require.Len(t, s.Lines, 7)
	assert.InDelta(t, 120, s.Lines[4].Y1, 1e-9)
	assert.True(t, s.Lines[4].Dashed)
	assert.InDelta(t, 300, s.Lines[5].Y1, 1e-9)
	assert.False(t, s.Lines[5].Dashed)
	assert.InDelta(t, 480, s.Lines[6].Y1, 1e-9)

	require.Len(t, s.Texts, 4)
	assert.Equal(t, ZoneDefending22.Label(), s.Texts[0].Value)
	assert.Equal(t, ZoneAttacking22.Label(), s.Texts[3].Value)
	assert.Empty(t, s.Circles)
}

func TestController_Scene(t *testing.T) {
	c := newTestController()
	ev := placeOne(t, c)

	require.NoError(t, c.StartPlacing())
	c.PointerMove(40, 540, fullSurface)

	s := c.Scene()
	require.Len(t, s.Circles, 1)
	circle := s.Circles[0]
	assert.Equal(t, ev.ID, circle.ID)
	assert.InDelta(t, 120, circle.CX, 1e-9)
	assert.InDelta(t, 390, circle.CY, 1e-9)
	assert.Equal(t, TypeKickReturn.Info().Color, circle.Fill)
	assert.Equal(t, TeamHome.Color(), circle.Stroke)

	// Pitch lines plus the two crosshair lines.
	require.Len(t, s.Lines, 9)
	assert.InDelta(t, 40, s.Lines[7].X1, 1e-9)
	assert.InDelta(t, 540, s.Lines[8].Y1, 1e-9)
	assert.Equal(t, CrosshairXRole, s.Lines[7].Role)
	assert.Equal(t, CrosshairYRole, s.Lines[8].Role)
	for _, l := range s.Lines[:7] {
		assert.Empty(t, l.Role, "pitch markings carry no crosshair role")
	}

	last := s.Texts[len(s.Texts)-1]
	assert.Equal(t, ZoneAttacking22.Label(), last.Value)
	assert.Equal(t, CrosshairLabelRole, last.Role)
}
