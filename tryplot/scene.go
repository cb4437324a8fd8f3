package tryplot

import "strconv"

// Drawable primitives handed to the host renderer, all in logical units.

type Line struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Stroke string  `json:"stroke"`
	Width  float64 `json:"width"`
	Dashed bool    `json:"dashed,omitempty"`
	Role   string  `json:"role,omitempty"`
}

type Circle struct {
	ID     string  `json:"id,omitempty"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	R      float64 `json:"r"`
	Fill   string  `json:"fill"`
	Stroke string  `json:"stroke"`
	Title  string  `json:"title,omitempty"`
}

type Text struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Value  string  `json:"value"`
	Fill   string  `json:"fill"`
	Size   float64 `json:"size"`
	Anchor string  `json:"anchor"`
	Role   string  `json:"role,omitempty"`
}

// Scene is everything needed to draw the pitch, its markers and, while
// placing, the crosshair.
type Scene struct {
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Lines   []Line   `json:"lines"`
	Circles []Circle `json:"circles"`
	Texts   []Text   `json:"texts"`
}

const (
	markerRadius = 8.0
	pitchLine    = "#ffffff"
)

// Crosshair styling. The roles let a client move the preview without
// redrawing the whole scene.
const (
	CrosshairColor     = "#facc15"
	CrosshairXRole     = "crosshair-x"
	CrosshairYRole     = "crosshair-y"
	CrosshairLabelRole = "crosshair-label"
)

// BuildScene lays out the pitch markings, one circle per try (filled with the
// try type colour, outlined in the team colour) and the optional crosshair.
func BuildScene(m Mapper, events []TryEvent, preview *Point) Scene {
	s := Scene{Width: m.Width, Height: m.Height}

	// Touchlines and try lines.
	s.Lines = append(s.Lines,
		Line{X1: 0, Y1: 0, X2: m.Width, Y2: 0, Stroke: pitchLine, Width: 3},
		Line{X1: 0, Y1: m.Height, X2: m.Width, Y2: m.Height, Stroke: pitchLine, Width: 3},
		Line{X1: 0, Y1: 0, X2: 0, Y2: m.Height, Stroke: pitchLine, Width: 3},
		Line{X1: m.Width, Y1: 0, X2: m.Width, Y2: m.Height, Stroke: pitchLine, Width: 3},
	)
	for _, pct := range []float64{defending22Line, halfwayLine, attacking22Line} {
		_, y := m.ToPixels(Point{Y: pct})
		s.Lines = append(s.Lines, Line{
			X1: 0, Y1: y, X2: m.Width, Y2: y,
			Stroke: pitchLine,
			Width:  2,
			Dashed: pct != halfwayLine,
		})
	}

	bands := []float64{0, defending22Line, halfwayLine, attacking22Line, 100}
	for i, z := range zones {
		_, y := m.ToPixels(Point{Y: (bands[i] + bands[i+1]) / 2})
		s.Texts = append(s.Texts, Text{
			X:      m.Width / 2,
			Y:      y,
			Value:  z.Label(),
			Fill:   "rgba(255,255,255,0.45)",
			Size:   14,
			Anchor: "middle",
		})
	}

	for i, ev := range events {
		x, y := m.ToPixels(Point{X: ev.X, Y: ev.Y})
		info := ev.Type.Info()
		s.Circles = append(s.Circles, Circle{
			ID:     ev.ID,
			CX:     x,
			CY:     y,
			R:      markerRadius,
			Fill:   info.Color,
			Stroke: ev.Team.Color(),
			Title:  ev.Team.Label() + " " + info.Label + " (" + ev.Zone.Label() + ")",
		})
		s.Texts = append(s.Texts, Text{
			X:      x,
			Y:      y + 4,
			Value:  strconv.Itoa(i + 1),
			Fill:   "#ffffff",
			Size:   10,
			Anchor: "middle",
		})
	}

	if preview != nil {
		x, y := m.ToPixels(*preview)
		s.Lines = append(s.Lines,
			Line{X1: x, Y1: 0, X2: x, Y2: m.Height, Stroke: CrosshairColor, Width: 1, Dashed: true, Role: CrosshairXRole},
			Line{X1: 0, Y1: y, X2: m.Width, Y2: y, Stroke: CrosshairColor, Width: 1, Dashed: true, Role: CrosshairYRole},
		)
		s.Texts = append(s.Texts, Text{
			X:      x + 6,
			Y:      y - 6,
			Value:  ClassifyZone(preview.Y).Label(),
			Fill:   CrosshairColor,
			Size:   11,
			Anchor: "start",
			Role:   CrosshairLabelRole,
		})
	}
	return s
}

// Scene builds the drawable scene for the controller's current state.
func (c *Controller) Scene() Scene {
	return BuildScene(c.mapper, c.store.All(), c.preview)
}
