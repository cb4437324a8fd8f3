package tryplot

// Logical pitch size. Markers are drawn in this space regardless of how large
// the host renders the surface.
const (
	LogicalWidth  = 400.0
	LogicalHeight = 600.0
)

// Point is a position as a percentage of pitch width (X) and length (Y).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the rendered surface's bounding box in client coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Mapper converts between client pointer positions, logical pitch units and
// percentage coordinates.
type Mapper struct {
	Width  float64
	Height float64
}

func DefaultMapper() Mapper {
	return Mapper{Width: LogicalWidth, Height: LogicalHeight}
}

// ToLogical scales a client position through the bounding box into logical
// units. ok is false when the box has no area.
func (m Mapper) ToLogical(clientX, clientY float64, r Rect) (lx, ly float64, ok bool) {
	if r.Width <= 0 || r.Height <= 0 {
		return 0, 0, false
	}
	lx = (clientX - r.Left) / r.Width * m.Width
	ly = (clientY - r.Top) / r.Height * m.Height
	return lx, ly, true
}

// Normalize converts logical units to percentages. Values outside the pitch
// are passed through unclamped.
func (m Mapper) Normalize(lx, ly float64) Point {
	return Point{
		X: lx / m.Width * 100,
		Y: ly / m.Height * 100,
	}
}

// FromPointer maps a pointer position straight to percentage coordinates.
func (m Mapper) FromPointer(clientX, clientY float64, r Rect) (Point, bool) {
	lx, ly, ok := m.ToLogical(clientX, clientY, r)
	if !ok {
		return Point{}, false
	}
	return m.Normalize(lx, ly), true
}

// ToPixels maps a stored percentage position back to logical units.
func (m Mapper) ToPixels(p Point) (x, y float64) {
	return p.X / 100 * m.Width, p.Y / 100 * m.Height
}
