package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"try-scout/tryplot"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func viewBox(s tryplot.Scene) string {
	return "0 0 " + num(s.Width) + " " + num(s.Height)
}

func pitchMode(placing bool) string {
	if placing {
		return "placing"
	}
	return "idle"
}

func plotTitle(matchID string) string {
	if matchID == "" {
		return "Try Scout"
	}
	return "Try Scout - " + matchID
}

func archiveID(a ArchiveRow) string {
	return strconv.FormatInt(a.ID, 10)
}

func barColor(b tryplot.Bucket) string {
	if b.Color == "" {
		return "#5D4037"
	}
	return b.Color
}

// lineAttrs carries the optional line attributes. Crosshair lines are tagged
// with their role and never take pointer events.
func lineAttrs(l tryplot.Line) templ.Attributes {
	attrs := templ.Attributes{}
	if l.Dashed {
		attrs["stroke-dasharray"] = "8 6"
	}
	if l.Role != "" {
		attrs["data-role"] = l.Role
		attrs["pointer-events"] = "none"
	}
	return attrs
}

func textAttrs(t tryplot.Text) templ.Attributes {
	attrs := templ.Attributes{}
	if t.Role != "" {
		attrs["data-role"] = t.Role
	}
	return attrs
}

// hasCrosshair reports whether the scene already draws a preview.
func hasCrosshair(s tryplot.Scene) bool {
	for _, l := range s.Lines {
		if l.Role == tryplot.CrosshairXRole {
			return true
		}
	}
	return false
}
