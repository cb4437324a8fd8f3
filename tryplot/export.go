package tryplot

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ExportHeader is the first row of every export.
var ExportHeader = []string{"Team", "Try Type", "Zone", "Quarter", "Phase", "X", "Y"}

// WriteCSV writes one row per try, in store order, after the header.
func WriteCSV(w io.Writer, events []TryEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, ev := range events {
		row := []string{
			ev.Team.Label(),
			ev.Type.Info().Label,
			ev.Zone.Label(),
			strconv.Itoa(ev.Quarter),
			ev.Phase.Label(),
			strconv.FormatFloat(ev.X, 'f', 2, 64),
			strconv.FormatFloat(ev.Y, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write try %s: %w", ev.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename suggests a file name for a match's export on the given day.
func ExportFilename(matchID string, day time.Time) string {
	var b strings.Builder
	b.WriteString("try-analysis-")
	if slug := slugify(matchID); slug != "" {
		b.WriteString(slug)
		b.WriteByte('-')
	}
	b.WriteString(day.Format("2006-01-02"))
	b.WriteString(".csv")
	return b.String()
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
