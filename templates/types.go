package templates

import "try-scout/tryplot"

// Option is one choice in a toolbar or dialog picker.
type Option struct {
	Value    string
	Label    string
	Color    string
	Icon     string
	Selected bool
}

type ArchiveRow struct {
	ID       int64
	MatchID  string
	Label    string
	Tries    int
	SavedAgo string
}

type HomePageData struct {
	MatchID  string
	Archives []ArchiveRow
}

type PlotPageData struct {
	SessionID string
	MatchID   string
	State     tryplot.State
	Scene     tryplot.Scene
	Tries     []tryplot.TryEvent
	Types     []Option
	Teams     []Option
	Quarters  []Option
	Phases    []Option
	Archives  []ArchiveRow
	Summary   tryplot.Summary
}

type AnalysisPageData struct {
	SessionID string
	MatchID   string
	Summary   tryplot.Summary
}
