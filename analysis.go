package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"try-scout/templates"
	"try-scout/tryplot"
)

func (s *server) homeHandler(w http.ResponseWriter, r *http.Request) {
	archives, err := s.archive.List(r.Context(), "")
	if err != nil {
		s.log.Error("list archives", zap.Error(err))
		http.Error(w, "Could not load saved matches", http.StatusInternalServerError)
		return
	}

	component := templates.Home(templates.HomePageData{
		MatchID:  r.URL.Query().Get("match_id"),
		Archives: archiveRows(archives),
	})
	templ.Handler(component).ServeHTTP(w, r)
}

// newPlotHandler starts a session from the home form and sends the browser
// to its pitch.
func (s *server) newPlotHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sess := s.sessions.create(strings.TrimSpace(r.FormValue("match_id")))
	s.log.Info("session created", zap.String("session", sess.id), zap.String("match", sess.matchID))
	http.Redirect(w, r, "/plot/"+sess.id, http.StatusSeeOther)
}

func (s *server) plotPageHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	sess.mu.Lock()
	data, err := s.plotPageData(r.Context(), sess)
	sess.mu.Unlock()
	if err != nil {
		s.log.Error("plot page", zap.String("session", sess.id), zap.Error(err))
		http.Error(w, "Could not load plot", http.StatusInternalServerError)
		return
	}
	templ.Handler(templates.PlotPage(data)).ServeHTTP(w, r)
}

// plotPageData snapshots a session for rendering. Caller holds sess.mu.
func (s *server) plotPageData(ctx context.Context, sess *session) (templates.PlotPageData, error) {
	st := sess.ctrl.State()
	data := templates.PlotPageData{
		SessionID: sess.id,
		MatchID:   sess.matchID,
		State:     st,
		Scene:     sess.ctrl.Scene(),
		Tries:     sess.ctrl.Tries(),
		Types:     typeOptions(st.SelectedType),
		Teams:     teamOptions(st.SelectedTeam),
		Summary:   sess.ctrl.Summary(),
	}
	if st.Edit != nil {
		data.Quarters = quarterOptions(st.Edit.Quarter)
		data.Phases = phaseOptions(st.Edit.Phase)
	}
	if sess.matchID != "" {
		archives, err := s.archive.List(ctx, sess.matchID)
		if err != nil {
			return templates.PlotPageData{}, err
		}
		data.Archives = archiveRows(archives)
	}
	return data, nil
}

func (s *server) analysisPageHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	sess.mu.Lock()
	data := templates.AnalysisPageData{
		SessionID: sess.id,
		MatchID:   sess.matchID,
		Summary:   sess.ctrl.Summary(),
	}
	sess.mu.Unlock()

	templ.Handler(templates.AnalysisPage(data)).ServeHTTP(w, r)
}

// openArchiveHandler loads an archive into a fresh session.
func (s *server) openArchiveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid archive id", http.StatusBadRequest)
		return
	}
	ar, tries, err := s.archive.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrArchiveNotFound) {
			http.Error(w, fmt.Sprintf("Archive %d not found", id), http.StatusNotFound)
			return
		}
		s.log.Error("load archive", zap.Int64("archive", id), zap.Error(err))
		http.Error(w, "Could not load archive", http.StatusInternalServerError)
		return
	}

	sess := s.sessions.create(ar.MatchID)
	sess.mu.Lock()
	err = sess.ctrl.Restore(tries)
	sess.mu.Unlock()
	if err != nil {
		s.log.Error("restore archive", zap.Int64("archive", id), zap.Error(err))
		http.Error(w, "Archive is corrupt", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/plot/"+sess.id, http.StatusSeeOther)
}

func archiveRows(archives []Archive) []templates.ArchiveRow {
	rows := make([]templates.ArchiveRow, 0, len(archives))
	for _, a := range archives {
		rows = append(rows, templates.ArchiveRow{
			ID:       a.ID,
			MatchID:  a.MatchID,
			Label:    a.Label,
			Tries:    a.Tries,
			SavedAgo: humanize.Time(a.CreatedAt),
		})
	}
	return rows
}

func typeOptions(selected tryplot.TryType) []templates.Option {
	var opts []templates.Option
	for _, t := range tryplot.TryTypes() {
		info := t.Info()
		opts = append(opts, templates.Option{
			Value:    string(t),
			Label:    info.Label,
			Color:    info.Color,
			Icon:     info.Icon,
			Selected: t == selected,
		})
	}
	return opts
}

func teamOptions(selected tryplot.Team) []templates.Option {
	var opts []templates.Option
	for _, t := range tryplot.Teams() {
		opts = append(opts, templates.Option{
			Value:    string(t),
			Label:    t.Label(),
			Color:    t.Color(),
			Selected: t == selected,
		})
	}
	return opts
}

func quarterOptions(selected int) []templates.Option {
	opts := make([]templates.Option, 0, tryplot.Quarters)
	for q := 1; q <= tryplot.Quarters; q++ {
		opts = append(opts, templates.Option{
			Value:    strconv.Itoa(q),
			Label:    "Q" + strconv.Itoa(q),
			Selected: q == selected,
		})
	}
	return opts
}

func phaseOptions(selected tryplot.Phase) []templates.Option {
	var opts []templates.Option
	for _, p := range tryplot.Phases() {
		opts = append(opts, templates.Option{
			Value:    string(p),
			Label:    p.Label(),
			Selected: p == selected,
		})
	}
	return opts
}
