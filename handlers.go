package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"try-scout/tryplot"
)

const maxBodyBytes = 1 << 20

type server struct {
	log         *zap.Logger
	sessions    *sessionRegistry
	archive     *ArchiveStore
	corsOrigins []string
	now         func() time.Time
}

func newServer(logger *zap.Logger, sessions *sessionRegistry, archive *ArchiveStore, corsOrigins []string) *server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &server{
		log:         logger,
		sessions:    sessions,
		archive:     archive,
		corsOrigins: corsOrigins,
		now:         time.Now,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.homeHandler)
	mux.HandleFunc("POST /plot", s.newPlotHandler)
	mux.HandleFunc("GET /plot/{id}", s.plotPageHandler)
	mux.HandleFunc("GET /analysis/{id}", s.analysisPageHandler)
	mux.HandleFunc("GET /archives/{id}", s.openArchiveHandler)

	// Session API
	mux.HandleFunc("POST /api/sessions", s.createSessionHandler)
	mux.HandleFunc("GET /api/sessions/{id}", s.withSession(s.sessionStateHandler))
	mux.HandleFunc("POST /api/sessions/{id}/select", s.withSession(s.selectHandler))
	mux.HandleFunc("POST /api/sessions/{id}/placing", s.withSession(s.startPlacingHandler))
	mux.HandleFunc("DELETE /api/sessions/{id}/placing", s.withSession(s.cancelPlacingHandler))
	mux.HandleFunc("POST /api/sessions/{id}/pointer", s.withSession(s.pointerHandler))
	mux.HandleFunc("POST /api/sessions/{id}/click", s.withSession(s.clickHandler))
	mux.HandleFunc("POST /api/sessions/{id}/tries/{tryID}/edit", s.withSession(s.openEditorHandler))
	mux.HandleFunc("PATCH /api/sessions/{id}/edit", s.withSession(s.changeEditHandler))
	mux.HandleFunc("POST /api/sessions/{id}/edit/save", s.withSession(s.saveEditHandler))
	mux.HandleFunc("POST /api/sessions/{id}/edit/delete", s.withSession(s.deleteEditingHandler))
	mux.HandleFunc("DELETE /api/sessions/{id}/edit", s.withSession(s.dismissEditHandler))
	mux.HandleFunc("DELETE /api/sessions/{id}/tries", s.withSession(s.clearHandler))

	// Analysis and export
	mux.HandleFunc("GET /api/sessions/{id}/summary", s.withSession(s.summaryHandler))
	mux.HandleFunc("GET /api/sessions/{id}/scene", s.withSession(s.sceneHandler))
	mux.HandleFunc("GET /api/sessions/{id}/export.csv", s.withSession(s.exportCSVHandler))

	// Archive
	mux.HandleFunc("POST /api/sessions/{id}/archive", s.withSession(s.archiveHandler))
	mux.HandleFunc("POST /api/sessions/{id}/restore/{archiveID}", s.withSession(s.restoreHandler))
	mux.HandleFunc("GET /api/archives", s.listArchivesHandler)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return requestLogger(cors(s.corsOrigins, mux), s.log)
}

type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess *session)

// withSession resolves {id} and holds the session lock for the whole request.
func (s *server) withSession(fn sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessions.get(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, codeSessionNotFound, "session not found")
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		fn(w, r, sess)
	}
}

// decodeJSON reads a small JSON body. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}

type sessionResponse struct {
	ID      string            `json:"id"`
	MatchID string            `json:"match_id"`
	State   tryplot.State     `json:"state"`
	Try     *tryplot.TryEvent `json:"try,omitempty"`
	Removed *int              `json:"removed,omitempty"`
}

func stateOf(sess *session) sessionResponse {
	return sessionResponse{
		ID:      sess.id,
		MatchID: sess.matchID,
		State:   sess.ctrl.State(),
	}
}

type createSessionRequest struct {
	MatchID string `json:"match_id"`
}

func (s *server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess := s.sessions.create(strings.TrimSpace(req.MatchID))
	s.log.Info("session created", zap.String("session", sess.id), zap.String("match", sess.matchID))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusCreated, stateOf(sess))
}

func (s *server) sessionStateHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	writeJSON(w, http.StatusOK, stateOf(sess))
}

type selectRequest struct {
	Type *string `json:"type"`
	Team *string `json:"team"`
}

func (s *server) selectHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Parse both before applying either.
	var (
		typ  tryplot.TryType
		team tryplot.Team
		err  error
	)
	if req.Type != nil {
		if typ, err = tryplot.ParseTryType(*req.Type); err != nil {
			writeDomainError(w, r, s.log, err)
			return
		}
	}
	if req.Team != nil {
		if team, err = tryplot.ParseTeam(*req.Team); err != nil {
			writeDomainError(w, r, s.log, err)
			return
		}
	}
	if req.Type != nil {
		if err := sess.ctrl.SelectType(typ); err != nil {
			writeDomainError(w, r, s.log, err)
			return
		}
	}
	if req.Team != nil {
		if err := sess.ctrl.SelectTeam(team); err != nil {
			writeDomainError(w, r, s.log, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *server) startPlacingHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := sess.ctrl.StartPlacing(); err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *server) cancelPlacingHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := sess.ctrl.CancelPlacing(); err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

type pointerRequest struct {
	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`
	Rect    struct {
		Left   float64 `json:"left"`
		Top    float64 `json:"top"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"rect"`
}

func (p pointerRequest) rect() tryplot.Rect {
	return tryplot.Rect{Left: p.Rect.Left, Top: p.Rect.Top, Width: p.Rect.Width, Height: p.Rect.Height}
}

func (s *server) pointerHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	var req pointerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess.ctrl.PointerMove(req.ClientX, req.ClientY, req.rect())
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *server) clickHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	var req pointerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ev, err := sess.ctrl.Click(req.ClientX, req.ClientY, req.rect())
	if err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	s.log.Debug("try placed",
		zap.String("session", sess.id),
		zap.String("try", ev.ID),
		zap.String("type", string(ev.Type)),
		zap.String("zone", string(ev.Zone)))

	resp := stateOf(sess)
	resp.Try = &ev
	writeJSON(w, http.StatusCreated, resp)
}

func (s *server) openEditorHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := sess.ctrl.OpenEditor(r.PathValue("tryID")); err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

type changeEditRequest struct {
	Quarter *int    `json:"quarter"`
	Phase   *string `json:"phase"`
}

func (s *server) changeEditHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	var req changeEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if sess.ctrl.Mode() != tryplot.ModeEditing {
		writeDomainError(w, r, s.log, tryplot.ErrNotEditing)
		return
	}
	if req.Quarter != nil && *req.Quarter != 0 && !tryplot.ValidQuarter(*req.Quarter) {
		writeDomainError(w, r, s.log, tryplot.ErrInvalidQuarter)
		return
	}
	if req.Phase != nil && *req.Phase != "" && !tryplot.Phase(*req.Phase).Valid() {
		writeDomainError(w, r, s.log, tryplot.ErrUnknownPhase)
		return
	}

	if req.Quarter != nil {
		if err := sess.ctrl.SetEditQuarter(*req.Quarter); err != nil {
			writeDomainError(w, r, s.log, err)
			return
		}
	}
	if req.Phase != nil {
		if err := sess.ctrl.SetEditPhase(tryplot.Phase(*req.Phase)); err != nil {
			writeDomainError(w, r, s.log, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *server) saveEditHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	ev, err := sess.ctrl.SaveEdit()
	if err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	resp := stateOf(sess)
	resp.Try = &ev
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) deleteEditingHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := sess.ctrl.DeleteEditing(); err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *server) dismissEditHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := sess.ctrl.DismissEdit(); err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *server) clearHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	n := sess.ctrl.Clear()
	s.log.Info("tries cleared", zap.String("session", sess.id), zap.Int("removed", n))

	resp := stateOf(sess)
	resp.Removed = &n
	writeJSON(w, http.StatusOK, resp)
}

type archiveRequest struct {
	Label string `json:"label"`
}

func (s *server) archiveHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	var req archiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ar, err := s.archive.Save(r.Context(), sess.matchID, strings.TrimSpace(req.Label), sess.ctrl.Tries(), s.now())
	if err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	s.log.Info("session archived",
		zap.String("session", sess.id),
		zap.Int64("archive", ar.ID),
		zap.Int("tries", ar.Tries))
	writeJSON(w, http.StatusCreated, ar)
}

func (s *server) restoreHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	id, err := strconv.ParseInt(r.PathValue("archiveID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid archive id")
		return
	}
	ar, tries, err := s.archive.Load(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	if err := sess.ctrl.Restore(tries); err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	if sess.matchID == "" {
		sess.matchID = ar.MatchID
	}
	writeJSON(w, http.StatusOK, stateOf(sess))
}

type archiveListResponse struct {
	Archives []Archive `json:"archives"`
}

func (s *server) listArchivesHandler(w http.ResponseWriter, r *http.Request) {
	archives, err := s.archive.List(r.Context(), r.URL.Query().Get("match_id"))
	if err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}
	if archives == nil {
		archives = []Archive{}
	}
	writeJSON(w, http.StatusOK, archiveListResponse{Archives: archives})
}
