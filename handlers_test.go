package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"try-scout/tryplot"
)

var fullPitch = tryplot.Rect{Width: 400, Height: 600}

type testServer struct {
	srv     *server
	handler http.Handler
	clock   *fakeClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clock := newFakeClock()
	srv := newServer(zap.NewNop(), newSessionRegistry(time.Hour, clock.Now), newTestArchive(t), nil)
	srv.now = clock.Now
	return &testServer{srv: srv, handler: srv.routes(), clock: clock}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (ts *testServer) createSession(t *testing.T, matchID string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/sessions", map[string]string{"match_id": matchID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[sessionResponse](t, rec).ID
}

func pointerBody(x, y float64, r tryplot.Rect) map[string]any {
	return map[string]any{
		"client_x": x,
		"client_y": y,
		"rect":     map[string]float64{"left": r.Left, "top": r.Top, "width": r.Width, "height": r.Height},
	}
}

// placeTry selects typ and clicks once at (x, y) on the full pitch.
func (ts *testServer) placeTry(t *testing.T, id string, typ tryplot.TryType, x, y float64) tryplot.TryEvent {
	t.Helper()
	base := "/api/sessions/" + id
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/select", map[string]string{"type": string(typ)}).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/placing", nil).Code)
	rec := ts.do(t, http.MethodPost, base+"/click", pointerBody(x, y, fullPitch))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[sessionResponse](t, rec)
	require.NotNil(t, resp.Try)
	return *resp.Try
}

func TestHandlers_PlaceEditExportFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "R7 vs Leinster")
	base := "/api/sessions/" + id

	rec := ts.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[sessionResponse](t, rec)
	assert.Equal(t, "R7 vs Leinster", st.MatchID)
	assert.Equal(t, tryplot.ModeIdle, st.State.Mode)
	assert.Equal(t, tryplot.TeamHome, st.State.SelectedTeam)
	assert.False(t, st.State.CanStartPlacing)

	rec = ts.do(t, http.MethodPost, base+"/select", map[string]string{"type": "kick_return", "team": "away"})
	require.Equal(t, http.StatusOK, rec.Code)
	st = decode[sessionResponse](t, rec)
	assert.Equal(t, tryplot.TypeKickReturn, st.State.SelectedType)
	assert.Equal(t, tryplot.TeamAway, st.State.SelectedTeam)
	assert.True(t, st.State.CanStartPlacing)

	rec = ts.do(t, http.MethodPost, base+"/placing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tryplot.ModePlacing, decode[sessionResponse](t, rec).State.Mode)

	// A pitch drawn at half size and offset on the page.
	scaled := tryplot.Rect{Left: 10, Top: 20, Width: 200, Height: 300}
	rec = ts.do(t, http.MethodPost, base+"/pointer", pointerBody(70, 215, scaled))
	require.Equal(t, http.StatusOK, rec.Code)
	st = decode[sessionResponse](t, rec)
	require.NotNil(t, st.State.Preview)
	assert.InDelta(t, 30, st.State.Preview.X, 1e-9)
	assert.InDelta(t, 65, st.State.Preview.Y, 1e-9)
	assert.Equal(t, tryplot.ZoneAttackingHalfway, st.State.PreviewZone)
	assert.Equal(t, "Attacking 22 to Halfway", st.State.PreviewLabel)

	rec = ts.do(t, http.MethodPost, base+"/click", pointerBody(70, 215, scaled))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	st = decode[sessionResponse](t, rec)
	require.NotNil(t, st.Try)
	try := *st.Try
	assert.Equal(t, tryplot.ModeIdle, st.State.Mode)
	assert.Nil(t, st.State.Preview)
	assert.Equal(t, 1, st.State.Count)
	assert.Equal(t, tryplot.ZoneAttackingHalfway, try.Zone)
	assert.Equal(t, tryplot.TeamAway, try.Team)
	assert.Equal(t, 1, try.Quarter)
	assert.Equal(t, tryplot.Phase1, try.Phase)

	rec = ts.do(t, http.MethodPost, base+"/tries/"+try.ID+"/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st = decode[sessionResponse](t, rec)
	assert.Equal(t, tryplot.ModeEditing, st.State.Mode)
	assert.Equal(t, try.ID, st.State.EditingID)

	rec = ts.do(t, http.MethodPatch, base+"/edit", map[string]any{"quarter": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[sessionResponse](t, rec).State.CanSave)
	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, base+"/edit/save", nil).Code)

	rec = ts.do(t, http.MethodPatch, base+"/edit", map[string]any{"quarter": 3, "phase": "phases_4_6"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[sessionResponse](t, rec).State.CanSave)

	rec = ts.do(t, http.MethodPost, base+"/edit/save", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st = decode[sessionResponse](t, rec)
	require.NotNil(t, st.Try)
	assert.Equal(t, 3, st.Try.Quarter)
	assert.Equal(t, tryplot.Phase4To6, st.Try.Phase)
	assert.Equal(t, tryplot.ModeIdle, st.State.Mode)

	rec = ts.do(t, http.MethodGet, base+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[tryplot.Summary](t, rec)
	assert.Equal(t, 1, sum.Total)
	require.Len(t, sum.ByQuarter, 4)
	assert.Equal(t, 100, sum.ByQuarter[2].Percent)
	require.Len(t, sum.ByType, 1)
	assert.Equal(t, string(tryplot.TypeKickReturn), sum.ByType[0].Key)

	rec = ts.do(t, http.MethodGet, base+"/scene", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	scene := decode[tryplot.Scene](t, rec)
	require.Len(t, scene.Circles, 1)
	assert.Equal(t, try.ID, scene.Circles[0].ID)

	rec = ts.do(t, http.MethodGet, base+"/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="try-analysis-r7-vs-leinster-2026-03-14.csv"`, rec.Header().Get("Content-Disposition"))
	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		tryplot.ExportHeader,
		{"Away", "Kick Return", "Attacking 22 to Halfway", "3", "Phases 4-6", "30.00", "65.00"},
	}, rows)
}

func TestHandlers_CancelAndDismiss(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "")
	base := "/api/sessions/" + id

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/select", map[string]string{"type": "scrum"}).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/placing", nil).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/placing", nil).Code, "starting twice is a no-op")

	rec := ts.do(t, http.MethodDelete, base+"/placing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[sessionResponse](t, rec)
	assert.Equal(t, tryplot.ModeIdle, st.State.Mode)
	assert.Equal(t, 0, st.State.Count)

	try := ts.placeTry(t, id, tryplot.TypeScrum, 200, 540)
	assert.Equal(t, tryplot.ZoneAttacking22, try.Zone)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/tries/"+try.ID+"/edit", nil).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPatch, base+"/edit", map[string]any{"quarter": 4}).Code)
	rec = ts.do(t, http.MethodDelete, base+"/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[sessionResponse](t, rec).State.Edit)

	rec = ts.do(t, http.MethodGet, base+"/summary", nil)
	assert.Equal(t, 100, decode[tryplot.Summary](t, rec).ByQuarter[0].Percent, "dismiss discards the buffer")

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/tries/"+try.ID+"/edit", nil).Code)
	rec = ts.do(t, http.MethodPost, base+"/edit/delete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[sessionResponse](t, rec).State.Count)
}

func TestHandlers_Clear(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "m")
	ts.placeTry(t, id, tryplot.TypeLineout, 100, 100)
	ts.placeTry(t, id, tryplot.TypePenalty, 300, 500)

	rec := ts.do(t, http.MethodDelete, "/api/sessions/"+id+"/tries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[sessionResponse](t, rec)
	require.NotNil(t, resp.Removed)
	assert.Equal(t, 2, *resp.Removed)
	assert.Equal(t, 0, resp.State.Count)

	rec = ts.do(t, http.MethodGet, "/api/sessions/"+id+"/summary", nil)
	sum := decode[tryplot.Summary](t, rec)
	assert.Equal(t, 0, sum.Total)
	assert.Empty(t, sum.ByType)
	for _, b := range sum.ByZone {
		assert.Equal(t, 0, b.Percent)
	}
}

func TestHandlers_Errors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "m")
	base := "/api/sessions/" + id

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"unknown session", http.MethodGet, "/api/sessions/nope", nil, http.StatusNotFound, codeSessionNotFound},
		{"placing without type", http.MethodPost, base + "/placing", nil, http.StatusConflict, codeNoTypeSelected},
		{"cancel while idle", http.MethodDelete, base + "/placing", nil, http.StatusConflict, codeNotPlacing},
		{"click while idle", http.MethodPost, base + "/click", pointerBody(1, 1, fullPitch), http.StatusConflict, codeNotPlacing},
		{"unknown type", http.MethodPost, base + "/select", map[string]string{"type": "drop_goal"}, http.StatusBadRequest, codeUnknownTryType},
		{"unknown team", http.MethodPost, base + "/select", map[string]string{"team": "visitors"}, http.StatusBadRequest, codeUnknownTeam},
		{"edit while idle", http.MethodPatch, base + "/edit", map[string]any{"quarter": 2}, http.StatusConflict, codeNotEditing},
		{"save while idle", http.MethodPost, base + "/edit/save", nil, http.StatusConflict, codeNotEditing},
		{"dismiss while idle", http.MethodDelete, base + "/edit", nil, http.StatusConflict, codeNotEditing},
		{"unknown try", http.MethodPost, base + "/tries/missing/edit", nil, http.StatusNotFound, codeTryNotFound},
		{"unknown field", http.MethodPost, base + "/select", `{"colour":"red"}`, http.StatusBadRequest, codeInvalidRequestBody},
		{"malformed json", http.MethodPost, "/api/sessions", `{"match_id":`, http.StatusBadRequest, codeInvalidRequestBody},
		{"bad archive id", http.MethodPost, base + "/restore/abc", nil, http.StatusBadRequest, codeInvalidID},
		{"unknown archive", http.MethodPost, base + "/restore/99", nil, http.StatusNotFound, codeArchiveNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decode[errorResponse](t, rec).Code)
		})
	}
}

func TestHandlers_EditValidationLeavesBufferAlone(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "m")
	base := "/api/sessions/" + id
	try := ts.placeTry(t, id, tryplot.TypeTurnover, 200, 200)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/tries/"+try.ID+"/edit", nil).Code)

	rec := ts.do(t, http.MethodPatch, base+"/edit", map[string]any{"quarter": 2, "phase": "phase_9"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeUnknownPhase, decode[errorResponse](t, rec).Code)

	rec = ts.do(t, http.MethodPatch, base+"/edit", map[string]any{"quarter": 5})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeInvalidQuarter, decode[errorResponse](t, rec).Code)

	st := decode[sessionResponse](t, ts.do(t, http.MethodGet, base, nil))
	require.NotNil(t, st.State.Edit)
	assert.Equal(t, tryplot.EditBuffer{Quarter: 1, Phase: tryplot.Phase1}, *st.State.Edit)

	rec = ts.do(t, http.MethodPost, base+"/select", map[string]string{"type": "scrum"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, codeBusy, decode[errorResponse](t, rec).Code)
}

func TestHandlers_DegenerateSurface(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "m")
	base := "/api/sessions/" + id
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/select", map[string]string{"type": "restart"}).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, base+"/placing", nil).Code)

	flat := tryplot.Rect{Width: 400}
	rec := ts.do(t, http.MethodPost, base+"/pointer", pointerBody(10, 10, flat))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[sessionResponse](t, rec).State.Preview)

	rec = ts.do(t, http.MethodPost, base+"/click", pointerBody(10, 10, flat))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, codeNoSurface, decode[errorResponse](t, rec).Code)

	st := decode[sessionResponse](t, ts.do(t, http.MethodGet, base, nil))
	assert.Equal(t, tryplot.ModePlacing, st.State.Mode)
	assert.Equal(t, 0, st.State.Count)
}

func TestHandlers_ArchiveAndRestore(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "R7 vs Leinster")
	base := "/api/sessions/" + id
	first := ts.placeTry(t, id, tryplot.TypeLineout, 100, 500)
	ts.placeTry(t, id, tryplot.TypeScrum, 300, 100)

	rec := ts.do(t, http.MethodPost, base+"/archive", map[string]string{"label": " first half "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ar := decode[Archive](t, rec)
	assert.Equal(t, "first half", ar.Label)
	assert.Equal(t, "R7 vs Leinster", ar.MatchID)
	assert.Equal(t, 2, ar.Tries)

	rec = ts.do(t, http.MethodGet, "/api/archives?match_id="+url.QueryEscape("R7 vs Leinster"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[archiveListResponse](t, rec)
	require.Len(t, list.Archives, 1)
	assert.Equal(t, ar.ID, list.Archives[0].ID)

	rec = ts.do(t, http.MethodGet, "/api/archives?match_id=other", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"archives":[]}`, rec.Body.String())

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, base+"/tries", nil).Code)

	other := ts.createSession(t, "")
	rec = ts.do(t, http.MethodPost, "/api/sessions/"+other+"/restore/"+strconv.FormatInt(ar.ID, 10), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decode[sessionResponse](t, rec)
	assert.Equal(t, 2, st.State.Count)
	assert.Equal(t, "R7 vs Leinster", st.MatchID, "an unnamed session adopts the archive's match")

	// Restored tries keep their ids and can be edited.
	rec = ts.do(t, http.MethodPost, "/api/sessions/"+other+"/tries/"+first.ID+"/edit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlers_Pages(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/plot"`)

	req := httptest.NewRequest(http.MethodPost, "/plot", strings.NewReader("match_id=Ulster+v+Munster"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/plot/"), loc)
	id := strings.TrimPrefix(loc, "/plot/")

	rec = ts.do(t, http.MethodGet, loc, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="pitch"`)
	assert.Contains(t, rec.Body.String(), "Ulster v Munster")

	ts.placeTry(t, id, tryplot.TypeKickReturn, 120, 390)
	rec = ts.do(t, http.MethodGet, "/analysis/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Total tries: 1")

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/plot/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/analysis/missing", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", nil).Code)
}

func TestHandlers_OpenArchivePage(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "m")
	ts.placeTry(t, id, tryplot.TypePenalty, 200, 100)
	rec := ts.do(t, http.MethodPost, "/api/sessions/"+id+"/archive", map[string]string{"label": "ft"})
	require.Equal(t, http.StatusCreated, rec.Code)
	ar := decode[Archive](t, rec)

	rec = ts.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), `href="/archives/`+strconv.FormatInt(ar.ID, 10)+`"`)

	rec = ts.do(t, http.MethodGet, "/archives/"+strconv.FormatInt(ar.ID, 10), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc := rec.Header().Get("Location")
	opened := strings.TrimPrefix(loc, "/plot/")
	require.NotEqual(t, id, opened)

	st := decode[sessionResponse](t, ts.do(t, http.MethodGet, "/api/sessions/"+opened, nil))
	assert.Equal(t, 1, st.State.Count)
	assert.Equal(t, "m", st.MatchID)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/archives/12345", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/archives/x", nil).Code)
}

func TestHandlers_ExpiredSession(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createSession(t, "m")

	ts.clock.Advance(2 * time.Hour)
	rec := ts.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
