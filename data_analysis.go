package main

import (
	"bytes"
	"net/http"
	"strconv"

	"try-scout/tryplot"
)

// summaryHandler returns every breakdown of the session's tries as JSON.
func (s *server) summaryHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	writeJSON(w, http.StatusOK, sess.ctrl.Summary())
}

// sceneHandler returns the pitch drawing primitives so another renderer can
// draw the same picture as the SVG page.
func (s *server) sceneHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	writeJSON(w, http.StatusOK, sess.ctrl.Scene())
}

func (s *server) exportCSVHandler(w http.ResponseWriter, r *http.Request, sess *session) {
	var buf bytes.Buffer
	if err := tryplot.WriteCSV(&buf, sess.ctrl.Tries()); err != nil {
		writeDomainError(w, r, s.log, err)
		return
	}

	name := tryplot.ExportFilename(sess.matchID, s.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}
