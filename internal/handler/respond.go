package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// writeJSON encodes a response body with fill and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, fill func(e *jx.Encoder)) {
	var e jx.Encoder
	fill(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Debug("Response write failed", zap.Error(err))
	}
}

// writeError writes the wire failure shape: {"success": false, "error": msg}.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(false)
		e.FieldStart("error")
		e.Str(msg)
		e.ObjEnd()
	})
}

// writeInternalError logs err and answers with a generic 500 body.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
