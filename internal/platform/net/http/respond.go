// Package http provides the stub server plumbing: a chi wrapper and
// response helpers speaking the processing service's wire format
package http

import (
	"encoding/json"
	stdhttp "net/http"
	"strconv"

	perr "mapaclim/internal/platform/errors"
)

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondDetail writes a FastAPI-style {"detail": ...} body with the given status
func RespondDetail(w stdhttp.ResponseWriter, status int, detail string) {
	JSON(w, status, perr.Detail{Detail: detail})
}

// RespondError maps a project error onto the detail wire format
func RespondError(w stdhttp.ResponseWriter, err error) {
	status, d := perr.HTTP(err)
	JSON(w, status, d)
}

// RespondPNG writes image bytes with the image/png content type
func RespondPNG(w stdhttp.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write(data)
}
