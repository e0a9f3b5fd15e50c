package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/inditech/rfa/internal/db"
	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/log"
	"github.com/inditech/rfa/internal/quota"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// writeError maps service errors to a status. Unknown errors are logged
// under op and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, forms.ErrNotFound):
		log.Debugf("%s: %v", op, err)
		writeStatus(w, r, http.StatusNotFound, "form not found")
	case errors.Is(err, db.ErrSessionNotFound):
		log.Debugf("%s: %v", op, err)
		writeStatus(w, r, http.StatusNotFound, "session not found")
	case errors.Is(err, db.ErrClinicNotFound):
		writeStatus(w, r, http.StatusNotFound, "clinic not found")
	case errors.Is(err, quota.ErrLimitExceeded):
		log.Infof("%s: %v", op, err)
		writeStatus(w, r, http.StatusTooManyRequests, "daily limit reached, try again tomorrow")
	default:
		log.Errorf("%s: %v", op, err)
		writeStatus(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
