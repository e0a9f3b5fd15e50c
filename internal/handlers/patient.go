package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/inditech/rfa/internal/services"
)

func sessionParam(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "session"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// OpenForm serves GET /patient/open/{session}/{slug}?lang=
func OpenForm(in *services.Intake) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := sessionParam(r)
		if !ok {
			writeStatus(w, r, http.StatusBadRequest, "bad session id")
			return
		}
		page, err := in.Open(r.Context(), sid, chi.URLParam(r, "slug"),
			r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
		if err != nil {
			writeError(w, r, "open_form", err)
			return
		}
		render.JSON(w, r, page)
	}
}

// SubmitForm serves POST /patient/submit/{session}/{slug}?lang=
// The body is either a JSON object of question -> option (or list of
// options), or an url-encoded form with the same shape.
func SubmitForm(in *services.Intake) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := sessionParam(r)
		if !ok {
			writeStatus(w, r, http.StatusBadRequest, "bad session id")
			return
		}
		values, err := answerValues(r)
		if err != nil {
			writeStatus(w, r, http.StatusBadRequest, err.Error())
			return
		}
		out, err := in.SubmitValues(r.Context(), sid, chi.URLParam(r, "slug"), r.URL.Query().Get("lang"), values)
		if err != nil {
			writeError(w, r, "submit_form", err)
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, out)
	}
}

func answerValues(r *http.Request) (map[string][]string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "application/json" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("malformed form body")
		}
		return r.PostForm, nil
	}

	var raw map[string]any
	if err := render.DecodeJSON(r.Body, &raw); err != nil {
		return nil, fmt.Errorf("malformed json body")
	}
	values := make(map[string][]string, len(raw))
	for q, v := range raw {
		switch v := v.(type) {
		case string:
			values[q] = []string{v}
		case []any:
			for _, o := range v {
				s, ok := o.(string)
				if !ok {
					return nil, fmt.Errorf("answer %q: options must be strings", q)
				}
				values[q] = append(values[q], s)
			}
		default:
			return nil, fmt.Errorf("answer %q: option must be a string or list", q)
		}
	}
	return values, nil
}
