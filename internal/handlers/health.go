package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/render"

	"github.com/inditech/rfa/internal/log"
)

// Health reports {"status":"ok"}, or 503 when check fails. check may be nil.
func Health(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				log.Warnf("healthz: %v", err)
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, map[string]string{"status": "unavailable"})
				return
			}
		}
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
