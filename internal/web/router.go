package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inditech/rfa/internal/handlers"
	"github.com/inditech/rfa/internal/services"
)

// Deps are the collaborators the routes need, built once by main.
type Deps struct {
	Intake      *services.Intake
	Clinics     handlers.ClinicLookup
	CountryCode string
	Health      func(context.Context) error
}

func Router(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)

	r.Get("/healthz", handlers.Health(d.Health))

	// Patient flow: session ids are issued by the clinic
	r.Route("/patient", func(pr chi.Router) {
		pr.Get("/open/{session}/{slug}", handlers.OpenForm(d.Intake))
		pr.Post("/submit/{session}/{slug}", handlers.SubmitForm(d.Intake))
	})

	// QR image of the clinic's WhatsApp link
	r.Get("/clinics/{id}/whatsapp.png", handlers.ClinicQR(d.Clinics, d.CountryCode))

	return r
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
