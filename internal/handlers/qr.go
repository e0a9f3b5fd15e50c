package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/inditech/rfa/internal/models"
	"github.com/inditech/rfa/internal/services"
)

type ClinicLookup interface {
	Clinic(ctx context.Context, id uint) (*models.Clinic, error)
}

// ClinicQR renders the clinic's WhatsApp contact link as a PNG so a
// patient can scan it from the waiting room. ?text= pre-fills the message.
func ClinicQR(clinics ClinicLookup, countryCode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		c, err := clinics.Clinic(r.Context(), uint(id))
		if err != nil {
			writeError(w, r, "clinic_qr", err)
			return
		}
		phone := services.NormPhone(c.PhoneWhatsApp, countryCode)
		if phone == "" {
			http.NotFound(w, r)
			return
		}

		png, err := qrcode.Encode(services.Deeplink(phone, r.URL.Query().Get("text")), qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "failed to generate qr", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
