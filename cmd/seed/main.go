// Command seed populates a tiny data set so /patient/open/... works.
// Running it twice leaves one copy of everything.
package main

import (
	"context"
	"os"

	"gorm.io/gorm"

	"github.com/inditech/rfa/internal/config"
	"github.com/inditech/rfa/internal/db"
	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/importer"
	"github.com/inditech/rfa/internal/log"
	"github.com/inditech/rfa/internal/services"
)

func sampleForm() *forms.Graph {
	return &forms.Graph{
		Form: forms.FormRecord{
			Slug:        "rash_body",
			Version:     "1",
			Active:      true,
			Title:       "Rash on Body",
			Description: "Use when a child presents with a body rash.",
		},
		Questions: []forms.QuestionRecord{{
			Position: 1,
			Key:      "rash_color",
			Kind:     forms.SingleChoice,
			Texts:    map[string]string{"EN": "What colour is the rash?"},
			Options: []forms.OptionRecord{
				{Position: 1, Key: "red", Texts: map[string]string{"EN": "Red / pink"}},
				{Position: 2, Key: "purpuric", IsRedFlag: true, ConditionSlug: "purpuric_rash",
					Texts: map[string]string{"EN": "Purplish or bruised (purpura)"}},
			},
		}},
		Conditions: []forms.ConditionRecord{{
			Slug:       "purpuric_rash",
			Name:       "Purpuric rash",
			Summary:    "Could indicate meningococcemia, needs urgent review.",
			MiniVideo:  "https://vimeo.com/123456",
			References: []forms.Reference{{Citation: "Nelson Textbook of Pediatrics, 22e"}},
		}},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close(conn) //nolint:errcheck

	ctx := context.Background()
	var clinicID uint
	err = conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		im := importer.New(tx)
		if err := im.Language("EN", "English"); err != nil {
			return err
		}
		clinic, err := im.Clinic("Demo Children's Clinic", importer.ClinicFields{
			State:         "Maharashtra",
			City:          "Mumbai",
			PhoneWhatsApp: "919999999999",
			Address:       "123 Demo Street",
		})
		if err != nil {
			return err
		}
		clinicID = clinic.ID
		_, err = im.Doctor(clinic.ID, "demo-google-sub", "Dr Demo", "919999999998", "demo@clinic.test")
		return err
	})
	if err != nil {
		log.Fatalf("seed clinic: %v", err)
	}

	if err := importer.Import(ctx, conn, sampleForm()); err != nil {
		log.Fatalf("seed form: %v", err)
	}

	// SEED_PATIENT_PHONE opens a patient session to try the flow with
	if phone := os.Getenv("SEED_PATIENT_PHONE"); phone != "" {
		norm := services.NormPhone(phone, cfg.CountryCode)
		if norm == "" {
			log.Fatalf("seed session: bad phone %q", phone)
		}
		s, err := db.NewSessionRepository(conn).Create(ctx, clinicID, norm)
		if err != nil {
			log.Fatalf("seed session: %v", err)
		}
		log.Infof("patient session %d: /patient/open/%d/rash_body", s.ID, s.ID)
	}
	log.Info("sample data inserted")
}
