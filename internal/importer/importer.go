// Package importer writes authored form content into the database. Every
// entity goes through an explicit find-or-create step that returns a
// builder for that one row; running an import twice leaves one copy.
package importer

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/models"
)

type Importer struct {
	tx *gorm.DB
}

func New(tx *gorm.DB) *Importer { return &Importer{tx: tx} }

// findOrCreate loads the row matching where into dst, or creates dst when
// none exists. created reports which happened.
func findOrCreate[T any](tx *gorm.DB, dst *T, where string, args ...any) (created bool, err error) {
	err = tx.Where(where, args...).First(dst).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, tx.Create(dst).Error
}

// Language ensures a language row exists.
func (im *Importer) Language(code, nativeName string) error {
	l := models.Language{Code: forms.NormLang(code), NativeName: nativeName}
	if _, err := findOrCreate(im.tx, &l, "code = ?", l.Code); err != nil {
		return fmt.Errorf("language %s: %w", code, err)
	}
	if nativeName != "" && l.NativeName != nativeName {
		l.NativeName = nativeName
		return im.tx.Save(&l).Error
	}
	return nil
}

type ClinicFields struct {
	State         string
	City          string
	PhoneWhatsApp string
	Address       string
}

func (f ClinicFields) merge(over ClinicFields) ClinicFields {
	if over.State != "" {
		f.State = over.State
	}
	if over.City != "" {
		f.City = over.City
	}
	if over.PhoneWhatsApp != "" {
		f.PhoneWhatsApp = over.PhoneWhatsApp
	}
	if over.Address != "" {
		f.Address = over.Address
	}
	return f
}

// Clinic finds or creates a clinic by name.
func (im *Importer) Clinic(name string, fields ClinicFields) (*models.Clinic, error) {
	c := models.Clinic{Name: name}
	if _, err := findOrCreate(im.tx, &c, "name = ?", name); err != nil {
		return nil, fmt.Errorf("clinic %q: %w", name, err)
	}
	cur := ClinicFields{State: c.State, City: c.City, PhoneWhatsApp: c.PhoneWhatsApp, Address: c.Address}
	f := cur.merge(fields)
	if f == cur {
		return &c, nil
	}
	c.State, c.City, c.PhoneWhatsApp, c.Address = f.State, f.City, f.PhoneWhatsApp, f.Address
	if err := im.tx.Save(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Doctor finds or creates a doctor account keyed by its Google subject.
func (im *Importer) Doctor(clinicID uint, googleSub, name, phone, email string) (*models.User, error) {
	u := models.User{GoogleSub: googleSub, Role: "doctor", ClinicID: clinicID, DisplayName: name, Phone: phone, Email: email}
	if _, err := findOrCreate(im.tx, &u, "google_sub = ?", googleSub); err != nil {
		return nil, fmt.Errorf("user %q: %w", googleSub, err)
	}
	return &u, nil
}

// Import writes a whole form graph: conditions first, then the form, its
// questions, options and translations. The graph must pass Validate.
func Import(ctx context.Context, conn *gorm.DB, g *forms.Graph) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("import %s: %w", g.Form.Slug, err)
	}
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		im := New(tx)

		condIDs := make(map[string]uint, len(g.Conditions))
		for _, cr := range g.Conditions {
			cb, err := im.Condition(cr.Slug, ConditionFields{
				Name:      cr.Name,
				Summary:   cr.Summary,
				MiniVideo: cr.MiniVideo,
				LongVideo: cr.LongVideo,
			})
			if err != nil {
				return err
			}
			for lang, t := range cr.Texts {
				if err := cb.Localize(lang, t); err != nil {
					return err
				}
			}
			for _, ref := range cr.References {
				if err := cb.Reference(ref.Citation, ref.Link); err != nil {
					return err
				}
			}
			condIDs[cr.Slug] = cb.ID()
		}

		fb, err := im.Form(g.Form.Slug, FormFields{
			Version:     g.Form.Version,
			Inactive:    !g.Form.Active,
			Title:       g.Form.Title,
			Description: g.Form.Description,
		})
		if err != nil {
			return err
		}
		for _, qr := range g.Questions {
			qb, err := fb.Question(qr.Position, QuestionFields{Key: qr.Key, Kind: string(qr.Kind)})
			if err != nil {
				return err
			}
			for lang, text := range qr.Texts {
				if err := qb.Localize(lang, text); err != nil {
					return err
				}
			}
			for _, or := range qr.Options {
				var rf *uint
				if or.IsRedFlag {
					id := condIDs[or.ConditionSlug]
					rf = &id
				}
				ob, err := qb.Option(or.Position, OptionFields{Key: or.Key, RedFlagID: rf})
				if err != nil {
					return err
				}
				for lang, text := range or.Texts {
					if err := ob.Localize(lang, text); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
