package importer

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/models"
)

type FormFields struct {
	Version     string
	Inactive    bool
	Title       string
	Description string
}

// DefaultForm is merged under the fields passed to Form.
var DefaultForm = FormFields{Version: "1"}

func (f FormFields) merge(over FormFields) FormFields {
	if over.Version != "" {
		f.Version = over.Version
	}
	if over.Title != "" {
		f.Title = over.Title
	}
	if over.Description != "" {
		f.Description = over.Description
	}
	f.Inactive = over.Inactive
	return f
}

type FormBuilder struct {
	tx  *gorm.DB
	row models.Form
}

// Form finds or creates the form with slug and applies fields over
// DefaultForm.
func (im *Importer) Form(slug string, fields FormFields) (*FormBuilder, error) {
	b := &FormBuilder{tx: im.tx, row: models.Form{Slug: slug}}
	if _, err := findOrCreate(im.tx, &b.row, "slug = ?", slug); err != nil {
		return nil, fmt.Errorf("form %q: %w", slug, err)
	}
	f := DefaultForm.merge(fields)
	b.row.Version = f.Version
	b.row.IsActive = !f.Inactive
	b.row.TitleEN = f.Title
	b.row.Description = f.Description
	// Select("*") so a false IsActive is written too
	if err := im.tx.Select("*").Save(&b.row).Error; err != nil {
		return nil, fmt.Errorf("form %q: %w", slug, err)
	}
	return b, nil
}

func (b *FormBuilder) ID() uint { return b.row.ID }

type QuestionFields struct {
	Key  string
	Kind string
}

var DefaultQuestion = QuestionFields{Kind: string(forms.SingleChoice)}

func (f QuestionFields) merge(over QuestionFields) QuestionFields {
	if over.Key != "" {
		f.Key = over.Key
	}
	if over.Kind != "" {
		f.Kind = over.Kind
	}
	return f
}

type QuestionBuilder struct {
	tx  *gorm.DB
	row models.Question
}

// Question finds or creates the question at position.
func (b *FormBuilder) Question(position int, fields QuestionFields) (*QuestionBuilder, error) {
	qb := &QuestionBuilder{tx: b.tx, row: models.Question{FormID: b.row.ID, Position: position}}
	f := DefaultQuestion.merge(fields)
	qb.row.Key, qb.row.Kind = f.Key, f.Kind
	created, err := findOrCreate(b.tx, &qb.row, "form_id = ? AND position = ?", b.row.ID, position)
	if err != nil {
		return nil, fmt.Errorf("question %d: %w", position, err)
	}
	if !created && (qb.row.Key != f.Key || qb.row.Kind != f.Kind) {
		qb.row.Key, qb.row.Kind = f.Key, f.Kind
		if err := b.tx.Save(&qb.row).Error; err != nil {
			return nil, err
		}
	}
	return qb, nil
}

func (qb *QuestionBuilder) ID() uint { return qb.row.ID }

func (qb *QuestionBuilder) Localize(lang, text string) error {
	l := models.QuestionLocalised{QuestionID: qb.row.ID, LangCode: forms.NormLang(lang), Text: text}
	created, err := findOrCreate(qb.tx, &l, "question_id = ? AND lang_code = ?", l.QuestionID, l.LangCode)
	if err != nil || created || l.Text == text {
		return err
	}
	l.Text = text
	return qb.tx.Save(&l).Error
}

type OptionFields struct {
	Key       string
	RedFlagID *uint // nil for a benign option
}

type OptionBuilder struct {
	tx  *gorm.DB
	row models.Option
}

// Option finds or creates the option with fields.Key and moves it to
// position.
func (qb *QuestionBuilder) Option(position int, fields OptionFields) (*OptionBuilder, error) {
	ob := &OptionBuilder{tx: qb.tx, row: models.Option{
		QuestionID: qb.row.ID,
		Position:   position,
		Key:        fields.Key,
		IsRedFlag:  fields.RedFlagID != nil,
		RedFlagID:  fields.RedFlagID,
	}}
	created, err := findOrCreate(qb.tx, &ob.row, "question_id = ? AND \"key\" = ?", qb.row.ID, fields.Key)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", fields.Key, err)
	}
	if !created {
		ob.row.Position = position
		ob.row.IsRedFlag = fields.RedFlagID != nil
		ob.row.RedFlagID = fields.RedFlagID
		if err := qb.tx.Select("*").Omit("RedFlag", "Localisations").Save(&ob.row).Error; err != nil {
			return nil, err
		}
	}
	return ob, nil
}

func (ob *OptionBuilder) ID() uint { return ob.row.ID }

func (ob *OptionBuilder) Localize(lang, text string) error {
	l := models.OptionLocalised{OptionID: ob.row.ID, LangCode: forms.NormLang(lang), Text: text}
	created, err := findOrCreate(ob.tx, &l, "option_id = ? AND lang_code = ?", l.OptionID, l.LangCode)
	if err != nil || created || l.Text == text {
		return err
	}
	l.Text = text
	return ob.tx.Save(&l).Error
}
