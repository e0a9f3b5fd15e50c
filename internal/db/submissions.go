package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/models"
)

// Submission is one evaluated answer set, ready to persist.
type Submission struct {
	SessionID   uint
	FormSlug    string
	FormVersion string
	Lang        string
	Answers     forms.Answers
	Triggered   []forms.Condition
	At          time.Time
}

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(conn *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: conn}
}

// Record stores the submission, its answers and its triggered red flags in
// one transaction and returns the submission's public reference.
func (r *SubmissionRepository) Record(ctx context.Context, s Submission) (string, error) {
	ref := uuid.NewString()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var form models.Form
		if err := tx.Where("slug = ?", s.FormSlug).First(&form).Error; err != nil {
			return fmt.Errorf("form %q: %w", s.FormSlug, err)
		}

		sub := models.FormSubmission{
			Ref:         ref,
			SessionID:   s.SessionID,
			FormID:      form.ID,
			FormVersion: s.FormVersion,
			SubmittedAt: s.At,
			LangCode:    forms.NormLang(s.Lang),
		}
		for _, a := range s.Answers {
			sub.Answers = append(sub.Answers, models.Answer{QuestionKey: a.Question, OptionKey: a.Option})
		}

		if len(s.Triggered) > 0 {
			slugs := make([]string, 0, len(s.Triggered))
			for _, c := range s.Triggered {
				slugs = append(slugs, c.Slug)
			}
			var rfs []models.RedFlag
			if err := tx.Where("slug IN ?", slugs).Find(&rfs).Error; err != nil {
				return err
			}
			ids := make(map[string]uint, len(rfs))
			for _, rf := range rfs {
				ids[rf.Slug] = rf.ID
			}
			for i, c := range s.Triggered {
				if id, ok := ids[c.Slug]; ok {
					sub.RedFlags = append(sub.RedFlags, models.SubmissionRedFlag{RedFlagID: id, Rank: i})
				}
			}
		}

		return tx.Create(&sub).Error
	})
	if err != nil {
		return "", err
	}
	return ref, nil
}

// Get loads a submission by reference, with answers and red flags in order.
func (r *SubmissionRepository) Get(ctx context.Context, ref string) (*models.FormSubmission, error) {
	var sub models.FormSubmission
	err := r.db.WithContext(ctx).
		Preload("Answers", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Preload("RedFlags", func(tx *gorm.DB) *gorm.DB { return tx.Order("rank asc") }).
		Where("ref = ?", ref).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
