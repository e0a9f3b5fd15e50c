package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/models"
)

// FormRepository loads form graphs from SQL. It implements forms.Provider.
type FormRepository struct {
	db *gorm.DB
}

func NewFormRepository(conn *gorm.DB) *FormRepository {
	return &FormRepository{db: conn}
}

func byPosition(tx *gorm.DB) *gorm.DB { return tx.Order("position asc, id asc") }

func (r *FormRepository) LoadFormBySlug(ctx context.Context, slug string, activeOnly bool) (*forms.Graph, error) {
	q := r.db.WithContext(ctx).Where("slug = ?", slug)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var f models.Form
	err := q.
		Preload("Questions", byPosition).
		Preload("Questions.Localisations").
		Preload("Questions.Options", byPosition).
		Preload("Questions.Options.Localisations").
		Preload("Questions.Options.RedFlag").
		Preload("Questions.Options.RedFlag.Localisations").
		Preload("Questions.Options.RedFlag.References").
		Preload("Questions.Options.RedFlag.Videos.Video").
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &forms.NotFoundError{Slug: slug}
	}
	if err != nil {
		return nil, err
	}
	return toGraph(&f), nil
}

func toGraph(f *models.Form) *forms.Graph {
	g := &forms.Graph{
		Form: forms.FormRecord{
			Slug:        f.Slug,
			Version:     f.Version,
			Active:      f.IsActive,
			Title:       f.TitleEN,
			Description: f.Description,
		},
	}
	seen := map[uint]bool{}
	for _, q := range f.Questions {
		qr := forms.QuestionRecord{
			Position: q.Position,
			Key:      q.Key,
			Kind:     forms.InputKind(q.Kind),
			Texts:    make(map[string]string, len(q.Localisations)),
		}
		for _, l := range q.Localisations {
			qr.Texts[l.LangCode] = l.Text
		}
		for _, o := range q.Options {
			or := forms.OptionRecord{
				Position:  o.Position,
				Key:       o.Key,
				IsRedFlag: o.IsRedFlag,
				Texts:     make(map[string]string, len(o.Localisations)),
			}
			for _, l := range o.Localisations {
				or.Texts[l.LangCode] = l.Text
			}
			if o.IsRedFlag && o.RedFlag != nil {
				or.ConditionSlug = o.RedFlag.Slug
				if !seen[o.RedFlag.ID] {
					seen[o.RedFlag.ID] = true
					g.Conditions = append(g.Conditions, toCondition(o.RedFlag))
				}
			}
			qr.Options = append(qr.Options, or)
		}
		g.Questions = append(g.Questions, qr)
	}
	return g
}

func toCondition(rf *models.RedFlag) forms.ConditionRecord {
	c := forms.ConditionRecord{
		Slug:      rf.Slug,
		Name:      rf.NameEN,
		Summary:   rf.AtAGlanceEN,
		MiniVideo: rf.MiniCMEURL,
		LongVideo: rf.LongCMEURL,
		Texts:     make(map[string]forms.ConditionText, len(rf.Localisations)),
	}
	// normalised video rows win over the inline links
	for _, v := range rf.Videos {
		switch v.Type {
		case "mini_cme":
			c.MiniVideo = v.Video.URL()
		case "long_cme":
			c.LongVideo = v.Video.URL()
		}
	}
	for _, ref := range rf.References {
		c.References = append(c.References, forms.Reference{Citation: ref.CitationText, Link: ref.DOIOrURL})
	}
	for _, l := range rf.Localisations {
		c.Texts[l.LangCode] = forms.ConditionText{
			Name:         l.Name,
			Summary:      l.AtAGlanceText,
			PatientVideo: l.PatientVideoYouTube,
		}
	}
	return c
}

// Languages lists the configured languages by code.
func (r *FormRepository) Languages(ctx context.Context) ([]models.Language, error) {
	var out []models.Language
	err := r.db.WithContext(ctx).Order("code asc").Find(&out).Error
	return out, err
}
