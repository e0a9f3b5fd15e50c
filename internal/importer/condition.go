package importer

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/models"
)

type ConditionFields struct {
	Name      string
	Summary   string
	MiniVideo string
	LongVideo string
}

func (f ConditionFields) merge(over ConditionFields) ConditionFields {
	if over.Name != "" {
		f.Name = over.Name
	}
	if over.Summary != "" {
		f.Summary = over.Summary
	}
	if over.MiniVideo != "" {
		f.MiniVideo = over.MiniVideo
	}
	if over.LongVideo != "" {
		f.LongVideo = over.LongVideo
	}
	return f
}

type ConditionBuilder struct {
	tx  *gorm.DB
	row models.RedFlag
}

// Condition finds or creates the red flag with slug. A blank name defaults
// to the slug.
func (im *Importer) Condition(slug string, fields ConditionFields) (*ConditionBuilder, error) {
	b := &ConditionBuilder{tx: im.tx, row: models.RedFlag{Slug: slug}}
	if _, err := findOrCreate(im.tx, &b.row, "slug = ?", slug); err != nil {
		return nil, fmt.Errorf("condition %q: %w", slug, err)
	}
	cur := ConditionFields{Name: b.row.NameEN, Summary: b.row.AtAGlanceEN, MiniVideo: b.row.MiniCMEURL, LongVideo: b.row.LongCMEURL}
	f := ConditionFields{Name: slug}.merge(cur).merge(fields)
	if f != cur {
		b.row.NameEN, b.row.AtAGlanceEN = f.Name, f.Summary
		b.row.MiniCMEURL, b.row.LongCMEURL = f.MiniVideo, f.LongVideo
		if err := im.tx.Save(&b.row).Error; err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *ConditionBuilder) ID() uint { return b.row.ID }

func (b *ConditionBuilder) Localize(lang string, t forms.ConditionText) error {
	l := models.RedFlagLocalised{RedFlagID: b.row.ID, LangCode: forms.NormLang(lang)}
	if _, err := findOrCreate(b.tx, &l, "red_flag_id = ? AND lang_code = ?", l.RedFlagID, l.LangCode); err != nil {
		return err
	}
	l.Name, l.AtAGlanceText, l.PatientVideoYouTube = t.Name, t.Summary, t.PatientVideo
	return b.tx.Save(&l).Error
}

// Reference links a citation to the condition, creating the citation once.
func (b *ConditionBuilder) Reference(citation, link string) error {
	ref := models.Reference{CitationText: citation, DOIOrURL: link}
	if _, err := findOrCreate(b.tx, &ref, "citation_text = ? AND doi_or_url = ?", citation, link); err != nil {
		return err
	}
	var n int64
	if err := b.tx.Table("redflag_references").
		Where("red_flag_id = ? AND reference_id = ?", b.row.ID, ref.ID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return b.tx.Model(&b.row).Association("References").Append(&ref)
}

// Video attaches a hosted video of kind ("mini_cme", "long_cme",
// "patient").
func (b *ConditionBuilder) Video(kind, host, videoID, title string, durationSec int) error {
	v := models.Video{Host: host, VideoID: videoID, TitleEN: title, DurationSec: durationSec}
	if _, err := findOrCreate(b.tx, &v, "host = ? AND video_id = ?", host, videoID); err != nil {
		return err
	}
	link := models.RedFlagVideo{RedFlagID: b.row.ID, VideoID: v.ID, Type: kind}
	_, err := findOrCreate(b.tx, &link, "red_flag_id = ? AND video_id = ? AND type = ?", b.row.ID, v.ID, kind)
	return err
}
