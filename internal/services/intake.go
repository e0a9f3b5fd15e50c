package services

import (
	"context"
	"fmt"
	"time"

	"github.com/inditech/rfa/internal/db"
	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/log"
	"github.com/inditech/rfa/internal/models"
	"github.com/inditech/rfa/internal/quota"
)

type CatalogSource interface {
	Get(ctx context.Context, slug string) (*forms.Catalog, error)
}

type SessionStore interface {
	Get(ctx context.Context, id uint) (*models.PatientSession, error)
}

type SubmissionRecorder interface {
	Record(ctx context.Context, s db.Submission) (string, error)
}

// Intake is the patient flow: open a form, submit answers. Every call is
// metered by the Guard against the session's patient phone before any
// catalog work happens.
type Intake struct {
	Catalogs    CatalogSource
	Guard       *quota.Guard
	Sessions    SessionStore
	Submissions SubmissionRecorder
	DefaultLang string
	CountryCode string
	Now         func() time.Time
}

// FormPage is a form rendered for one language.
type FormPage struct {
	Slug        string               `json:"slug"`
	Version     string               `json:"version"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Lang        string               `json:"lang"`
	Languages   []string             `json:"languages"`
	Questions   []forms.QuestionView `json:"questions"`
}

// Outcome is the result of a submission.
type Outcome struct {
	Ref      string                `json:"ref"`
	Lang     string                `json:"lang"`
	RedFlags []forms.ConditionView `json:"redflags"`
	Contact  *Contact              `json:"contact,omitempty"`
}

func (in *Intake) now() time.Time {
	if in.Now != nil {
		return in.Now()
	}
	return time.Now()
}

// subject loads the session and returns the quota subject for it.
func (in *Intake) subject(ctx context.Context, sessionID uint) (*models.PatientSession, string, error) {
	s, err := in.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	subj := NormPhone(s.PatientPhone, in.CountryCode)
	if subj == "" {
		// sessions without a usable phone are metered per session
		subj = fmt.Sprintf("session:%d", s.ID)
	}
	return s, subj, nil
}

// Open renders slug for the session's patient. lang is an explicit choice
// (may be empty); acceptLanguage is the request header.
func (in *Intake) Open(ctx context.Context, sessionID uint, slug, lang, acceptLanguage string) (*FormPage, error) {
	_, subj, err := in.subject(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := in.Guard.Allow(ctx, subj, quota.View); err != nil {
		return nil, err
	}
	c, err := in.Catalogs.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	langs := c.Languages()
	l := PickLanguage(langs, lang, acceptLanguage, in.DefaultLang)
	return &FormPage{
		Slug:        c.Slug,
		Version:     c.Version,
		Title:       c.Title,
		Description: c.Description,
		Lang:        l,
		Languages:   langs,
		Questions:   c.Render(l),
	}, nil
}

// Submit evaluates answers against slug, records the submission and
// composes the clinic contact message.
func (in *Intake) Submit(ctx context.Context, sessionID uint, slug, lang string, answers forms.Answers) (*Outcome, error) {
	return in.submit(ctx, sessionID, slug, lang, func(*forms.Catalog) forms.Answers { return answers })
}

// SubmitValues is Submit for unordered question -> option(s) values, as
// posted by an HTML form. Values are put in form order first.
func (in *Intake) SubmitValues(ctx context.Context, sessionID uint, slug, lang string, values map[string][]string) (*Outcome, error) {
	return in.submit(ctx, sessionID, slug, lang, func(c *forms.Catalog) forms.Answers { return c.OrderMulti(values) })
}

func (in *Intake) submit(ctx context.Context, sessionID uint, slug, lang string, answersFor func(*forms.Catalog) forms.Answers) (*Outcome, error) {
	s, subj, err := in.subject(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := in.Guard.Allow(ctx, subj, quota.Submit); err != nil {
		return nil, err
	}
	c, err := in.Catalogs.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	l := PickLanguage(c.Languages(), lang, "", in.DefaultLang)
	answers := answersFor(c)
	triggered := c.Evaluate(answers)
	ref, err := in.Submissions.Record(ctx, db.Submission{
		SessionID:   s.ID,
		FormSlug:    c.Slug,
		FormVersion: c.Version,
		Lang:        l,
		Answers:     answers,
		Triggered:   triggered,
		At:          in.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}

	views := c.LocalizeConditions(triggered, l)
	log.With("ref", ref, "form", c.Slug, "redflags", len(views)).Info("submission recorded")
	return &Outcome{
		Ref:      ref,
		Lang:     l,
		RedFlags: views,
		Contact:  ComposeContact(&s.Clinic, in.CountryCode, c.Title, views),
	}, nil
}
