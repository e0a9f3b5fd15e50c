package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inditech/rfa/internal/db"
	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/models"
	"github.com/inditech/rfa/internal/quota"
)

type sessionsStub map[uint]*models.PatientSession

func (s sessionsStub) Get(_ context.Context, id uint) (*models.PatientSession, error) {
	if ps, ok := s[id]; ok {
		return ps, nil
	}
	return nil, db.ErrSessionNotFound
}

type recorderStub struct {
	got []db.Submission
}

func (r *recorderStub) Record(_ context.Context, s db.Submission) (string, error) {
	r.got = append(r.got, s)
	return "ref-1", nil
}

func rashGraph(_ context.Context, slug string, _ bool) (*forms.Graph, error) {
	if slug != "rash_body" {
		return nil, &forms.NotFoundError{Slug: slug}
	}
	return &forms.Graph{
		Form: forms.FormRecord{Slug: "rash_body", Version: "1", Active: true, Title: "Rash on Body"},
		Questions: []forms.QuestionRecord{{
			Position: 1,
			Key:      "rash_color",
			Kind:     forms.SingleChoice,
			Texts:    map[string]string{"EN": "What colour is the rash?", "HI": "दाने का रंग क्या है?"},
			Options: []forms.OptionRecord{
				{Position: 1, Key: "red"},
				{Position: 2, Key: "purpuric", IsRedFlag: true, ConditionSlug: "purpuric_rash"},
			},
		}},
		Conditions: []forms.ConditionRecord{{
			Slug: "purpuric_rash", Name: "Purpuric rash",
			Texts: map[string]forms.ConditionText{"HI": {Name: "बैंगनी दाने"}},
		}},
	}, nil
}

func newTestIntake() (*Intake, *recorderStub) {
	rec := &recorderStub{}
	clinic := models.Clinic{ID: 1, Name: "Demo Children's Clinic", PhoneWhatsApp: "919999999999"}
	now := func() time.Time { return time.Date(2025, 7, 5, 9, 0, 0, 0, time.UTC) }
	return &Intake{
		Catalogs: forms.NewCache(forms.ProviderFunc(rashGraph), 0),
		Guard:    quota.NewGuard(quota.NewMemoryStore(), nil, quota.WithClock(now)),
		Sessions: sessionsStub{
			1: {ID: 1, ClinicID: 1, PatientPhone: "919999999998", Clinic: clinic},
			2: {ID: 2, ClinicID: 1, PatientPhone: "+91 99999 99998", Clinic: clinic},
		},
		Submissions: rec,
		DefaultLang: "EN",
		Now:         now,
	}, rec
}

func TestIntake_Open(t *testing.T) {
	in, _ := newTestIntake()
	page, err := in.Open(context.Background(), 1, "rash_body", "", "hi-IN,en;q=0.5")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if page.Lang != "HI" || page.Questions[0].Text != "दाने का रंग क्या है?" {
		t.Errorf("page: %+v", page)
	}
	if page.Questions[0].Options[1].Text != "purpuric" {
		t.Errorf("option fallback: got %q", page.Questions[0].Options[1].Text)
	}
}

func TestIntake_OpenErrors(t *testing.T) {
	in, _ := newTestIntake()
	ctx := context.Background()
	if _, err := in.Open(ctx, 9, "rash_body", "", ""); !errors.Is(err, db.ErrSessionNotFound) {
		t.Errorf("missing session: got %v", err)
	}
	if _, err := in.Open(ctx, 1, "nope", "", ""); !errors.Is(err, forms.ErrNotFound) {
		t.Errorf("missing form: got %v", err)
	}
}

func TestIntake_ViewLimit(t *testing.T) {
	in, _ := newTestIntake()
	ctx := context.Background()
	for i := 0; i < quota.DefaultViewLimit; i++ {
		if _, err := in.Open(ctx, 1, "rash_body", "", ""); err != nil {
			t.Fatalf("view %d: %v", i+1, err)
		}
	}
	if _, err := in.Open(ctx, 1, "rash_body", "", ""); !errors.Is(err, quota.ErrLimitExceeded) {
		t.Fatalf("expected limit, got %v", err)
	}
}

func TestIntake_Submit(t *testing.T) {
	in, rec := newTestIntake()
	out, err := in.Submit(context.Background(), 1, "rash_body", "hi", forms.Answers{{Question: "rash_color", Option: "purpuric"}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Ref != "ref-1" || out.Lang != "HI" {
		t.Errorf("outcome: %+v", out)
	}
	if len(out.RedFlags) != 1 || out.RedFlags[0].Name != "बैंगनी दाने" {
		t.Errorf("red flags: %+v", out.RedFlags)
	}
	if out.Contact == nil || out.Contact.Phone != "919999999999" {
		t.Errorf("contact: %+v", out.Contact)
	}
	if len(rec.got) != 1 || rec.got[0].FormVersion != "1" || len(rec.got[0].Triggered) != 1 {
		t.Errorf("recorded: %+v", rec.got)
	}
}

// Sessions 1 and 2 carry the same phone in different spellings and share
// one daily budget.
func TestIntake_SubmitLimitPerPhone(t *testing.T) {
	in, rec := newTestIntake()
	ctx := context.Background()
	answers := forms.Answers{{Question: "rash_color", Option: "red"}}

	if _, err := in.Submit(ctx, 1, "rash_body", "", answers); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := in.Submit(ctx, 2, "rash_body", "", answers); err != nil {
		t.Fatalf("second: %v", err)
	}
	if _, err := in.Submit(ctx, 1, "rash_body", "", answers); !errors.Is(err, quota.ErrLimitExceeded) {
		t.Fatalf("third: expected limit, got %v", err)
	}
	if len(rec.got) != 2 {
		t.Errorf("recorded %d submissions, want 2", len(rec.got))
	}
}

func TestIntake_SubmitValuesOrdersAnswers(t *testing.T) {
	in, rec := newTestIntake()
	_, err := in.SubmitValues(context.Background(), 1, "rash_body", "", map[string][]string{
		"zzz":        {"x"},
		"rash_color": {"purpuric", "red"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	// rash_color is single choice: only the first submitted option counts
	want := forms.Answers{
		{Question: "rash_color", Option: "purpuric"},
		{Question: "zzz", Option: "x"},
	}
	got := rec.got[0].Answers
	if len(got) != len(want) {
		t.Fatalf("answers: got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("answer %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestIntake_SubmitContactUsesCountryCode(t *testing.T) {
	in, _ := newTestIntake()
	in.CountryCode = "1"
	in.Sessions = sessionsStub{
		3: {ID: 3, PatientPhone: "2025550100", Clinic: models.Clinic{PhoneWhatsApp: "5551234567"}},
	}
	out, err := in.Submit(context.Background(), 3, "rash_body", "", forms.Answers{{Question: "rash_color", Option: "red"}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Contact == nil || out.Contact.Phone != "15551234567" {
		t.Fatalf("contact: %+v", out.Contact)
	}
}
