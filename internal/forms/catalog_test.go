package forms

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRender_Localized(t *testing.T) {
	cat := NewCatalog(rashBody())
	qs := cat.Render("en")
	if len(qs) != 1 {
		t.Fatalf("questions: got %d, want 1", len(qs))
	}
	q := qs[0]
	if q.Text != "What colour is the rash?" {
		t.Errorf("question text: got %q", q.Text)
	}
	if len(q.Options) != 2 || q.Options[0].Text != "Red / pink" || !q.Options[1].IsRedFlag {
		t.Errorf("options: got %+v", q.Options)
	}
}

// Every question and option must render to its key when the language has
// no translation.
func TestRender_FallbackToKey(t *testing.T) {
	cat := NewCatalog(withFever())
	for _, lang := range []string{"TA", "", "xx"} {
		for _, q := range cat.Render(lang) {
			if q.Text == "" {
				t.Errorf("%s: empty question text", lang)
			}
			for _, o := range q.Options {
				if o.Text == "" {
					t.Errorf("%s/%s: empty option text", lang, q.Key)
				}
			}
		}
	}

	qs := cat.Render("TA")
	if qs[0].Text != "rash_color" || qs[0].Options[1].Text != "purpuric" {
		t.Errorf("fallback: got %q / %q", qs[0].Text, qs[0].Options[1].Text)
	}
	// partially translated: question in HI, options fall back
	hi := cat.Render("HI")
	if hi[0].Text != "दाने का रंग क्या है?" || hi[0].Options[0].Text != "red" {
		t.Errorf("HI: got %q / %q", hi[0].Text, hi[0].Options[0].Text)
	}
}

func TestRender_BlankTranslationFallsBack(t *testing.T) {
	g := rashBody()
	g.Questions[0].Texts["TA"] = "   "
	cat := NewCatalog(g)
	if got := cat.Render("TA")[0].Text; got != "rash_color" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_PositionOrder(t *testing.T) {
	g := &Graph{
		Form: FormRecord{Slug: "f", Version: "1"},
		Questions: []QuestionRecord{
			{Position: 3, Key: "c"},
			{Position: 1, Key: "a", Options: []OptionRecord{{Position: 2, Key: "y"}, {Position: 1, Key: "x"}}},
			{Position: 2, Key: "b"},
		},
	}
	var keys, opts []string
	for _, q := range NewCatalog(g).Render("EN") {
		keys = append(keys, q.Key)
		for _, o := range q.Options {
			opts = append(opts, o.Key)
		}
	}
	if !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Errorf("questions: got %v", keys)
	}
	if !reflect.DeepEqual(opts, []string{"x", "y"}) {
		t.Errorf("options: got %v", opts)
	}
}

func TestPositionalKeys(t *testing.T) {
	g := rashBody()
	g.Questions[0].Key = ""
	cat := NewCatalog(g)

	if _, ok := cat.Question("q1"); !ok {
		t.Fatal("question q1 not found")
	}
	if got := slugs(cat.Evaluate(Answers{{"q1", "purpuric"}})); !reflect.DeepEqual(got, []string{"purpuric_rash"}) {
		t.Fatalf("got %v", got)
	}
	if got := cat.Render("TA")[0].Text; got != "q1" {
		t.Fatalf("fallback text: got %q", got)
	}
}

func TestLocalizeCondition(t *testing.T) {
	cat := NewCatalog(rashBody())
	cond, ok := cat.Condition("purpuric_rash")
	if !ok {
		t.Fatal("condition missing")
	}

	en := cat.LocalizeCondition(cond, "EN")
	if en.Name != "Purpuric rash" || en.PatientVideo != "" || en.MiniVideo == "" {
		t.Errorf("EN: %+v", en)
	}
	hi := cat.LocalizeCondition(cond, "hi")
	if hi.Name != "बैंगनी दाने" || hi.Summary != cond.Summary || hi.PatientVideo == "" {
		t.Errorf("HI: %+v", hi)
	}
	if len(hi.References) != 1 {
		t.Errorf("references: %+v", hi.References)
	}
}

func TestLanguages(t *testing.T) {
	cat := NewCatalog(rashBody())
	if got := cat.Languages(); !reflect.DeepEqual(got, []string{"EN", "HI"}) {
		t.Fatalf("got %v", got)
	}
}

func TestLoad_NotFound(t *testing.T) {
	p := ProviderFunc(func(ctx context.Context, slug string, activeOnly bool) (*Graph, error) {
		return nil, &NotFoundError{Slug: slug}
	})
	_, err := Load(context.Background(), p, "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Slug != "nope" {
		t.Fatalf("expected NotFoundError for nope, got %v", err)
	}
}

func TestLoad_ActiveOnly(t *testing.T) {
	var gotActive bool
	p := ProviderFunc(func(ctx context.Context, slug string, activeOnly bool) (*Graph, error) {
		gotActive = activeOnly
		return rashBody(), nil
	})
	cat, err := Load(context.Background(), p, "rash_body")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !gotActive {
		t.Error("Load must request the active version")
	}
	if cat.Slug != "rash_body" || cat.Version != "1" {
		t.Errorf("catalog: %s@%s", cat.Slug, cat.Version)
	}
}

func TestLoadVersion_Inactive(t *testing.T) {
	p := ProviderFunc(func(ctx context.Context, slug string, activeOnly bool) (*Graph, error) {
		if activeOnly {
			return nil, &NotFoundError{Slug: slug}
		}
		g := rashBody()
		g.Form.Active = false
		return g, nil
	})
	if _, err := LoadVersion(context.Background(), p, "rash_body", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("active only: got %v", err)
	}
	cat, err := LoadVersion(context.Background(), p, "rash_body", false)
	if err != nil {
		t.Fatalf("inactive preview: %v", err)
	}
	if cat.Slug != "rash_body" {
		t.Errorf("catalog slug %q", cat.Slug)
	}
}
