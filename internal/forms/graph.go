package forms

import "context"

// InputKind is how a question is answered.
type InputKind string

const (
	SingleChoice InputKind = "single"
	MultiChoice  InputKind = "multi"
	FreeText     InputKind = "text"
)

// Graph is the raw form data handed over by a persistence provider.
// It is plain data: no behaviour, no back-references.
type Graph struct {
	Form       FormRecord
	Questions  []QuestionRecord
	Conditions []ConditionRecord
}

type FormRecord struct {
	Slug        string
	Version     string
	Active      bool
	Title       string
	Description string
}

type QuestionRecord struct {
	Position int
	Key      string // optional
	Kind     InputKind
	Texts    map[string]string // lang -> text
	Options  []OptionRecord
}

type OptionRecord struct {
	Position      int
	Key           string
	IsRedFlag     bool
	ConditionSlug string // set iff IsRedFlag
	Texts         map[string]string
}

type ConditionRecord struct {
	Slug       string
	Name       string
	Summary    string
	MiniVideo  string
	LongVideo  string
	References []Reference
	Texts      map[string]ConditionText
}

// ConditionText is the localized name/summary/video triple of a condition.
type ConditionText struct {
	Name         string
	Summary      string
	PatientVideo string
}

type Reference struct {
	Citation string
	Link     string
}

// Provider supplies form graphs. Implementations return an error matching
// ErrNotFound when no form matches.
type Provider interface {
	LoadFormBySlug(ctx context.Context, slug string, activeOnly bool) (*Graph, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, slug string, activeOnly bool) (*Graph, error)

func (f ProviderFunc) LoadFormBySlug(ctx context.Context, slug string, activeOnly bool) (*Graph, error) {
	return f(ctx, slug, activeOnly)
}
