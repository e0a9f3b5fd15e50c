package forms

import (
	"context"
	"sort"
	"strconv"
)

// Question is one question of a loaded form. Options are handles into the
// catalog's option arena, in display order.
type Question struct {
	Key      string
	Position int
	Kind     InputKind
	Options  []int
}

type Option struct {
	Key       string
	Position  int
	Question  int // handle of the owning question
	IsRedFlag bool
	Condition string // condition slug, "" when not a red flag
}

type Condition struct {
	Slug       string
	Name       string
	Summary    string
	MiniVideo  string
	LongVideo  string
	References []Reference
}

// Catalog is a read-only, fully loaded form version. It is safe for
// concurrent use once built.
type Catalog struct {
	Slug        string
	Version     string
	Title       string
	Description string

	questions  []Question
	options    []Option
	conditions []Condition

	questionByKey   map[string]int
	conditionBySlug map[string]int

	questionTexts  *Texts[string]
	optionTexts    *Texts[string]
	conditionTexts *Texts[ConditionText]

	rules *RuleIndex
}

// Load fetches the active form for slug from p and builds its Catalog.
func Load(ctx context.Context, p Provider, slug string) (*Catalog, error) {
	return LoadVersion(ctx, p, slug, true)
}

// LoadVersion is Load with the active filter exposed; activeOnly=false
// lets authoring tools preview an inactive form.
func LoadVersion(ctx context.Context, p Provider, slug string, activeOnly bool) (*Catalog, error) {
	g, err := p.LoadFormBySlug(ctx, slug, activeOnly)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, &NotFoundError{Slug: slug}
	}
	return NewCatalog(g), nil
}

// QuestionKey is the effective key of a question: its stable key, or
// "q<position>" for forms authored without keys.
func QuestionKey(key string, position int) string {
	if key != "" {
		return key
	}
	return "q" + strconv.Itoa(position)
}

// NewCatalog builds a Catalog and its rule index from a raw graph.
// The graph is not retained.
func NewCatalog(g *Graph) *Catalog {
	c := &Catalog{
		Slug:            g.Form.Slug,
		Version:         g.Form.Version,
		Title:           g.Form.Title,
		Description:     g.Form.Description,
		questionByKey:   make(map[string]int, len(g.Questions)),
		conditionBySlug: make(map[string]int, len(g.Conditions)),
		questionTexts:   newTexts[string](),
		optionTexts:     newTexts[string](),
		conditionTexts:  newTexts[ConditionText](),
	}

	for _, cr := range g.Conditions {
		if _, dup := c.conditionBySlug[cr.Slug]; dup {
			continue
		}
		id := len(c.conditions)
		c.conditions = append(c.conditions, Condition{
			Slug:       cr.Slug,
			Name:       cr.Name,
			Summary:    cr.Summary,
			MiniVideo:  cr.MiniVideo,
			LongVideo:  cr.LongVideo,
			References: append([]Reference(nil), cr.References...),
		})
		c.conditionBySlug[cr.Slug] = id
		for lang, t := range cr.Texts {
			c.conditionTexts.set(id, lang, t)
		}
	}

	qs := append([]QuestionRecord(nil), g.Questions...)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Position < qs[j].Position })

	for _, qr := range qs {
		qid := len(c.questions)
		q := Question{
			Key:      QuestionKey(qr.Key, qr.Position),
			Position: qr.Position,
			Kind:     qr.Kind,
		}
		if q.Kind == "" {
			q.Kind = SingleChoice
		}
		for lang, txt := range qr.Texts {
			c.questionTexts.set(qid, lang, txt)
		}

		opts := append([]OptionRecord(nil), qr.Options...)
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Position < opts[j].Position })
		for _, or := range opts {
			oid := len(c.options)
			o := Option{
				Key:       or.Key,
				Position:  or.Position,
				Question:  qid,
				IsRedFlag: or.IsRedFlag,
			}
			if or.IsRedFlag {
				o.Condition = or.ConditionSlug
			}
			c.options = append(c.options, o)
			q.Options = append(q.Options, oid)
			for lang, txt := range or.Texts {
				c.optionTexts.set(oid, lang, txt)
			}
		}

		c.questions = append(c.questions, q)
		if _, dup := c.questionByKey[q.Key]; !dup {
			c.questionByKey[q.Key] = qid
		}
	}

	c.rules = BuildRuleIndex(c)
	return c
}

// Questions returns the questions in display order.
func (c *Catalog) Questions() []Question { return c.questions }

func (c *Catalog) Option(h int) Option { return c.options[h] }

// Question looks up a question by its effective key.
func (c *Catalog) Question(key string) (Question, bool) {
	id, ok := c.questionByKey[key]
	if !ok {
		return Question{}, false
	}
	return c.questions[id], true
}

// Condition looks up a condition by slug.
func (c *Catalog) Condition(slug string) (Condition, bool) {
	id, ok := c.conditionBySlug[slug]
	if !ok {
		return Condition{}, false
	}
	return c.conditions[id], true
}

func (c *Catalog) Rules() *RuleIndex { return c.rules }

// Languages lists every language with at least one translation, sorted.
func (c *Catalog) Languages() []string {
	set := map[string]struct{}{}
	for l := range c.questionTexts.langs {
		set[l] = struct{}{}
	}
	for l := range c.optionTexts.langs {
		set[l] = struct{}{}
	}
	for l := range c.conditionTexts.langs {
		set[l] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

type QuestionView struct {
	Key      string       `json:"question_key"`
	Position int          `json:"position"`
	Kind     InputKind    `json:"kind"`
	Text     string       `json:"text"`
	Options  []OptionView `json:"options"`
}

type OptionView struct {
	Key       string `json:"option_key"`
	Text      string `json:"text"`
	IsRedFlag bool   `json:"is_redflag"`
}

// Render localizes the form for lang. Missing translations fall back to
// the question or option key.
func (c *Catalog) Render(lang string) []QuestionView {
	out := make([]QuestionView, 0, len(c.questions))
	for qid, q := range c.questions {
		v := QuestionView{
			Key:      q.Key,
			Position: q.Position,
			Kind:     q.Kind,
			Text:     textOr(c.questionTexts, qid, lang, q.Key),
			Options:  make([]OptionView, 0, len(q.Options)),
		}
		for _, oid := range q.Options {
			o := c.options[oid]
			v.Options = append(v.Options, OptionView{
				Key:       o.Key,
				Text:      textOr(c.optionTexts, oid, lang, o.Key),
				IsRedFlag: o.IsRedFlag,
			})
		}
		out = append(out, v)
	}
	return out
}

type ConditionView struct {
	Slug         string      `json:"slug"`
	Name         string      `json:"name"`
	Summary      string      `json:"summary"`
	PatientVideo string      `json:"patient_video,omitempty"`
	MiniVideo    string      `json:"mini_video,omitempty"`
	LongVideo    string      `json:"long_video,omitempty"`
	References   []Reference `json:"references,omitempty"`
}

// LocalizeCondition resolves a condition's display fields for lang, field by
// field, falling back to the canonical name and summary. A blank canonical
// name falls back to the slug.
func (c *Catalog) LocalizeCondition(cond Condition, lang string) ConditionView {
	v := ConditionView{
		Slug:       cond.Slug,
		Name:       cond.Name,
		Summary:    cond.Summary,
		MiniVideo:  cond.MiniVideo,
		LongVideo:  cond.LongVideo,
		References: cond.References,
	}
	if v.Name == "" {
		v.Name = cond.Slug
	}
	if id, ok := c.conditionBySlug[cond.Slug]; ok {
		if t, ok := c.conditionTexts.Lookup(id, lang); ok {
			if t.Name != "" {
				v.Name = t.Name
			}
			if t.Summary != "" {
				v.Summary = t.Summary
			}
			v.PatientVideo = t.PatientVideo
		}
	}
	return v
}

// LocalizeConditions maps LocalizeCondition over conds, keeping order.
func (c *Catalog) LocalizeConditions(conds []Condition, lang string) []ConditionView {
	out := make([]ConditionView, 0, len(conds))
	for _, cond := range conds {
		out = append(out, c.LocalizeCondition(cond, lang))
	}
	return out
}
