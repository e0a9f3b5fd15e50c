package forms

import "sort"

// Answer is one chosen option for one question.
type Answer struct {
	Question string `json:"question_key"`
	Option   string `json:"option_key"`
}

// Answers is an ordered answer set. Multi-choice questions appear once per
// chosen option.
type Answers []Answer

// Evaluate returns the conditions triggered by answers, in order of first
// trigger, each at most once. Unknown questions or options are ignored.
func Evaluate(answers Answers, idx *RuleIndex) []Condition {
	out := []Condition{}
	seen := map[string]struct{}{}
	for _, a := range answers {
		cond, ok := idx.Lookup(a.Question, a.Option)
		if !ok {
			continue
		}
		if _, dup := seen[cond.Slug]; dup {
			continue
		}
		seen[cond.Slug] = struct{}{}
		out = append(out, cond)
	}
	return out
}

// Evaluate runs Evaluate against the catalog's own rule index.
func (c *Catalog) Evaluate(answers Answers) []Condition {
	return Evaluate(answers, c.rules)
}

// OrderAnswers turns an unordered question -> option map into Answers in
// form order: by question position, then option position. Pairs the form
// does not know trail in lexical order so the result is deterministic.
func (c *Catalog) OrderAnswers(m map[string]string) Answers {
	pairs := make(Answers, 0, len(m))
	for q, o := range m {
		pairs = append(pairs, Answer{Question: q, Option: o})
	}
	return c.orderPairs(pairs)
}

// OrderMulti is OrderAnswers for multi-valued input such as a parsed HTML
// form. Only multi-choice questions keep several options; any other known
// question keeps the first option submitted for it.
func (c *Catalog) OrderMulti(m map[string][]string) Answers {
	pairs := make(Answers, 0, len(m))
	for q, opts := range m {
		if qid, ok := c.questionByKey[q]; ok && c.questions[qid].Kind != MultiChoice && len(opts) > 1 {
			opts = opts[:1]
		}
		for _, o := range opts {
			pairs = append(pairs, Answer{Question: q, Option: o})
		}
	}
	return c.orderPairs(pairs)
}

func (c *Catalog) orderPairs(pairs Answers) Answers {
	type ranked struct {
		a     Answer
		known bool
		qpos  int
		opos  int
	}
	rs := make([]ranked, 0, len(pairs))
	for _, a := range pairs {
		r := ranked{a: a}
		// handles follow display order, so they double as sort ranks
		if qid, found := c.questionByKey[a.Question]; found {
			r.known = true
			r.qpos = qid
			r.opos = len(c.options)
			for _, oid := range c.questions[qid].Options {
				if c.options[oid].Key == a.Option {
					r.opos = oid
					break
				}
			}
		}
		rs = append(rs, r)
	}
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if a.known != b.known {
			return a.known
		}
		if a.known && a.qpos != b.qpos {
			return a.qpos < b.qpos
		}
		if a.known && a.opos != b.opos {
			return a.opos < b.opos
		}
		if a.a.Question != b.a.Question {
			return a.a.Question < b.a.Question
		}
		return a.a.Option < b.a.Option
	})
	out := make(Answers, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.a)
	}
	return out
}
