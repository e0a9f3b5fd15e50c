package forms

type ruleKey struct {
	question string
	option   string
}

// RuleIndex maps (question key, option key) to the condition that answer
// triggers. Options that are not red flags have no entry. Immutable after
// BuildRuleIndex.
type RuleIndex struct {
	rules      map[ruleKey]int
	conditions []Condition
}

// BuildRuleIndex scans every option of c. A red-flag option whose condition
// slug is unknown to the catalog is skipped.
func BuildRuleIndex(c *Catalog) *RuleIndex {
	idx := &RuleIndex{
		rules:      make(map[ruleKey]int),
		conditions: c.conditions,
	}
	for _, q := range c.questions {
		for _, oid := range q.Options {
			o := c.options[oid]
			if !o.IsRedFlag || o.Condition == "" {
				continue
			}
			cid, ok := c.conditionBySlug[o.Condition]
			if !ok {
				continue
			}
			k := ruleKey{q.Key, o.Key}
			if _, dup := idx.rules[k]; dup {
				continue
			}
			idx.rules[k] = cid
		}
	}
	return idx
}

// Lookup returns the condition triggered by answering question with option.
func (idx *RuleIndex) Lookup(question, option string) (Condition, bool) {
	if idx == nil {
		return Condition{}, false
	}
	cid, ok := idx.rules[ruleKey{question, option}]
	if !ok {
		return Condition{}, false
	}
	return idx.conditions[cid], true
}

func (idx *RuleIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.rules)
}
