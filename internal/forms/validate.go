package forms

import (
	"errors"
	"fmt"
)

// Validate checks the authoring invariants of a graph: unique positions and
// keys, and that an option is a red flag exactly when it names a known
// condition. Catalogs never call it; import tooling does.
func (g *Graph) Validate() error {
	var errs []error

	conds := make(map[string]struct{}, len(g.Conditions))
	for _, c := range g.Conditions {
		if c.Slug == "" {
			errs = append(errs, errors.New("condition with empty slug"))
			continue
		}
		if _, dup := conds[c.Slug]; dup {
			errs = append(errs, fmt.Errorf("condition %q: duplicate slug", c.Slug))
		}
		conds[c.Slug] = struct{}{}
	}

	qpos := map[int]struct{}{}
	qkeys := map[string]struct{}{}
	for _, q := range g.Questions {
		key := QuestionKey(q.Key, q.Position)
		if _, dup := qpos[q.Position]; dup {
			errs = append(errs, fmt.Errorf("question %q: duplicate position %d", key, q.Position))
		}
		qpos[q.Position] = struct{}{}
		if _, dup := qkeys[key]; dup {
			errs = append(errs, fmt.Errorf("question %q: duplicate key", key))
		}
		qkeys[key] = struct{}{}

		if q.Kind == FreeText && len(q.Options) > 0 {
			errs = append(errs, fmt.Errorf("question %q: free-text question has options", key))
		}

		opos := map[int]struct{}{}
		okeys := map[string]struct{}{}
		for _, o := range q.Options {
			if o.Key == "" {
				errs = append(errs, fmt.Errorf("question %q: option at position %d has no key", key, o.Position))
			}
			if _, dup := opos[o.Position]; dup {
				errs = append(errs, fmt.Errorf("question %q: duplicate option position %d", key, o.Position))
			}
			opos[o.Position] = struct{}{}
			if _, dup := okeys[o.Key]; dup {
				errs = append(errs, fmt.Errorf("question %q: duplicate option key %q", key, o.Key))
			}
			okeys[o.Key] = struct{}{}

			switch {
			case o.IsRedFlag && o.ConditionSlug == "":
				errs = append(errs, fmt.Errorf("option %s/%s: red flag without condition", key, o.Key))
			case !o.IsRedFlag && o.ConditionSlug != "":
				errs = append(errs, fmt.Errorf("option %s/%s: condition %q on non-red-flag option", key, o.Key, o.ConditionSlug))
			case o.IsRedFlag:
				if _, ok := conds[o.ConditionSlug]; !ok {
					errs = append(errs, fmt.Errorf("option %s/%s: unknown condition %q", key, o.Key, o.ConditionSlug))
				}
			}
		}
	}
	return errors.Join(errs...)
}
