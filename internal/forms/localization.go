package forms

import "strings"

// NormLang canonicalizes a language code: trimmed, upper case ("en" -> "EN").
func NormLang(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type locKey struct {
	id   int
	lang string
}

// Texts holds at most one value of T per (entity, language).
// Entities are addressed by their arena handle.
type Texts[T any] struct {
	m     map[locKey]T
	langs map[string]struct{}
}

func newTexts[T any]() *Texts[T] {
	return &Texts[T]{m: map[locKey]T{}, langs: map[string]struct{}{}}
}

func (t *Texts[T]) set(id int, lang string, v T) {
	lang = NormLang(lang)
	if lang == "" {
		return
	}
	t.m[locKey{id, lang}] = v
	t.langs[lang] = struct{}{}
}

// Lookup returns the text for (id, lang) if one exists.
func (t *Texts[T]) Lookup(id int, lang string) (T, bool) {
	v, ok := t.m[locKey{id, NormLang(lang)}]
	return v, ok
}

// textOr resolves a plain string, falling back to def when the translation
// is missing or blank.
func textOr(t *Texts[string], id int, lang, def string) string {
	if v, ok := t.Lookup(id, lang); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
