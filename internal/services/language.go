package services

import (
	"golang.org/x/text/language"

	"github.com/inditech/rfa/internal/forms"
)

// PickLanguage chooses the display language for a form. An explicit
// requested code wins when the form has text for it; otherwise the
// Accept-Language header is matched against supported; otherwise def.
// The result is a normalized code.
func PickLanguage(supported []string, requested, acceptLanguage, def string) string {
	if requested != "" {
		want := forms.NormLang(requested)
		for _, s := range supported {
			if forms.NormLang(s) == want {
				return want
			}
		}
	}
	if acceptLanguage == "" || len(supported) == 0 {
		return forms.NormLang(def)
	}

	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return forms.NormLang(def)
	}
	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, s := range supported {
		t, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		codes = append(codes, forms.NormLang(s))
	}
	if len(tags) == 0 {
		return forms.NormLang(def)
	}
	_, idx, conf := language.NewMatcher(tags).Match(prefs...)
	if conf == language.No {
		return forms.NormLang(def)
	}
	return codes[idx]
}
