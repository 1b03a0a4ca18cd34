// Package i18n resolves the language a ticket is handled in and holds the localized copy.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when nothing better is known.
const DefaultLanguage = "en"

// Resolver picks one language code for a request.
type Resolver struct {
	defaultLang string
	supported   map[string]struct{}
}

// NewResolver builds a resolver over the catalog languages. An unsupported default falls back to en.
func NewResolver(defaultLang string) *Resolver {
	supported := make(map[string]struct{}, len(catalogs))
	for code := range catalogs {
		supported[code] = struct{}{}
	}
	defaultLang = strings.ToLower(strings.TrimSpace(defaultLang))
	if _, ok := supported[defaultLang]; !ok {
		defaultLang = DefaultLanguage
	}
	return &Resolver{defaultLang: defaultLang, supported: supported}
}

// Resolve applies the priority order: explicit value verbatim, then the first
// Accept-Language tag when supported, then the default.
func (r *Resolver) Resolve(explicit, acceptLanguage string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if lang := r.fromHeader(acceptLanguage); lang != "" {
		return lang
	}
	return r.defaultLang
}

// Normalize maps a stored language to a supported one for rendering.
func (r *Resolver) Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if r.Supported(lang) {
		return lang
	}
	return r.defaultLang
}

// Supported reports whether lang has a catalog.
func (r *Resolver) Supported(lang string) bool {
	_, ok := r.supported[lang]
	return ok
}

// Default returns the fallback language.
func (r *Resolver) Default() string {
	return r.defaultLang
}

// fromHeader takes the first tag as written, ignoring q-weights, and keeps only its base language.
func (r *Resolver) fromHeader(header string) string {
	first := strings.TrimSpace(strings.SplitN(header, ",", 2)[0])
	first = strings.TrimSpace(strings.SplitN(first, ";", 2)[0])
	if first == "" || first == "*" {
		return ""
	}
	var base string
	if tag, err := language.Parse(first); err == nil {
		b, _ := tag.Base()
		base = b.String()
	} else {
		base = strings.SplitN(strings.ReplaceAll(first, "_", "-"), "-", 2)[0]
	}
	base = strings.Clone(strings.ToLower(base))
	if r.Supported(base) {
		return base
	}
	return ""
}
