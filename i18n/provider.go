// Package i18n serves the storefront's flat translation tables and tracks the
// language chosen by each session.
package i18n

import (
	"context"
	"maps"

	"golang.org/x/text/language"

	"storefront/globals"
)

const (
	English = "en"
	Bengali = "bn"
)

// Provider looks up translated strings. The zero value is not usable; use
// NewProvider.
type Provider struct {
	tables    map[string]map[string]string
	supported []string
	matcher   language.Matcher
}

func NewProvider() *Provider {
	return &Provider{
		tables: map[string]map[string]string{
			English: english,
			Bengali: bengali,
		},
		supported: []string{English, Bengali},
		// the first tag is the matcher's fallback
		matcher: language.NewMatcher([]language.Tag{language.English, language.Bengali}),
	}
}

// Supported lists the language codes in preference order.
func (p *Provider) Supported() []string {
	return append([]string(nil), p.supported...)
}

func (p *Provider) IsSupported(lang string) bool {
	_, ok := p.tables[lang]
	return ok
}

// Translate returns the string for key in lang, falling back to English and
// then to the key itself.
func (p *Provider) Translate(lang, key string) string {
	if s, ok := p.tables[lang][key]; ok && s != "" {
		return s
	}
	if s, ok := p.tables[English][key]; ok && s != "" {
		return s
	}
	return key
}

// Table returns a copy of the whole table for lang, English if unsupported.
func (p *Provider) Table(lang string) map[string]string {
	t, ok := p.tables[lang]
	if !ok {
		t = p.tables[English]
	}
	return maps.Clone(t)
}

// Negotiate picks the best supported language for an Accept-Language header.
func (p *Provider) Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := p.matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return p.supported[idx]
}

// WithLanguage stores the resolved language in ctx.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, globals.LanguageKey, lang)
}

// FromContext returns the request language, English when unset.
func FromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(globals.LanguageKey).(string); ok && lang != "" {
		return lang
	}
	return globals.DefaultLanguage
}
