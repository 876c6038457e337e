// Package i18n translates message keys emitted by the core into locale strings.
package i18n

import (
	"golang.org/x/text/language"
)

// Translator resolves a key for a locale.
type Translator interface {
	Translate(key, locale string) string
}

// Catalog holds per-locale string tables. Lookups fall back to the default
// locale and then to the key itself.
type Catalog struct {
	defaultTag language.Tag
	tags       []language.Tag
	tables     []map[string]string
	matcher    language.Matcher
}

// NewCatalog creates a catalog whose fallback locale is defaultLocale.
// An unparsable default falls back to English.
func NewCatalog(defaultLocale string) *Catalog {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	c := &Catalog{defaultTag: tag}
	c.Add(tag.String(), nil)
	return c
}

// Add merges entries into the table of a locale, creating it if needed.
func (c *Catalog) Add(locale string, entries map[string]string) {
	tag, err := language.Parse(locale)
	if err != nil {
		return
	}
	idx := c.indexOf(tag)
	if idx < 0 {
		c.tags = append(c.tags, tag)
		c.tables = append(c.tables, map[string]string{})
		idx = len(c.tags) - 1
		c.matcher = language.NewMatcher(c.tags)
	}
	for k, v := range entries {
		c.tables[idx][k] = v
	}
}

// Translate returns the string for key in the closest supported locale.
func (c *Catalog) Translate(key, locale string) string {
	if idx := c.match(locale); idx >= 0 {
		if s, ok := c.tables[idx][key]; ok {
			return s
		}
	}
	if idx := c.indexOf(c.defaultTag); idx >= 0 {
		if s, ok := c.tables[idx][key]; ok {
			return s
		}
	}
	return key
}

// Locales lists the supported locales.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

func (c *Catalog) match(locale string) int {
	tag, err := language.Parse(locale)
	if err != nil || c.matcher == nil {
		return -1
	}
	_, idx, confidence := c.matcher.Match(tag)
	if confidence == language.No {
		return -1
	}
	return idx
}

func (c *Catalog) indexOf(tag language.Tag) int {
	for i, t := range c.tags {
		if t == tag {
			return i
		}
	}
	return -1
}
