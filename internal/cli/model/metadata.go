package model

import "strings"

// Predefined option lists offered by the settings dialog.
var (
	AvailableApps      = []string{"Shopify", "E-commerce", "B2B", "B2C"}
	AvailableLangs     = []string{"EN", "HE", "AR", "CN", "ES", "FR", "RU", "DE"}
	AvailablePlatforms = []string{"web", "mobile", "desktop", "linux", "ios", "android"}
	PredefinedTags     = []string{
		"mobile", "desktop", "tablet", "web",
		"header", "footer", "sidebar", "content",
		"button", "icon", "logo", "banner",
		"product", "feature", "marketing", "documentation",
	}
)

// AppMetadata — прикладные метаданные изображения (и глобальные значения по умолчанию).
type AppMetadata struct {
	Apps            []string `json:"apps" yaml:"apps"`
	Langs           []string `json:"langs" yaml:"langs"`
	UsageCode       string   `json:"usageCode" yaml:"usage_code"`
	Version         string   `json:"version,omitempty" yaml:"version,omitempty"`
	CustomTags      []string `json:"customTags" yaml:"custom_tags"`
	TargetPlatforms []string `json:"targetPlatforms" yaml:"target_platforms"`
}

// Normalize replaces nil lists with empty ones. Anything sent to the backend
// must be normalized: absent arrays are never serialized as null.
func (m AppMetadata) Normalize() AppMetadata {
	m.Apps = nonNil(m.Apps)
	m.Langs = nonNil(m.Langs)
	m.CustomTags = nonNil(m.CustomTags)
	m.TargetPlatforms = nonNil(m.TargetPlatforms)
	return m
}

// Clone returns a normalized deep copy.
func (m AppMetadata) Clone() AppMetadata {
	c := m
	c.Apps = append([]string{}, m.Apps...)
	c.Langs = append([]string{}, m.Langs...)
	c.CustomTags = append([]string{}, m.CustomTags...)
	c.TargetPlatforms = append([]string{}, m.TargetPlatforms...)
	return c
}

// IsZero reports whether nothing was configured.
func (m AppMetadata) IsZero() bool {
	return len(m.Apps) == 0 && len(m.Langs) == 0 && m.UsageCode == "" && m.Version == "" &&
		len(m.CustomTags) == 0 && len(m.TargetPlatforms) == 0
}

// Toggle adds value to list if absent, removes it otherwise.
func Toggle(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			out := append([]string{}, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	return append(append([]string{}, list...), value)
}

// AddUnique appends trimmed non-empty values that are not in list yet.
func AddUnique(list []string, values ...string) []string {
	out := nonNil(append([]string{}, list...))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Remove drops every occurrence of value.
func Remove(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
