package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var localeFiles = []string{
	"locales/active.en.json",
	"locales/active.ar.json",
}

type Translator struct {
	bundle *goi18n.Bundle
}

// New loads the embedded catalogues. English is the fallback language.
func New() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, f := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return &Translator{bundle: bundle}, nil
}

// Localize renders messageID for the Accept-Language value langs. When the id
// is unknown the fallback text is returned.
func (t *Translator) Localize(langs, messageID string, data map[string]any, fallback string) string {
	if t == nil || messageID == "" {
		return fallback
	}
	loc := goi18n.NewLocalizer(t.bundle, langs)
	msg, _ := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if msg == "" {
		return fallback
	}
	return msg
}
