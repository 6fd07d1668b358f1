package i18n

import (
	"embed"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.toml
var catalogs embed.FS

// Localizer resolves message keys to translated strings. Unknown keys and
// unknown languages fall back to the key itself.
type Localizer struct {
	bundle   *i18n.Bundle
	registry map[string]*i18n.Localizer
}

func NewLocalizer(languages ...string) Localizer {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	l := Localizer{
		bundle:   bundle,
		registry: make(map[string]*i18n.Localizer),
	}
	for _, lang := range languages {
		path := lang + ".toml"
		if _, err := bundle.LoadMessageFileFS(catalogs, path); err != nil {
			slog.Error("Failed to load i18n message config", slog.String("error", err.Error()), slog.String("lang", lang), slog.String("file", path))
			continue
		}
		l.registry[lang] = i18n.NewLocalizer(bundle, lang)
	}
	return l
}

func (l Localizer) Get(lang string, id string) string {
	return l.localize(lang, id, nil)
}

func (l Localizer) GetWithData(lang, id string, data map[string]interface{}) string {
	return l.localize(lang, id, data)
}

func (l Localizer) localize(lang, id string, data map[string]interface{}) string {
	localizer := l.registry[lang]
	if localizer == nil {
		return id
	}

	str, err := localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			One:   id,
			Other: id,
		},
		TemplateData: data,
	})
	if err != nil {
		slog.Info("failed to get localizer message", slog.String("id", id), slog.String("error", err.Error()))
		return id
	}
	return str
}
