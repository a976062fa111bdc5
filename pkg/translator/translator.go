package translator

import (
	"embed"
	"io/fs"
	"path"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	LanguageEn = "en"
	LanguageId = "id"
)

//go:embed locales/*.toml
var locales embed.FS

var (
	Translator *i18n.Bundle
	once       sync.Once
)

// Init loads the bundled translations. It is safe to call more than once.
func Init() *i18n.Bundle {
	once.Do(func() {
		Translator = newBundle(locales, "locales")
	})
	return Translator
}

func newBundle(fsys fs.FS, dir string) *i18n.Bundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", dir), zap.Error(err))
		return bundle
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(fsys, path.Join(dir, f.Name())); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
	return bundle
}

// Localize renders messageID in lang, which may be a raw Accept-Language
// value. Unknown ids come back unchanged.
func Localize(lang, messageID string, data map[string]any) string {
	localizer := i18n.NewLocalizer(Init(), lang, LanguageEn)

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

// Match picks the best supported language for an Accept-Language value.
func Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return LanguageEn
	}

	matcher := language.NewMatcher([]language.Tag{language.English, language.Indonesian})
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LanguageEn
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No || index == 0 {
		return LanguageEn
	}
	return LanguageId
}
