package translator_test

import (
	"testing"

	"todoTracker/pkg/translator"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_LoadsBundledLanguages(t *testing.T) {
	bundle := translator.Init()
	require.NotNil(t, bundle)

	localizer := i18n.NewLocalizer(bundle, translator.LanguageId)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: "validation_failed"})
	require.NoError(t, err)
	assert.Equal(t, "Validasi gagal", msg)
}

func TestLocalize(t *testing.T) {
	assert.Equal(t, "Validation failed", translator.Localize(translator.LanguageEn, "validation_failed", nil))
	assert.Equal(t, "Successfully deleted 3 todo list(s)",
		translator.Localize(translator.LanguageEn, "todos_deleted", map[string]any{"Count": 3}))
	assert.Equal(t, "The due_date field must be a date after or equal to today.",
		translator.Localize(translator.LanguageEn, "rule_not_past", map[string]any{"Field": "due_date"}))
}

func TestLocalize_FallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "Todo list not found", translator.Localize("fr", "todo_not_found", nil))
}

func TestLocalize_UnknownMessage(t *testing.T) {
	assert.Equal(t, "no_such_message", translator.Localize(translator.LanguageEn, "no_such_message", nil))
}

func TestMatch(t *testing.T) {
	assert.Equal(t, translator.LanguageEn, translator.Match(""))
	assert.Equal(t, translator.LanguageEn, translator.Match("en-US,en;q=0.9"))
	assert.Equal(t, translator.LanguageId, translator.Match("id-ID,id;q=0.9,en;q=0.5"))
	assert.Equal(t, translator.LanguageEn, translator.Match("de-DE"))
	assert.Equal(t, translator.LanguageEn, translator.Match("not a header;;"))
}
