// Package i18n localizes the few user-visible strings the navigation
// shell itself produces: the module-load failure message, the
// screen-reader announcement, and the not-found title. Page content
// localization belongs to the page modules, not here.
package i18n

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message IDs the shell localizes.
const (
	MsgLoadFailed     = "shell.load_failed"
	MsgPageLoaded     = "shell.page_loaded"
	MsgNotFoundTitle  = "shell.not_found_title"
	MsgNavigatedTitle = "shell.navigated"
)

// Localizer resolves shell strings for the active language.
type Localizer struct {
	loc *i18n.Localizer
}

// NewBundle builds the shell's message bundle with English defaults and
// an optional Danish set. Applications can add further languages via
// the returned bundle before constructing a Localizer.
func NewBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.English)

	b.AddMessages(language.English,
		&i18n.Message{ID: MsgLoadFailed, Other: "This page could not be loaded. Please try again."},
		&i18n.Message{ID: MsgPageLoaded, Other: "Page loaded"},
		&i18n.Message{ID: MsgNotFoundTitle, Other: "Page not found"},
		&i18n.Message{ID: MsgNavigatedTitle, Other: "Navigated to {{.Title}}"},
	)
	b.AddMessages(language.Danish,
		&i18n.Message{ID: MsgLoadFailed, Other: "Siden kunne ikke indlæses. Prøv igen."},
		&i18n.Message{ID: MsgPageLoaded, Other: "Siden er indlæst"},
		&i18n.Message{ID: MsgNotFoundTitle, Other: "Siden blev ikke fundet"},
		&i18n.Message{ID: MsgNavigatedTitle, Other: "Navigerede til {{.Title}}"},
	)

	return b
}

// NewLocalizer creates a Localizer preferring the given language tags.
func NewLocalizer(bundle *i18n.Bundle, langs ...string) *Localizer {
	return &Localizer{loc: i18n.NewLocalizer(bundle, langs...)}
}

// Default returns an English localizer over the built-in bundle.
func Default() *Localizer {
	return NewLocalizer(NewBundle(), language.English.String())
}

// T resolves a message ID with no template data.
func (l *Localizer) T(id string) string {
	return l.resolve(id, nil)
}

// Tf resolves a message ID with template data.
func (l *Localizer) Tf(id string, data map[string]any) string {
	return l.resolve(id, data)
}

func (l *Localizer) resolve(id string, data map[string]any) string {
	msg, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		// A missing translation falls back to the ID rather than
		// surfacing an error into the DOM.
		return id
	}
	return msg
}
