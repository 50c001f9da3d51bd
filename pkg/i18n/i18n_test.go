package i18n

import (
	"strings"
	"testing"
)

func TestEnglishDefaults(t *testing.T) {
	loc := Default()

	if got := loc.T(MsgLoadFailed); !strings.Contains(got, "could not be loaded") {
		t.Errorf("T(MsgLoadFailed) = %q", got)
	}
	if got := loc.T(MsgNotFoundTitle); got != "Page not found" {
		t.Errorf("T(MsgNotFoundTitle) = %q", got)
	}
}

func TestDanish(t *testing.T) {
	loc := NewLocalizer(NewBundle(), "da")

	if got := loc.T(MsgLoadFailed); !strings.Contains(got, "kunne ikke") {
		t.Errorf("T(MsgLoadFailed) = %q", got)
	}
}

func TestTemplateData(t *testing.T) {
	loc := Default()

	got := loc.Tf(MsgNavigatedTitle, map[string]any{"Title": "Calendar"})
	if got != "Navigated to Calendar" {
		t.Errorf("Tf = %q", got)
	}
}

func TestUnknownLanguageFallsBack(t *testing.T) {
	loc := NewLocalizer(NewBundle(), "sw")

	if got := loc.T(MsgPageLoaded); got != "Page loaded" {
		t.Errorf("T(MsgPageLoaded) = %q", got)
	}
}

func TestUnknownMessageReturnsID(t *testing.T) {
	loc := Default()

	if got := loc.T("shell.no_such_message"); got != "shell.no_such_message" {
		t.Errorf("T = %q", got)
	}
}
