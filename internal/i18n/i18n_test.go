package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestSelectLanguage(t *testing.T) {
	for _, key := range []string{"RUSTOREDL_LANG", "LC_ALL", "LC_MESSAGES", "LANG"} {
		t.Setenv(key, "")
	}

	tests := []struct {
		override string
		want     language.Tag
	}{
		{"", language.English},
		{"ru", language.Russian},
		{"ru_RU.UTF-8", language.Russian},
		{"en_US.UTF-8", language.English},
		{"de", language.English},
	}

	for _, tt := range tests {
		if got := selectLanguage(tt.override); got != tt.want {
			t.Errorf("selectLanguage(%q) = %v, want %v", tt.override, got, tt.want)
		}
	}
}

func TestTranslateWithTemplate(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	got := T("download.skip", map[string]interface{}{"URL": "https://cdn/res/lang.apk"})
	if got != "Skipping non-apk [https://cdn/res/lang.apk]" {
		t.Errorf("Unexpected translation: %q", got)
	}

	if got := T("no.such.message"); got != "no.such.message" {
		t.Errorf("Expected message ID fallback, got %q", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	if err := Init("ru"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	t.Cleanup(func() { Init("en") })

	if got := T("download.done"); got != "Готово!" {
		t.Errorf("Unexpected translation: %q", got)
	}
}
