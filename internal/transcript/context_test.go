package transcript

import (
	"strings"
	"testing"
)

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		hint string
		want Locale
	}{
		{"", LocaleEnglish},
		{"en", LocaleEnglish},
		{"en-US", LocaleEnglish},
		{"zh", LocaleChineseSimplified},
		{"zh-CN", LocaleChineseSimplified},
		{"zh_CN", LocaleChineseSimplified},
		{"zh-SG", LocaleChineseSimplified},
		{"zh-TW", LocaleChineseTraditional},
		{"zh-Hant", LocaleChineseTraditional},
		{"zh-HK", LocaleChineseTraditional},
		{"ja-JP", LocaleJapanese},
		{"ko", LocaleKorean},
		{"es-MX", LocaleSpanish},
		{"fr-CA", LocaleFrench},
		{"de-AT", LocaleGerman},
		{"pt-BR", LocaleEnglish},
		{"klingon", LocaleEnglish},
	}
	for _, tc := range cases {
		if got := ResolveLocale(tc.hint); got != tc.want {
			t.Errorf("ResolveLocale(%q) = %s, want %s", tc.hint, got, tc.want)
		}
	}
}

func TestComposeWithContext_English(t *testing.T) {
	history := "# Chat\n\n## User\n\nhello\n"
	got := ComposeWithContext(history, "en")

	if !strings.Contains(got, "## Conversation History") {
		t.Errorf("missing history header:\n%s", got)
	}
	if !strings.Contains(got, "hello") {
		t.Errorf("missing transcript body:\n%s", got)
	}
	// Instruction comes before the history.
	if strings.Index(got, "branched") > strings.Index(got, "hello") {
		t.Errorf("instruction should precede the transcript:\n%s", got)
	}
}

func TestComposeWithContext_Localized(t *testing.T) {
	got := ComposeWithContext("history", "zh-CN")
	if !strings.Contains(got, "对话历史") {
		t.Errorf("missing zh-CN header:\n%s", got)
	}
	got = ComposeWithContext("history", "zh-TW")
	if !strings.Contains(got, "對話歷史") {
		t.Errorf("missing zh-TW header:\n%s", got)
	}
}

func TestComposeWithContext_TrimsHistory(t *testing.T) {
	got := ComposeWithContext("\n\n  body  \n\n", "")
	if !strings.Contains(got, "\n\nbody\n") {
		t.Errorf("history should be trimmed:\n%q", got)
	}
}

func TestAllLocalesHavePreambles(t *testing.T) {
	for _, l := range []Locale{
		LocaleEnglish, LocaleChineseSimplified, LocaleChineseTraditional,
		LocaleJapanese, LocaleKorean, LocaleSpanish, LocaleFrench, LocaleGerman,
	} {
		p, ok := preambles[l]
		if !ok || p.instruction == "" || p.historyHeader == "" {
			t.Errorf("locale %s has incomplete preamble", l)
		}
	}
}
