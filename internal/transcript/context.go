package transcript

import "strings"

// Locale is one of the fixed set of supported preamble languages.
type Locale string

const (
	LocaleEnglish            Locale = "en"
	LocaleChineseSimplified  Locale = "zh-CN"
	LocaleChineseTraditional Locale = "zh-TW"
	LocaleJapanese           Locale = "ja"
	LocaleKorean             Locale = "ko"
	LocaleSpanish            Locale = "es"
	LocaleFrench             Locale = "fr"
	LocaleGerman             Locale = "de"
)

type preamble struct {
	instruction   string
	historyHeader string
}

var preambles = map[Locale]preamble{
	LocaleEnglish: {
		instruction: "This conversation was branched from an earlier conversation at a specific turn. " +
			"The history below is the shared context up to the fork point. " +
			"Continue the conversation from here and produce only the next response; do not restate or summarize the history.",
		historyHeader: "Conversation History",
	},
	LocaleChineseSimplified: {
		instruction:   "本对话由另一段对话在某一节点分叉而来。以下是分叉点之前的共享上下文。请从此处继续对话，只生成下一条回复，不要复述或总结历史内容。",
		historyHeader: "对话历史",
	},
	LocaleChineseTraditional: {
		instruction:   "本對話由另一段對話在某一節點分叉而來。以下是分叉點之前的共享上下文。請從此處繼續對話，只生成下一則回覆，不要複述或總結歷史內容。",
		historyHeader: "對話歷史",
	},
	LocaleJapanese: {
		instruction:   "この会話は別の会話の途中から分岐したものです。以下は分岐点までの共有された履歴です。ここから会話を継続し、次の応答のみを生成してください。履歴の繰り返しや要約は不要です。",
		historyHeader: "会話履歴",
	},
	LocaleKorean: {
		instruction:   "이 대화는 다른 대화의 특정 지점에서 분기된 것입니다. 아래는 분기 지점까지의 공유된 기록입니다. 여기서부터 대화를 이어가고 다음 응답만 생성하세요. 기록을 반복하거나 요약하지 마세요.",
		historyHeader: "대화 기록",
	},
	LocaleSpanish: {
		instruction: "Esta conversación se bifurcó de otra conversación en un punto determinado. " +
			"El historial siguiente es el contexto compartido hasta ese punto. " +
			"Continúa la conversación desde aquí y produce solo la siguiente respuesta; no repitas ni resumas el historial.",
		historyHeader: "Historial de la conversación",
	},
	LocaleFrench: {
		instruction: "Cette conversation est issue d'une bifurcation d'une autre conversation. " +
			"L'historique ci-dessous constitue le contexte partagé jusqu'au point de bifurcation. " +
			"Poursuivez la conversation à partir d'ici et produisez uniquement la prochaine réponse, sans reformuler ni résumer l'historique.",
		historyHeader: "Historique de la conversation",
	},
	LocaleGerman: {
		instruction: "Diese Unterhaltung wurde an einem bestimmten Punkt aus einer anderen Unterhaltung abgezweigt. " +
			"Der folgende Verlauf ist der gemeinsame Kontext bis zu diesem Punkt. " +
			"Setzen Sie die Unterhaltung von hier aus fort und erzeugen Sie nur die nächste Antwort; " +
			"wiederholen oder fassen Sie den Verlauf nicht zusammen.",
		historyHeader: "Gesprächsverlauf",
	},
}

// ResolveLocale maps a free-form language hint ("zh_CN", "ja-JP",
// "fr-CA") to a supported locale by prefix. Any hint starting with "zh"
// other than the Taiwan/traditional variants resolves to simplified
// Chinese. Unrecognized hints fall back to English.
func ResolveLocale(hint string) Locale {
	h := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(hint), "_", "-"))
	switch {
	case h == "":
		return LocaleEnglish
	case strings.HasPrefix(h, "zh-tw") || strings.HasPrefix(h, "zh-hant") || strings.HasPrefix(h, "zh-hk"):
		return LocaleChineseTraditional
	case strings.HasPrefix(h, "zh"):
		return LocaleChineseSimplified
	case strings.HasPrefix(h, "ja"):
		return LocaleJapanese
	case strings.HasPrefix(h, "ko"):
		return LocaleKorean
	case strings.HasPrefix(h, "es"):
		return LocaleSpanish
	case strings.HasPrefix(h, "fr"):
		return LocaleFrench
	case strings.HasPrefix(h, "de"):
		return LocaleGerman
	case strings.HasPrefix(h, "en"):
		return LocaleEnglish
	default:
		return LocaleEnglish
	}
}

// ComposeWithContext wraps a transcript with the localized continuation
// instruction and a history section header. Pure string transform.
func ComposeWithContext(historyMarkdown, languageHint string) string {
	p := preambles[ResolveLocale(languageHint)]

	var b strings.Builder
	b.WriteString(p.instruction)
	b.WriteString("\n\n## ")
	b.WriteString(p.historyHeader)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(historyMarkdown))
	b.WriteString("\n")
	return b.String()
}
