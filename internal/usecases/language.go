package usecases

import "strings"

var synthesisLocales = map[string]string{
	"ar": "arb",
	"de": "de-DE",
	"en": "en-US",
	"es": "es-ES",
	"fr": "fr-FR",
	"hi": "hi-IN",
	"it": "it-IT",
	"ja": "ja-JP",
	"ko": "ko-KR",
	"nl": "nl-NL",
	"pt": "pt-BR",
	"zh": "cmn-CN",
}

// PrimarySubtag reduces a language tag to its primary subtag: "en-US" -> "en".
func PrimarySubtag(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		return tag[:i]
	}
	return tag
}

// SynthesisLanguage picks the language code for speech synthesis. An explicit
// override wins, a full tag is kept, a known primary tag maps to its usual
// locale and anything else becomes "xx-XX".
func SynthesisLanguage(target, override string) string {
	if override != "" {
		return override
	}
	if strings.Contains(target, "-") {
		return target
	}
	lower := strings.ToLower(target)
	if locale, ok := synthesisLocales[lower]; ok {
		return locale
	}
	return lower + "-" + strings.ToUpper(lower)
}
