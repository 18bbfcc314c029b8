// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package i18n

// Language is a supported display language code.
type Language string

const (
	English Language = "en"
	Sinhala Language = "si"
	Tamil   Language = "ta"
)

// Default is used whenever a requested language has no entry.
const Default = English

// Supported lists the accepted language codes in display order.
var Supported = []Language{English, Sinhala, Tamil}

// IsSupported reports whether code names one of the supported languages.
func IsSupported(code string) bool {
	for _, l := range Supported {
		if string(l) == code {
			return true
		}
	}
	return false
}

// Text maps a language code to its display string.
// The English entry must always be present.
type Text map[Language]string

// Resolve returns the string for lang, or the default-language string.
func (t Text) Resolve(lang string) string {
	if s, ok := t[Language(lang)]; ok && s != "" {
		return s
	}
	return t[Default]
}

// ChatFallback is returned in place of an assistant reply when the
// workflow backend cannot be reached.
var ChatFallback = Text{
	English: "Sorry, I'm having trouble right now. Please try again.",
	Sinhala: "සමවන්න, දැන් ගැටලුවක් ඇත. නැවත උත්සාහ කරන්න.",
	Tamil:   "மன்னிக்கவும், எனக்கு இப்போது சிக்கல் உள்ளது. மீண்டும் முயற்சி செய்யவும்.",
}
