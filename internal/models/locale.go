package models

// RegionInfo describes one supported region: its default language, currency
// and the tone hint folded into generation prompts. The hint is advisory
// only; nothing downstream enforces it.
type RegionInfo struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	DefaultLanguage string `json:"default_language"`
	Currency        string `json:"currency"`
	ToneHint        string `json:"-"`
}

// SupportedRegions is the closed set accepted by the region preference
// endpoint. Keys are lowercase ISO-ish codes as the UI sends them.
var SupportedRegions = map[string]RegionInfo{
	"us": {Code: "us", Name: "United States", DefaultLanguage: "en", Currency: "USD", ToneHint: "direct and results-focused"},
	"uk": {Code: "uk", Name: "United Kingdom", DefaultLanguage: "en", Currency: "GBP", ToneHint: "polished and understated"},
	"eu": {Code: "eu", Name: "European Union", DefaultLanguage: "en", Currency: "EUR", ToneHint: "formal and detail-oriented"},
	"de": {Code: "de", Name: "Germany", DefaultLanguage: "de", Currency: "EUR", ToneHint: "precise and structured"},
	"fr": {Code: "fr", Name: "France", DefaultLanguage: "fr", Currency: "EUR", ToneHint: "elegant and relationship-driven"},
	"es": {Code: "es", Name: "Spain", DefaultLanguage: "es", Currency: "EUR", ToneHint: "warm and personable"},
	"br": {Code: "br", Name: "Brazil", DefaultLanguage: "pt", Currency: "BRL", ToneHint: "friendly and enthusiastic"},
	"jp": {Code: "jp", Name: "Japan", DefaultLanguage: "ja", Currency: "JPY", ToneHint: "respectful and thorough"},
	"au": {Code: "au", Name: "Australia", DefaultLanguage: "en", Currency: "AUD", ToneHint: "casual and pragmatic"},
}

// SupportedLanguages is the closed set accepted by the language preference
// endpoint.
var SupportedLanguages = map[string]string{
	"en": "English",
	"de": "Deutsch",
	"fr": "Français",
	"es": "Español",
	"pt": "Português",
	"ja": "日本語",
}

// IsSupportedRegion reports whether the code is in the supported set.
func IsSupportedRegion(code string) bool {
	_, ok := SupportedRegions[code]
	return ok
}

// IsSupportedLanguage reports whether the code is in the supported set.
func IsSupportedLanguage(code string) bool {
	_, ok := SupportedLanguages[code]
	return ok
}
