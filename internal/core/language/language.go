// Package language lists the languages offered for translation.
package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto asks the provider to detect the source language.
const Auto = "auto"

// Language is one selectable entry.
type Language struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	NameEn  string `json:"nameEn"`
	Popular bool   `json:"popular,omitempty"`
}

// All is ordered by usage: popular entries first, the rest alphabetically.
var All = []Language{
	{Code: Auto, Name: "自動檢測", NameEn: "Auto Detect", Popular: true},
	{Code: "zh-TW", Name: "繁體中文", NameEn: "Traditional Chinese", Popular: true},
	{Code: "en", Name: "英文", NameEn: "English", Popular: true},
	{Code: "zh-CN", Name: "簡體中文", NameEn: "Simplified Chinese", Popular: true},
	{Code: "ja", Name: "日文", NameEn: "Japanese", Popular: true},
	{Code: "ko", Name: "韓文", NameEn: "Korean", Popular: true},
	{Code: "es", Name: "西班牙文", NameEn: "Spanish", Popular: true},
	{Code: "fr", Name: "法文", NameEn: "French", Popular: true},
	{Code: "de", Name: "德文", NameEn: "German", Popular: true},
	{Code: "pt", Name: "葡萄牙文", NameEn: "Portuguese", Popular: true},

	{Code: "ar", Name: "阿拉伯文", NameEn: "Arabic"},
	{Code: "bg", Name: "保加利亞文", NameEn: "Bulgarian"},
	{Code: "ca", Name: "加泰羅尼亞文", NameEn: "Catalan"},
	{Code: "cs", Name: "捷克文", NameEn: "Czech"},
	{Code: "da", Name: "丹麥文", NameEn: "Danish"},
	{Code: "nl", Name: "荷蘭文", NameEn: "Dutch"},
	{Code: "et", Name: "愛沙尼亞文", NameEn: "Estonian"},
	{Code: "fi", Name: "芬蘭文", NameEn: "Finnish"},
	{Code: "el", Name: "希臘文", NameEn: "Greek"},
	{Code: "he", Name: "希伯來文", NameEn: "Hebrew"},
	{Code: "hi", Name: "印地文", NameEn: "Hindi"},
	{Code: "hu", Name: "匈牙利文", NameEn: "Hungarian"},
	{Code: "id", Name: "印尼文", NameEn: "Indonesian"},
	{Code: "it", Name: "義大利文", NameEn: "Italian"},
	{Code: "lv", Name: "拉脫維亞文", NameEn: "Latvian"},
	{Code: "lt", Name: "立陶宛文", NameEn: "Lithuanian"},
	{Code: "ms", Name: "馬來文", NameEn: "Malay"},
	{Code: "no", Name: "挪威文", NameEn: "Norwegian"},
	{Code: "pl", Name: "波蘭文", NameEn: "Polish"},
	{Code: "ro", Name: "羅馬尼亞文", NameEn: "Romanian"},
	{Code: "ru", Name: "俄文", NameEn: "Russian"},
	{Code: "sk", Name: "斯洛伐克文", NameEn: "Slovak"},
	{Code: "sl", Name: "斯洛維尼亞文", NameEn: "Slovenian"},
	{Code: "sv", Name: "瑞典文", NameEn: "Swedish"},
	{Code: "th", Name: "泰文", NameEn: "Thai"},
	{Code: "tr", Name: "土耳其文", NameEn: "Turkish"},
	{Code: "uk", Name: "烏克蘭文", NameEn: "Ukrainian"},
	{Code: "vi", Name: "越南文", NameEn: "Vietnamese"},
}

// Popular returns the entries flagged as popular.
func Popular() []Language {
	out := make([]Language, 0, 10)
	for _, l := range All {
		if l.Popular {
			out = append(out, l)
		}
	}
	return out
}

// Search matches query against code, native and English names,
// case-insensitively. An empty query returns everything.
func Search(query string) []Language {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return All
	}

	out := []Language{}
	for _, l := range All {
		if strings.Contains(strings.ToLower(l.Name), q) ||
			strings.Contains(strings.ToLower(l.NameEn), q) ||
			strings.Contains(strings.ToLower(l.Code), q) {
			out = append(out, l)
		}
	}
	return out
}

// Find returns the catalogue entry for code.
func Find(code string) (Language, bool) {
	for _, l := range All {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return Language{}, false
}

// Name returns the native display name for code, or code itself.
func Name(code string) string {
	if l, ok := Find(code); ok {
		return l.Name
	}
	return code
}

// EnglishName returns the English name for code. Codes outside the catalogue
// fall back to the CLDR name, then to the code.
func EnglishName(code string) string {
	if l, ok := Find(code); ok {
		return l.NameEn
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}

// Normalize validates code as a BCP 47 tag and returns its canonical form.
// "auto" and "" are returned as Auto.
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, Auto) {
		return Auto, nil
	}
	if l, ok := Find(code); ok {
		return l.Code, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}
