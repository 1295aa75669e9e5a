package localisation

import "fmt"

// Language identifies the locale of a localisation file.
type Language int

const (
	// Unknown is used for files whose header names an unsupported locale.
	Unknown Language = iota
	English
	BrazPor
	French
	German
	Polish
	Russian
	Spanish
	SimpChinese
	Japanese
	Korean
)

// languageTags holds the header identifier of every language, as written
// after the "l_" prefix.
var languageTags = [...]string{
	Unknown:     "default",
	English:     "english",
	BrazPor:     "braz_por",
	French:      "french",
	German:      "german",
	Polish:      "polish",
	Russian:     "russian",
	Spanish:     "spanish",
	SimpChinese: "simp_chinese",
	Japanese:    "japanese",
	Korean:      "korean",
}

// Languages returns every supported language, Unknown excluded.
func Languages() []Language {
	langs := make([]Language, 0, len(languageTags)-1)
	for l := English; int(l) < len(languageTags); l++ {
		langs = append(langs, l)
	}
	return langs
}

// ParseLanguage maps a header identifier such as "english" to a Language.
// Unrecognised identifiers map to Unknown.
func ParseLanguage(tag string) Language {
	for l, t := range languageTags {
		if t == tag {
			return Language(l)
		}
	}
	return Unknown
}

func (l Language) String() string {
	if l < 0 || int(l) >= len(languageTags) {
		return fmt.Sprintf("Language(%d)", int(l))
	}
	return languageTags[l]
}

// MarshalText encodes the language as its header tag, which makes Language
// usable as a JSON object key.
func (l Language) MarshalText() ([]byte, error) {
	if l < 0 || int(l) >= len(languageTags) {
		return nil, fmt.Errorf("invalid language %d", int(l))
	}
	return []byte(languageTags[l]), nil
}

func (l *Language) UnmarshalText(b []byte) error {
	*l = ParseLanguage(string(b))
	return nil
}
