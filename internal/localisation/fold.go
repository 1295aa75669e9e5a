package localisation

import (
	"strings"

	"stellaris-techtree/internal/textutil"
)

// Text is a resolved localisation record for one stem.
type Text struct {
	Value       string  `json:"value"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Stem derives the common prefix of a key: "tech_x_name", "tech_x.desc"
// and "tech_x" all share the stem "tech_x".
func Stem(key string) string {
	stem := textutil.TrimSuffixes(key, "name")
	stem = textutil.TrimSuffixes(stem, "desc")
	return strings.TrimRight(stem, ":_.")
}

// Fold groups the keys of one language by stem and fills the value, name
// and description slots of each group.
//
// Stems are inferred from naming conventions only, so unrelated keys that
// happen to share a prefix (say "x_name" defined by one mod and "x" by
// another) are folded together.
func Fold(entries map[string]string) map[string]Text {
	stems := make(map[string]struct{}, len(entries))
	for key := range entries {
		if stem := Stem(key); stem != "" {
			stems[stem] = struct{}{}
		}
	}

	folded := make(map[string]Text, len(stems))
	for stem := range stems {
		name, hasName := firstOf(entries, stem+"_name", stem+".name")
		desc, hasDesc := firstOf(entries, stem+"_desc", stem+".desc")
		value, hasValue := firstOf(entries, stem)

		switch {
		case hasValue:
		case hasName:
			value = name
		case hasDesc:
			value = desc
		default:
			continue
		}

		text := Text{Value: value}
		if hasName {
			text.Name = &name
		}
		if hasDesc {
			text.Description = &desc
		}
		folded[stem] = text
	}
	return folded
}

// firstOf returns the unquoted value of the first key present in entries.
func firstOf(entries map[string]string, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := entries[k]; ok {
			return textutil.TrimQuotes(v), true
		}
	}
	return "", false
}
