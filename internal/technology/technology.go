// Package technology holds technology records as read from script files
// and as resolved against merged variables and localisation.
package technology

import (
	"math"
	"strconv"
	"strings"

	"stellaris-techtree/internal/interpolation"
	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/script"
)

// Data is a technology definition before variable resolution. Scalar fields
// may still hold variable names such as @tier1cost1.
type Data struct {
	Cost          *string
	Tier          *string
	Category      []string
	Weight        []string
	Area          ResearchArea
	Prerequisites []string
	StartTech     bool
}

// FromBlock extracts the fields of a technology block. Unknown fields and
// block-valued scalars are ignored.
func FromBlock(b *script.Block) Data {
	d := Data{
		Category:      stringsOf(b, "category"),
		Area:          UnknownArea,
		Prerequisites: stringsOf(b, "prerequisites"),
		StartTech:     b.Bool("start_tech"),
	}
	if s, ok := b.Scalar("cost"); ok {
		d.Cost = &s
	}
	if s, ok := b.Scalar("tier"); ok {
		d.Tier = &s
	}
	if s, ok := b.Scalar("area"); ok {
		d.Area = ParseResearchArea(s)
	}
	for _, v := range b.All("weight") {
		if s, ok := v.(script.Scalar); ok {
			d.Weight = append(d.Weight, s.Text)
		}
	}
	return d
}

// stringsOf collects every value of key, accepting both `key = a` and
// `key = { a b }`.
func stringsOf(b *script.Block, key string) []string {
	var out []string
	for _, v := range b.All(key) {
		switch v := v.(type) {
		case script.Scalar:
			out = append(out, v.Text)
		case *script.Block:
			out = append(out, v.Values()...)
		}
	}
	return out
}

// Entry is one top-level definition of a technology file. A key bound to a
// block is a technology; a key bound to a bare value is an alias that
// belongs with the scripted variables.
type Entry struct {
	Key   string
	Data  *Data
	Alias string
}

// IsAlias reports whether the entry is a scalar rather than a technology.
func (e Entry) IsAlias() bool { return e.Data == nil }

// Decode classifies the top-level fields of a technology file.
func Decode(root *script.Block) []Entry {
	entries := make([]Entry, 0, root.Len())
	for _, f := range root.Fields() {
		if f.Key == "" || f.Op != "=" {
			continue
		}
		switch v := f.Value.(type) {
		case script.Scalar:
			entries = append(entries, Entry{Key: f.Key, Alias: v.Text})
		case *script.Block:
			d := FromBlock(v)
			entries = append(entries, Entry{Key: f.Key, Data: &d})
		}
	}
	return entries
}

// Technology is a resolved technology record. Two technologies are the
// same entity when their ids match.
type Technology struct {
	PackageID     string                                     `json:"package_id"`
	ID            string                                     `json:"id"`
	Localisation  map[localisation.Language]localisation.Text `json:"localisation"`
	Cost          uint64                                     `json:"cost"`
	Tier          *string                                    `json:"tier"`
	Category      *string                                    `json:"category"`
	Weight        *string                                    `json:"weight"`
	Area          ResearchArea                               `json:"area"`
	Prerequisites []string                                   `json:"prerequisites"`
	StartTech     bool                                       `json:"start_tech"`
}

// SignedCost returns Cost clamped to the int64 range of the database
// sinks.
func (t *Technology) SignedCost() int64 {
	if t.Cost > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(t.Cost)
}

// Equal compares technologies by id.
func (t *Technology) Equal(other *Technology) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.ID == other.ID
}

// Resolver turns Data into Technology using the merged variables and the
// folded localisation of every language.
type Resolver struct {
	Variables    map[string]string
	Localisation map[localisation.Language]map[string]localisation.Text
}

// Resolve builds the technology id defined by package packageID.
func (r *Resolver) Resolve(packageID, id string, d Data) Technology {
	tech := Technology{
		PackageID:     packageID,
		ID:            id,
		Localisation:  make(map[localisation.Language]localisation.Text),
		Area:          d.Area,
		Prerequisites: d.Prerequisites,
		StartTech:     d.StartTech,
	}
	if tech.Prerequisites == nil {
		tech.Prerequisites = []string{}
	}

	for lang, texts := range r.Localisation {
		if text, ok := texts[id]; ok {
			tech.Localisation[lang] = text
		}
	}

	if d.Cost != nil {
		tech.Cost = ParseCost(interpolation.ResolveScalar(*d.Cost, r.Variables))
	}
	if d.Tier != nil {
		tier := interpolation.ResolveScalar(*d.Tier, r.Variables)
		tech.Tier = &tier
	}
	if len(d.Category) > 0 {
		category := d.Category[0]
		tech.Category = &category
	}
	if len(d.Weight) > 0 {
		weight := interpolation.ResolveScalar(d.Weight[0], r.Variables)
		tech.Weight = &weight
	}
	return tech
}

// ParseCost reads a resolved cost. Fractional costs are truncated; anything
// that is not a non-negative number yields zero.
func ParseCost(s string) uint64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxUint64 {
		return 0
	}
	return uint64(f)
}
