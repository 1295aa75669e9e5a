package technology

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/script"
)

func decode(t *testing.T, src string) []Entry {
	t.Helper()
	root, err := script.Parse([]byte(src))
	require.NoError(t, err)
	return Decode(root)
}

func TestDecodeSplitsTechnologiesAndAliases(t *testing.T) {
	entries := decode(t, `
		@cost = 100
		tech_a = {
			cost = @cost
			tier = $tier$
			area = physics
			category = { particles computing }
			prerequisites = { tech_b tech_c }
			weight = 95
			weight = 10
			start_tech = yes
		}
		tech_b = { area = xenology }
		stray_list_item
	`)
	require.Len(t, entries, 3)

	assert.True(t, entries[0].IsAlias())
	assert.Equal(t, Entry{Key: "@cost", Alias: "100"}, entries[0])

	a := entries[1]
	require.False(t, a.IsAlias())
	assert.Equal(t, "tech_a", a.Key)
	assert.Equal(t, "@cost", *a.Data.Cost)
	assert.Equal(t, "$tier$", *a.Data.Tier)
	assert.Equal(t, Physics, a.Data.Area)
	assert.Equal(t, []string{"particles", "computing"}, a.Data.Category)
	assert.Equal(t, []string{"tech_b", "tech_c"}, a.Data.Prerequisites)
	assert.Equal(t, []string{"95", "10"}, a.Data.Weight)
	assert.True(t, a.Data.StartTech)

	b := entries[2]
	assert.Equal(t, ResearchArea("xenology"), b.Data.Area)
	assert.Nil(t, b.Data.Cost)
	assert.False(t, b.Data.StartTech)
}

func TestFromBlockScalarCategoryAndMissingArea(t *testing.T) {
	entries := decode(t, `tech = { category = field_manipulation cost = { base = 10 } }`)
	require.Len(t, entries, 1)

	d := entries[0].Data
	assert.Equal(t, []string{"field_manipulation"}, d.Category)
	assert.Equal(t, UnknownArea, d.Area)
	assert.Nil(t, d.Cost)
}

func TestResolve(t *testing.T) {
	cost, tier := "@tier1cost1", "$t$"
	data := Data{
		Cost:     &cost,
		Tier:     &tier,
		Category: []string{"particles", "voidcraft"},
		Weight:   []string{"@w", "1"},
		Area:     Physics,
	}
	r := &Resolver{
		Variables: map[string]string{"@tier1cost1": "360", "t": "1", "@w": "95"},
		Localisation: map[localisation.Language]map[string]localisation.Text{
			localisation.English: {"tech_a": {Value: "Lasers"}},
			localisation.German:  {"other": {Value: "x"}},
		},
	}

	tech := r.Resolve("pkg", "tech_a", data)

	assert.Equal(t, "pkg", tech.PackageID)
	assert.Equal(t, uint64(360), tech.Cost)
	assert.Equal(t, "1", *tech.Tier)
	assert.Equal(t, "particles", *tech.Category)
	assert.Equal(t, "95", *tech.Weight)
	assert.Equal(t, map[localisation.Language]localisation.Text{
		localisation.English: {Value: "Lasers"},
	}, tech.Localisation)
	assert.Equal(t, []string{}, tech.Prerequisites)
}

func TestResolveUnresolvedCostIsZero(t *testing.T) {
	cost := "@nowhere"
	tech := (&Resolver{}).Resolve("pkg", "t", Data{Cost: &cost})

	assert.Equal(t, uint64(0), tech.Cost)
	assert.Nil(t, tech.Tier)
	assert.Nil(t, tech.Weight)
	assert.Nil(t, tech.Category)
}

func TestParseCost(t *testing.T) {
	assert.Equal(t, uint64(360), ParseCost("360"))
	assert.Equal(t, uint64(12), ParseCost(" 12.9 "))
	assert.Equal(t, uint64(0), ParseCost("-5"))
	assert.Equal(t, uint64(0), ParseCost("abc"))
	assert.Equal(t, uint64(0), ParseCost("NaN"))
}

func TestTechnologyEqualByID(t *testing.T) {
	a := &Technology{ID: "x", Cost: 1}
	b := &Technology{ID: "x", Cost: 2, PackageID: "other"}
	c := &Technology{ID: "y"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestTechnologyJSON(t *testing.T) {
	tier := "2"
	tech := Technology{
		PackageID:     "123",
		ID:            "tech_a",
		Localisation:  map[localisation.Language]localisation.Text{localisation.English: {Value: "A"}},
		Cost:          100,
		Tier:          &tier,
		Area:          ResearchArea("psionics"),
		Prerequisites: []string{"tech_b"},
	}

	b, err := json.Marshal(tech)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"package_id": "123",
		"id": "tech_a",
		"localisation": {"english": {"value": "A"}},
		"cost": 100,
		"tier": "2",
		"category": null,
		"weight": null,
		"area": "psionics",
		"prerequisites": ["tech_b"],
		"start_tech": false
	}`, string(b))

	var back Technology
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, tech, back)
}

func TestResearchArea(t *testing.T) {
	assert.True(t, Society.Known())
	assert.False(t, ResearchArea("psionics").Known())
	assert.Equal(t, UnknownArea, ParseResearchArea(""))

	other, ok := ResearchArea("psionics").Other()
	assert.True(t, ok)
	assert.Equal(t, "psionics", other)

	_, ok = Engineering.Other()
	assert.False(t, ok)
}

func TestSignedCostClamps(t *testing.T) {
	assert.Equal(t, int64(360), (&Technology{Cost: 360}).SignedCost())
	assert.Equal(t, int64(math.MaxInt64), (&Technology{Cost: math.MaxInt64}).SignedCost())

	huge := &Technology{Cost: ParseCost("18446744073709551615")}
	require.Equal(t, uint64(math.MaxUint64), huge.Cost)
	assert.Equal(t, int64(math.MaxInt64), huge.SignedCost())
}
