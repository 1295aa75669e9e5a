package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/technology"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

func TestCanParse(t *testing.T) {
	tests := []struct {
		rel          string
		descriptor   bool
		variables    bool
		technology   bool
		localisation bool
	}{
		{rel: "descriptor.mod", descriptor: true},
		{rel: "common/scripted_variables/00_vars.txt", variables: true},
		{rel: "common/scripted_variables/nested/vars.txt"},
		{rel: "common/technology/00_phys.txt", technology: true},
		{rel: "common/technology/00_phys.TXT", technology: true},
		{rel: "common/technology/readme.md"},
		{rel: "localisation/english/techs_l_english.yml", localisation: true},
		{rel: "localisation/techs_l_english.yml", localisation: true},
		{rel: "localisation_synced/x.yml"},
		{rel: "gfx/descriptor.mod"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.descriptor, NewDescriptorParser().CanParse(tt.rel))
			assert.Equal(t, tt.variables, NewVariablesParser().CanParse(tt.rel))
			assert.Equal(t, tt.technology, NewTechnologyParser().CanParse(tt.rel))
			assert.Equal(t, tt.localisation, NewLocalisationParser().CanParse(tt.rel))
		})
	}
}

func TestDescriptorParser(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "descriptor.mod", []byte(`version="2.1"
tags={
	"Technologies"
	"Gameplay"
}
name="More Techs"
picture="thumbnail.png"
supported_version="3.12.*"
dependencies={ "UI Overhaul Dynamic" }
remote_file_id="1234567"
`))

	d, err := NewDescriptorParser().Parse(p)
	require.NoError(t, err)
	assert.Equal(t, Descriptor{
		Name:             "More Techs",
		Tags:             []string{"Technologies", "Gameplay"},
		Version:          "2.1",
		Dependencies:     []string{"UI Overhaul Dynamic"},
		Picture:          "thumbnail.png",
		SupportedVersion: "3.12.*",
		RemoteFileID:     "1234567",
	}, d)
}

func TestDescriptorParserRequiresName(t *testing.T) {
	p := writeFile(t, t.TempDir(), "descriptor.mod", []byte(`version="1"`))
	_, err := NewDescriptorParser().Parse(p)
	assert.ErrorContains(t, err, "missing name")
}

func TestGameDescriptor(t *testing.T) {
	dir := t.TempDir()

	d := GameDescriptor(dir)
	assert.Equal(t, Descriptor{Name: "Stellaris", RemoteFileID: "Stellaris"}, d)

	writeFile(t, dir, "launcher-settings.json", []byte(`{"gameId":"stellaris","rawVersion":"v3.12.4"}`))
	d = GameDescriptor(dir)
	assert.Equal(t, "v3.12.4", d.Version)
}

func TestVariablesParser(t *testing.T) {
	p := writeFile(t, t.TempDir(), "vars.txt", []byte(`# costs
@tier1cost1 = 360
@tier1cost2 = 480
@tier1cost1 = 400
nested = { a = b }
`))

	vars, err := NewVariablesParser().Parse(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"@tier1cost1": "400", "@tier1cost2": "480"}, vars)
}

func TestTechnologyParserKeepsAliases(t *testing.T) {
	p := writeFile(t, t.TempDir(), "techs.txt", []byte(`@cost = 100
tech_a = {
	cost = @cost
	area = physics
}
`))

	entries, err := NewTechnologyParser().Parse(p)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, technology.Entry{Key: "@cost", Alias: "100"}, entries[0])
	assert.Equal(t, "tech_a", entries[1].Key)
	require.NotNil(t, entries[1].Data)
	assert.Equal(t, technology.Physics, entries[1].Data.Area)
}

func TestTechnologyParserSyntaxError(t *testing.T) {
	p := writeFile(t, t.TempDir(), "broken.txt", []byte("tech_a = {\n\tcost = 1\n"))
	_, err := NewTechnologyParser().Parse(p)
	assert.Error(t, err)
}

func TestScriptFallsBackToWindows1252(t *testing.T) {
	// "Café" with é as the single Windows-1252 byte 0xE9.
	p := writeFile(t, t.TempDir(), "vars.txt", []byte("@name = \"Caf\xe9\"\n"))

	vars, err := NewVariablesParser().Parse(p)
	require.NoError(t, err)
	assert.Equal(t, "Café", vars["@name"])
}

func TestScriptKeepsUTF8(t *testing.T) {
	p := writeFile(t, t.TempDir(), "vars.txt", []byte("\xEF\xBB\xBF@name = \"Café\"\n"))

	vars, err := NewVariablesParser().Parse(p)
	require.NoError(t, err)
	assert.Equal(t, "Café", vars["@name"])
}

func TestDecodeLocalisationReplacesInvalidBytes(t *testing.T) {
	for name, input := range map[string]string{
		"with bom":    "\xEF\xBB\xBFl_english:\n k:0 \"Bad \xff\"\n",
		"without bom": "l_english:\n k:0 \"Bad \xff\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			out, err := decodeLocalisation([]byte(input))
			require.NoError(t, err)
			assert.Equal(t, "l_english:\n k:0 \"Bad \uFFFD\"\n", string(out))
		})
	}
}

func TestLocalisationParser(t *testing.T) {
	p := writeFile(t, t.TempDir(), "localisation/english/t_l_english.yml",
		[]byte("\xEF\xBB\xBFl_english:\n tech_a:0 \"Lasers\"\n tech_a_desc:0 \"Bad \xff byte\"\n"))

	file, err := NewLocalisationParser().Parse(p)
	require.NoError(t, err)
	assert.Equal(t, localisation.English, file.Language)
	assert.Equal(t, map[string]string{
		"tech_a":      "Lasers",
		"tech_a_desc": "Bad � byte",
	}, file.Map())
}

func TestLocalisationParserMissingFile(t *testing.T) {
	_, err := NewLocalisationParser().Parse(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
