package store

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/technology"
)

// technologyBatch queues the upsert of techs and of their prerequisite
// rows.
func technologyBatch(runID uuid.UUID, techs []*technology.Technology) *pgx.Batch {
	b := &pgx.Batch{}
	for _, t := range techs {
		b.Queue(upsertTechnology,
			t.ID, t.PackageID, t.SignedCost(), t.Tier, t.Category, t.Weight,
			t.Area.String(), t.StartTech, runID.String())
		b.Queue(deletePrerequisites, t.ID)
		for i, p := range t.Prerequisites {
			b.Queue(insertPrerequisite, t.ID, p, i)
		}
	}
	return b
}

type localisationRow struct {
	language localisation.Language
	key      string
	text     localisation.Text
}

// localisationBatch queues the upsert of one row per text.
func localisationBatch(runID uuid.UUID, rows []localisationRow) *pgx.Batch {
	b := &pgx.Batch{}
	for _, r := range rows {
		b.Queue(upsertLocalisation,
			r.language.String(), r.key, r.text.Value, r.text.Name, r.text.Description, runID.String())
	}
	return b
}

func sortedTechnologies(byID map[string]*technology.Technology) []*technology.Technology {
	techs := make([]*technology.Technology, 0, len(byID))
	for _, t := range byID {
		techs = append(techs, t)
	}
	sort.Slice(techs, func(i, j int) bool { return techs[i].ID < techs[j].ID })
	return techs
}

func localisationRows(texts map[localisation.Language]map[string]localisation.Text) []localisationRow {
	var rows []localisationRow
	langs := append([]localisation.Language{localisation.Unknown}, localisation.Languages()...)
	for _, lang := range langs {
		entries := texts[lang]
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, localisationRow{language: lang, key: k, text: entries[k]})
		}
	}
	return rows
}
