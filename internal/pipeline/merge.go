package pipeline

import (
	"cmp"
	"slices"
	"sort"

	"stellaris-techtree/internal/colortext"
	"stellaris-techtree/internal/interpolation"
	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/technology"
	"stellaris-techtree/internal/textutil"
)

// mergeVariables folds the scalar variables of every package in load
// order. Inside a package its scripted variables come first, then the
// aliases found in its technology files in file and field order. Aliases of
// packages that were skipped are dropped.
func mergeVariables(packages []*parsedPackage, aliases []alias) map[string]string {
	slices.SortFunc(aliases, func(a, b alias) int {
		return cmp.Or(cmp.Compare(a.pkg, b.pkg), cmp.Compare(a.file, b.file), cmp.Compare(a.field, b.field))
	})

	byPackage := make(map[int][]alias)
	for _, a := range aliases {
		byPackage[a.pkg] = append(byPackage[a.pkg], a)
	}

	layers := make([]map[string]string, 0, 2*len(packages))
	for _, pkg := range packages {
		layers = append(layers, pkg.variables)
		if list := byPackage[pkg.index]; len(list) > 0 {
			redirected := make(map[string]string, len(list))
			for _, a := range list {
				redirected[a.key] = a.value
			}
			layers = append(layers, redirected)
		}
	}
	return interpolation.Merge(layers...)
}

// mergeLocalisation groups the raw entries of every file by language and
// merges each group in load order, the last definition of a key winning.
func mergeLocalisation(packages []*parsedPackage) map[localisation.Language]map[string]string {
	merged := make(map[localisation.Language]map[string]string)
	for _, pkg := range packages {
		for _, file := range pkg.localisation {
			m, ok := merged[file.Language]
			if !ok {
				m = make(map[string]string)
				merged[file.Language] = m
			}
			for _, e := range file.Entries {
				m[e.Key] = e.Value
			}
		}
	}
	return merged
}

// resolveLocalisation substitutes references in every merged string and
// folds each language into Text records. References resolve against the
// scalar variables first, then against keys of the same language. It also
// returns the number of strings with malformed markup.
func (p *Pipeline) resolveLocalisation(
	merged map[localisation.Language]map[string]string,
	variables map[string]string,
) (map[localisation.Language]map[string]localisation.Text, int) {
	folded := make(map[localisation.Language]map[string]localisation.Text, len(merged))
	problems := 0

	for lang, entries := range merged {
		lookup := interpolation.Chain(interpolation.MapLookup(variables), interpolation.MapLookup(entries))

		resolved := make(map[string]string, len(entries))
		for key, value := range entries {
			s := interpolation.Substitute(value, lookup)
			resolved[key] = s

			if refs := interpolation.ReferenceNames(s); len(refs) > 0 {
				p.log.Debug().
					Str("language", lang.String()).
					Str("key", key).
					Strs("unresolved", refs).
					Msg("Localisation references left unresolved")
			}

			if found := colortext.Check(s); len(found) > 0 {
				problems++
				p.log.Debug().
					Str("language", lang.String()).
					Str("key", key).
					Str("problem", found[0].String()).
					Str("text", textutil.Truncate(s, 60)).
					Msg("Malformed localisation markup")
			}
		}
		folded[lang] = localisation.Fold(resolved)

		p.log.Debug().
			Str("language", lang.String()).
			Int("keys", len(entries)).
			Int("texts", len(folded[lang])).
			Msg("Localisation resolved")
	}
	return folded, problems
}

// resolveTechnologies resolves every package's technologies, ids sorted
// within a package, and flattens them in load order. A later package
// defining an id already seen shadows the earlier record.
func (p *Pipeline) resolveTechnologies(
	packages []*parsedPackage,
	variables map[string]string,
	texts map[localisation.Language]map[string]localisation.Text,
) ([]*technology.Technology, map[string]*technology.Technology) {
	resolver := &technology.Resolver{Variables: variables, Localisation: texts}

	var all []*technology.Technology
	byID := make(map[string]*technology.Technology)

	for _, pkg := range packages {
		ids := make([]string, 0, len(pkg.technologies))
		for id := range pkg.technologies {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			tech := resolver.Resolve(pkg.info.ID, id, pkg.technologies[id])
			if prev, ok := byID[id]; ok {
				p.log.Warn().
					Str("id", id).
					Str("previous", prev.PackageID).
					Str("package", tech.PackageID).
					Msg("Duplicate technology id, later package wins")
			}
			all = append(all, &tech)
			byID[id] = &tech
		}
	}
	return all, byID
}
