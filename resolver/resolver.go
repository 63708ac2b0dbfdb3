// Package resolver maps free-text queries to canonical drug and food
// entities using a deterministic fallback chain over the catalog snapshot.
package resolver

import (
	"strings"

	"github.com/nutrimed/interactions-api/catalogparser"
	"github.com/nutrimed/interactions-api/catalogparser/entities"
	"github.com/nutrimed/interactions-api/logging"
)

const (
	// maxAliasHops bounds alias chain following; the enrichment batch only
	// ever produces brand→generic or brand→brand→generic, anything deeper
	// is a data defect.
	maxAliasHops = 5

	// DrugSimilarityThreshold is the minimum score for fuzzy correction
	// against the priority list.
	DrugSimilarityThreshold = 0.6

	// FoodSimilarityThreshold is stricter: the food index is small and
	// short names collide easily.
	FoodSimilarityThreshold = 0.7
)

// Resolver resolves queries against a catalog snapshot. It holds no state
// besides the similarity strategy and is safe for concurrent use; callers
// pass the snapshot per call so one request sees one consistent catalog.
type Resolver struct {
	similarity Similarity
}

// New creates a resolver with the default normalized-Levenshtein strategy.
func New() *Resolver {
	return NewWithSimilarity(LevenshteinSimilarity{})
}

// NewWithSimilarity creates a resolver with a custom similarity strategy.
func NewWithSimilarity(similarity Similarity) *Resolver {
	return &Resolver{similarity: similarity}
}

// ResolveDrug maps a free-text query to a canonical drug record. The
// fallback chain runs in order and short-circuits on the first hit:
// alias redirect, exact match, fuzzy correction against the priority list
// (retrying alias and exact with the corrected name), substring over the
// sorted canonical names, substring over the salt compositions. Any hit is
// enriched with food-interaction and warning data before returning.
func (r *Resolver) ResolveDrug(catalog *entities.Catalog, query string) (entities.DrugRecord, bool) {
	norm := catalogparser.Normalize(query)
	if norm == "" {
		return entities.DrugRecord{}, false
	}

	if record, ok := directLookup(catalog, norm); ok {
		return enrich(catalog, record), true
	}

	if len(catalog.PriorityNames) > 0 {
		if match, ok := bestMatch(r.similarity, norm, catalog.PriorityNames, DrugSimilarityThreshold); ok {
			corrected := catalogparser.Normalize(match)
			if corrected != norm {
				logging.Debug("Query corrected against priority list", "query", norm, "corrected", corrected)
			}
			if record, ok := directLookup(catalog, corrected); ok {
				return enrich(catalog, record), true
			}
		}
	}

	// Substring fallbacks scan the sorted name slice so the first match is
	// reproducible across runs. Containment runs both ways: a partial name
	// matches inside the canonical one, and a query carrying extra tokens
	// ("drugy tablet") still finds the bare canonical name.
	for _, name := range catalog.DrugNames {
		if strings.Contains(name, norm) || strings.Contains(norm, name) {
			return enrich(catalog, catalog.Drugs[name]), true
		}
	}

	for _, name := range catalog.DrugNames {
		record := catalog.Drugs[name]
		if record.SaltComposition != "" && strings.Contains(record.SaltComposition, norm) {
			return enrich(catalog, record), true
		}
	}

	return entities.DrugRecord{}, false
}

// ResolveFood maps a query to a canonical food: exact match, then fuzzy
// with the stricter food threshold. Foods get no substring fallback.
func (r *Resolver) ResolveFood(catalog *entities.Catalog, query string) (entities.FoodRecord, bool) {
	norm := catalogparser.Normalize(query)
	if norm == "" {
		return entities.FoodRecord{}, false
	}

	if food, ok := catalog.Foods[norm]; ok {
		return food, true
	}

	if match, ok := bestMatch(r.similarity, norm, catalog.FoodNames, FoodSimilarityThreshold); ok {
		return catalog.Foods[match], true
	}

	return entities.FoodRecord{}, false
}

// Suggest returns up to limit canonical drug names containing the query, in
// deterministic catalog order.
func (r *Resolver) Suggest(catalog *entities.Catalog, query string, limit int) []string {
	norm := catalogparser.Normalize(query)
	if norm == "" || limit <= 0 {
		return nil
	}

	var matches []string
	for _, name := range catalog.DrugNames {
		if strings.Contains(name, norm) {
			matches = append(matches, name)
			if len(matches) >= limit {
				break
			}
		}
	}

	return matches
}

// directLookup runs the alias redirect and the exact match. The alias chain
// is followed iteratively with a visited set and a hop bound; a cycle or an
// exhausted budget falls back to the original name, which is then also
// tried exactly.
func directLookup(catalog *entities.Catalog, norm string) (entities.DrugRecord, bool) {
	name := norm
	visited := map[string]struct{}{norm: {}}

	for hop := 0; hop < maxAliasHops; hop++ {
		target, ok := catalog.Aliases[name]
		if !ok {
			break
		}

		target = catalogparser.Normalize(target)
		if _, seen := visited[target]; seen || target == "" {
			// Alias cycle: treat the chain as exhausted.
			name = norm
			break
		}

		visited[target] = struct{}{}
		name = target
	}

	if record, ok := catalog.Drugs[name]; ok {
		return record, true
	}

	// The alias chain ended on a name the catalog does not know; fall back
	// to the query itself.
	if name != norm {
		if record, ok := catalog.Drugs[norm]; ok {
			return record, true
		}
	}

	return entities.DrugRecord{}, false
}

// enrich attaches the resolution-time data: food-interaction strings looked
// up by ingredient key with the canonical name as fallback, and generic
// warnings by ingredient key. The catalog record itself is never mutated.
func enrich(catalog *entities.Catalog, record entities.DrugRecord) entities.DrugRecord {
	key := catalogparser.IngredientKey(record.SaltComposition)

	foodInteractions := catalog.FoodInteractions[key]
	if len(foodInteractions) == 0 {
		foodInteractions = catalog.FoodInteractions[record.Name]
	}
	record.FoodInteractions = foodInteractions

	if key != "" {
		if warnings, ok := catalog.GenericWarnings[key]; ok {
			record.Warnings = &warnings
		}
	}

	return record
}
