package catalogparser

import (
	"encoding/json"

	"github.com/nutrimed/interactions-api/catalogparser/entities"
)

// rawInteractionField is the parallel-array structure serialized as a JSON
// string inside the drug_interactions column of the primary tables. The
// arrays may have mismatched lengths.
type rawInteractionField struct {
	Drug   []string `json:"drug"`
	Brand  []string `json:"brand"`
	Effect []string `json:"effect"`
}

// parseInteractionField re-zips the parallel arrays into mentions. A missing
// effect defaults to "Unknown". Malformed encodings yield an empty list, not
// an error.
func parseInteractionField(raw string) []entities.InteractionMention {
	if raw == "" {
		return nil
	}

	var parsed rawInteractionField
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	if len(parsed.Drug) == 0 {
		return nil
	}

	mentions := make([]entities.InteractionMention, 0, len(parsed.Drug))
	for i, drug := range parsed.Drug {
		effect := "Unknown"
		if i < len(parsed.Effect) && parsed.Effect[i] != "" {
			effect = parsed.Effect[i]
		}
		mentions = append(mentions, entities.InteractionMention{
			Drug:   drug,
			Effect: effect,
		})
	}

	return mentions
}
