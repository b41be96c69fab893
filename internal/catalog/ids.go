package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ParseIDList parses a comma-separated list of Pokémon ids as submitted by
// a form. Blank input and blank entries are ignored; duplicates are kept and
// collapsed later by the service.
func ParseIDList(raw string) ([]int, error) {
	var ids []int

	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, invalid("selected_pokemon_ids", fmt.Sprintf("%q is not a valid id", part))
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// uniqueIDs returns ids sorted with duplicates removed.
func uniqueIDs(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// reconcile splits the change from current to desired into the ids to add
// and the ids to remove. Ids in both sets appear in neither result.
func reconcile(current, desired []int) (add, remove []int) {
	have := make(map[int]bool, len(current))
	for _, id := range current {
		have[id] = true
	}

	want := make(map[int]bool, len(desired))
	for _, id := range uniqueIDs(desired) {
		want[id] = true
		if !have[id] {
			add = append(add, id)
		}
	}

	for _, id := range uniqueIDs(current) {
		if !want[id] {
			remove = append(remove, id)
		}
	}

	return add, remove
}
