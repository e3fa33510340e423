package domain

import "github.com/google/uuid"

// PickRotating selects the candidate at the cursor position, wrapping
// modulo the candidate-set size. The cursor passed in is the pre-advance
// value; advancing it (by exactly one, atomically) is the caller's job so
// that selection stays pure. Returns false when there is no candidate.
func PickRotating(candidates []Agent, cursor int64) (Agent, bool) {
	if len(candidates) == 0 {
		return Agent{}, false
	}
	index := cursor % int64(len(candidates))
	if index < 0 {
		index += int64(len(candidates))
	}
	return candidates[index], true
}

// PickLoadAware selects the candidate with the fewest open work items,
// skipping anyone at or above the capacity ceiling. Ties go to the first
// candidate in eligibility order. Agents missing from openCounts have zero
// open items. Returns false when the list is empty or everyone is at
// capacity.
func PickLoadAware(candidates []Agent, openCounts map[uuid.UUID]int, ceiling int) (Agent, bool) {
	var best Agent
	bestCount := -1
	found := false

	for _, candidate := range candidates {
		count := openCounts[candidate.ID]
		if ceiling > 0 && count >= ceiling {
			continue
		}
		if !found || count < bestCount {
			best = candidate
			bestCount = count
			found = true
		}
	}

	return best, found
}
