package reconciler

import "sort"

// diffIDs computes the symmetric difference between the desired and
// current member sets. Both returned slices are sorted so mutation
// order is deterministic.
func diffIDs(desired, current []int) (toAdd, toRemove []int) {
	desiredSet := make(map[int]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}
	currentSet := make(map[int]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}

	for id := range desiredSet {
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for id := range currentSet {
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}

	sort.Ints(toAdd)
	sort.Ints(toRemove)
	return toAdd, toRemove
}
