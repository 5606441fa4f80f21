package grammar

import "slices"

// CompletionSet is the set of solved challenge ids. Values are immutable:
// Add returns a new set and leaves the receiver untouched.
type CompletionSet struct {
	ids []int
}

// Has reports whether id was solved.
func (c CompletionSet) Has(id int) bool {
	_, found := slices.BinarySearch(c.ids, id)
	return found
}

// Add returns the set with id included. Adding a present id returns c.
func (c CompletionSet) Add(id int) CompletionSet {
	pos, found := slices.BinarySearch(c.ids, id)
	if found {
		return c
	}
	ids := make([]int, 0, len(c.ids)+1)
	ids = append(ids, c.ids[:pos]...)
	ids = append(ids, id)
	ids = append(ids, c.ids[pos:]...)
	return CompletionSet{ids: ids}
}

// Len returns the number of solved challenges.
func (c CompletionSet) Len() int { return len(c.ids) }

// IDs returns the solved ids in ascending order.
func (c CompletionSet) IDs() []int {
	return slices.Clone(c.ids)
}
