package research

import "fmt"

// NewBudget validates and creates a research budget. Breadth must be at
// least 1; depth 0 is valid and describes a leaf that performs no work.
func NewBudget(breadth, depth int) (Budget, error) {
	if breadth < 1 {
		return Budget{}, fmt.Errorf("breadth must be >= 1, got %d", breadth)
	}
	if depth < 0 {
		return Budget{}, fmt.Errorf("depth must be >= 0, got %d", depth)
	}
	return Budget{Breadth: breadth, Depth: depth}, nil
}

// Child derives the budget for a child node holding the given breadth
// allocation. Depth always shrinks by exactly 1.
func (b Budget) Child(allocation int) Budget {
	return Budget{Breadth: allocation, Depth: b.Depth - 1}
}

// AllocateBreadth splits parentBreadth across numChildren as evenly as
// possible, giving the remainder to the earliest children. The results are
// non-negative and sum to at most parentBreadth. When numChildren exceeds
// parentBreadth the first parentBreadth children receive 1 and the rest
// receive 0; a zero allocation means the child is not dispatched at all.
func AllocateBreadth(parentBreadth, numChildren int) []int {
	if numChildren <= 0 {
		return nil
	}
	alloc := make([]int, numChildren)
	if parentBreadth <= 0 {
		return alloc
	}

	base := parentBreadth / numChildren
	rem := parentBreadth % numChildren
	for i := range alloc {
		alloc[i] = base
		if i < rem {
			alloc[i]++
		}
	}
	return alloc
}
