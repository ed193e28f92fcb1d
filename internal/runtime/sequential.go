package runtime

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// Sequential schedules d as a linear chain: the first two boxes of the
// visitation order are combined first, then each remaining box is folded in
// one at a time. order may be nil, in which case boxes are visited in id
// order; otherwise it must be a permutation of the diagram's boxes.
//
// A diagram with n boxes yields max(1, n-1) composites and exactly one root.
func Sequential(d *domain.Diagram, order []domain.BoxID) (*domain.Scheduled, error) {
	n := d.NumBoxes()

	if order == nil {
		order = make([]domain.BoxID, n)
		for i := range order {
			order[i] = domain.BoxID(i)
		}
	} else if err := checkOrder(order, n); err != nil {
		return nil, err
	}

	k := n - 1
	if k < 1 {
		k = 1
	}
	parent := make([]domain.CompositeID, k)
	for i := 0; i < k-1; i++ {
		parent[i] = domain.CompositeID(i + 1)
	}
	parent[k-1] = domain.CompositeID(k - 1)

	boxParent := make([]domain.CompositeID, n)
	for i, b := range order {
		if i < 2 {
			boxParent[b] = 0
		} else {
			boxParent[b] = domain.CompositeID(i - 1)
		}
	}

	return domain.NewScheduled(d, parent, boxParent)
}

func checkOrder(order []domain.BoxID, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: got %d entries for %d boxes", domain.ErrOrderMismatch, len(order), n)
	}
	seen := make([]bool, n)
	for _, b := range order {
		if b < 0 || int(b) >= n {
			return fmt.Errorf("%w: box %d out of range", domain.ErrOrderMismatch, b)
		}
		if seen[b] {
			return fmt.Errorf("%w: box %d listed twice", domain.ErrOrderMismatch, b)
		}
		seen[b] = true
	}
	return nil
}
