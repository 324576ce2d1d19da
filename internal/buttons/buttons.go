// Package buttons orders a store's custom contact buttons and describes the
// button types a merchant can pick from.
package buttons

import (
	"sort"

	"github.com/livefir/storefront/internal/catalog"
)

// Sort returns buttons ordered by position. Ties keep their input order.
func Sort(buttons []catalog.Button) []catalog.Button {
	out := make([]catalog.Button, len(buttons))
	copy(out, buttons)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Move drags the button activeID onto the slot of overID. Buttons are taken
// in position order, moved, and renumbered 0..n-1. It returns the full new
// order and the buttons whose stored position changed. Unknown IDs or a move
// onto itself leave the order untouched and report no changes.
func Move(buttons []catalog.Button, activeID, overID string) (ordered, changed []catalog.Button) {
	sorted := Sort(buttons)
	from, to := indexOf(sorted, activeID), indexOf(sorted, overID)
	if from < 0 || to < 0 || from == to {
		return sorted, nil
	}

	moved := sorted[from]
	rest := append(sorted[:from:from], sorted[from+1:]...)
	ordered = make([]catalog.Button, 0, len(sorted))
	ordered = append(ordered, rest[:to]...)
	ordered = append(ordered, moved)
	ordered = append(ordered, rest[to:]...)

	for i := range ordered {
		if ordered[i].Position != i {
			ordered[i].Position = i
			changed = append(changed, ordered[i])
		}
	}
	return ordered, changed
}

// NextPosition is the position a new button is appended at.
func NextPosition(buttons []catalog.Button) int {
	if len(buttons) == 0 {
		return 0
	}
	max := buttons[0].Position
	for _, b := range buttons[1:] {
		if b.Position > max {
			max = b.Position
		}
	}
	return max + 1
}

func indexOf(buttons []catalog.Button, id string) int {
	for i, b := range buttons {
		if b.ID == id {
			return i
		}
	}
	return -1
}
