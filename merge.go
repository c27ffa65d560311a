package accessir

import (
	"github.com/gomlx/accessir/types/rangeset"
	"github.com/pkg/errors"
)

// Merge combines two summaries of a newly unified equivalence class into to,
// reporting whether to was mutated. The host rebuilds every class whose
// summary changed, so returning true spuriously is correct but expensive:
// each cover is ORed in only after a cheap is-more-informative check.
//
// Access patterns must agree on both shape halves; their zero-region maps
// join axis-wise in the point-wise boolean lattice. Every other variant must
// compare equal, in which case nothing changes.
func (an *Analysis) Merge(to, from *Data) (bool, error) {
	if to.kind == KindAccessPattern && from.kind == KindAccessPattern {
		toAccess, fromAccess := to.access, from.access
		if !toAccess.Shape.Equal(fromAccess.Shape) {
			return false, errors.Errorf("cannot merge access patterns with shapes %s and %s",
				toAccess.Shape, fromAccess.Shape)
		}
		if !toAccess.ItemShape.Equal(fromAccess.ItemShape) {
			return false, errors.Errorf("cannot merge access patterns with item shapes %s and %s",
				toAccess.ItemShape, fromAccess.ItemShape)
		}

		changed := false
		for axis, fromCover := range fromAccess.ZeroRegions {
			// An all-false cover carries no information.
			if !fromCover.AnyTrue() {
				continue
			}
			toCover, found := toAccess.ZeroRegions[axis]
			if !found {
				if toAccess.ZeroRegions == nil {
					toAccess.ZeroRegions = make(map[int]rangeset.RangeSet)
				}
				toAccess.ZeroRegions[axis] = fromCover.Clone()
				changed = true
				continue
			}
			if toCover.Dominates(fromCover) {
				continue
			}
			toAccess.ZeroRegions[axis] = rangeset.Union(toCover, fromCover)
			changed = true
		}
		return changed, nil
	}

	if !to.Equal(from) {
		return false, errors.Errorf("cannot merge unequal summaries of kinds %s and %s", to.kind, from.kind)
	}
	return false, nil
}
