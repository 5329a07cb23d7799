package startpos

import "errors"

var (
	ErrNoFairShare    = errors.New("cannot allocate starting positions")
	ErrPlacementStuck = errors.New("start position placement did not converge")
)
