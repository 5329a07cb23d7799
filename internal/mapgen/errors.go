package mapgen

import "errors"

var (
	ErrInvalidParams = errors.New("invalid map parameters")
)
