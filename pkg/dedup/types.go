package dedup

import "errors"

type Status int

const (
	Accepted Status = iota
	Duplicate
)

var ErrInvalidSize = errors.New("dedup cache size must be > 0")
