package bridge

import "errors"

var (
	ErrNilFactory    = errors.New("bridge: host factory is nil")
	ErrNilDispatcher = errors.New("bridge: dispatcher is nil")
)
