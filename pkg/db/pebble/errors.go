package pebble

import "errors"

var (
	ErrBatchDone       = errors.New("batch already committed or closed")
	ErrIteratorInvalid = errors.New("iterator is not positioned on a valid entry")
)

const (
	ErrInIteratorCreation = "failed to create iterator: %v"
	ErrIteratorValue      = "failed to read iterator value: %v"
)
