package parfor

import (
	"errors"
	"fmt"
)

// ItemError attributes a failure to the loop item that produced it.
type ItemError struct {
	// Value is the loop value or sequence element the body was called with.
	Value any
	// Index is the position of the item in input order, starting at 0.
	Index int
	// Partition is the partition (or chunk) the item belonged to, starting at 0.
	Partition int

	Err error
}

func newItemError(err error, value any, index, partition int) error {
	if err == nil {
		return nil
	}
	return &ItemError{Value: value, Index: index, Partition: partition, Err: err}
}

func (e *ItemError) Error() string { return e.Err.Error() }
func (e *ItemError) Unwrap() error { return e.Err }

func (e *ItemError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "item(index=%d,partition=%d,value=%v): %+v", e.Index, e.Partition, e.Value, e.Err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractItemIndex returns the input index of the item that produced err.
func ExtractItemIndex(err error) (int, bool) {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie.Index, true
	}
	return 0, false
}

// ExtractPartition returns the partition of the item that produced err.
func ExtractPartition(err error) (int, bool) {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie.Partition, true
	}
	return 0, false
}

// ExtractItemValue returns the value of the item that produced err.
func ExtractItemValue(err error) (any, bool) {
	var ie *ItemError
	if errors.As(err, &ie) {
		return ie.Value, true
	}
	return nil, false
}
