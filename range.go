package parfor

import (
	"fmt"

	"github.com/ygrebnov/errorc"
	"golang.org/x/exp/constraints"
)

// Number is the set of element types a range loop can iterate over.
type Number interface {
	constraints.Integer | constraints.Float
}

// Relation is the condition that keeps a range loop going.
type Relation int

const (
	LessThan Relation = iota
	LessOrEqual
	GreaterThan
	GreaterOrEqual
	NotEqual
)

func (r Relation) String() string {
	switch r {
	case LessThan:
		return "<"
	case LessOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterOrEqual:
		return ">="
	case NotEqual:
		return "!="
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

// Combine is the operator that advances the loop value by Step.
type Combine int

const (
	Add Combine = iota
	Subtract
	Multiply
)

func (c Combine) String() string {
	switch c {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	default:
		return fmt.Sprintf("Combine(%d)", int(c))
	}
}

// Range describes the progression
//
//	for v := From; v <Relation> To; v = v <Combine> Step
//
// The zero values select LessThan, Add and a step of 1.
type Range[T Number] struct {
	From     T
	To       T
	Relation Relation
	Combine  Combine
	Step     T
}

// Upto returns the range [from, to) with step 1.
func Upto[T Number](from, to T) Range[T] {
	return Range[T]{From: from, To: to}
}

func (r Range[T]) String() string {
	return fmt.Sprintf("for v := %v; v %s %v; v = v %s %v", r.From, r.Relation, r.To, r.Combine, r.Step)
}

// normalize fills defaults and rejects progressions that can never reach the bound.
func (r Range[T]) normalize() (Range[T], error) {
	if r.Step == 0 {
		r.Step = 1
	}
	if r.Relation < LessThan || r.Relation > NotEqual {
		return r, errorc.With(ErrInvalidRange, errorc.String("relation", r.Relation.String()))
	}
	if r.Combine < Add || r.Combine > Multiply {
		return r, errorc.With(ErrInvalidRange, errorc.String("combine", r.Combine.String()))
	}

	// A range that is empty from the start is a legal no-op whatever its step.
	if !r.holds(r.From) {
		return r, nil
	}

	var up, down bool
	switch r.Combine {
	case Add:
		up, down = r.Step > 0, r.Step < 0
	case Subtract:
		up, down = r.Step < 0, r.Step > 0
	case Multiply:
		// Multiplying by -1 only flips the sign and never reaches the bound.
		if r.Step*r.Step != 1 {
			next := r.From * r.Step
			up, down = next > r.From, next < r.From
		}
	}

	var ok bool
	switch r.Relation {
	case LessThan, LessOrEqual:
		ok = up
	case GreaterThan, GreaterOrEqual:
		ok = down
	case NotEqual:
		ok = up || down
	}
	if !ok {
		return r, errorc.With(ErrInvalidRange, errorc.String("range", r.String()))
	}
	return r, nil
}

func (r Range[T]) apply(v T) T {
	switch r.Combine {
	case Subtract:
		return v - r.Step
	case Multiply:
		return v * r.Step
	default:
		return v + r.Step
	}
}

// holds reports whether v still satisfies the loop condition.
func (r Range[T]) holds(v T) bool {
	switch r.Relation {
	case LessOrEqual:
		return v <= r.To
	case GreaterThan:
		return v > r.To
	case GreaterOrEqual:
		return v >= r.To
	case NotEqual:
		return v != r.To
	default:
		return v < r.To
	}
}

// advance returns the value after v. ok is false when integer arithmetic wrapped
// around, which ends the loop instead of restarting it from the other extreme.
// Wrap-around is judged by the direction of the step, whatever the relation.
func (r Range[T]) advance(v T) (next T, ok bool) {
	next = r.apply(v)
	switch r.Combine {
	case Subtract:
		return next, (r.Step > 0 && next < v) || (r.Step < 0 && next > v)
	case Multiply:
		// A negative factor flips the sign every step, so an overflowed product
		// is caught by dividing it back.
		if next == v {
			return next, false
		}
		return next, isFloat[T]() || next/r.Step == v
	default:
		return next, (r.Step > 0 && next > v) || (r.Step < 0 && next < v)
	}
}

// isFloat reports whether T is a floating-point type. Floats overflow to an
// infinity instead of wrapping.
func isFloat[T Number]() bool {
	var one T = 1
	return one/2 != 0
}
