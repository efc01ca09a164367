package calc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput is returned for negative inputs and unknown calculation kinds.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOverflow is returned when a result does not fit in an int64.
	ErrOverflow = errors.New("overflow")
)

// Largest inputs whose results still fit in an int64.
const (
	MaxFactorialInput = 20
	MaxSquareInput    = 3037000499
	MaxCubeInput      = 2097151
)

// Kind identifies one of the supported calculations.
type Kind int

const (
	Factorial Kind = iota
	Square
	Cube
)

// Kinds lists every calculation in display order.
var Kinds = []Kind{Factorial, Square, Cube}

// String returns the lowercase kind name used in history and JSON.
func (k Kind) String() string {
	switch k {
	case Factorial:
		return "factorial"
	case Square:
		return "square"
	case Cube:
		return "cube"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= Factorial && k <= Cube
}

// MarshalText encodes k by name, rejecting undefined kinds.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: calculation kind %d", ErrInvalidInput, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText accepts any name ParseKind does.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind maps a case-insensitive name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "factorial":
		return Factorial, nil
	case "square":
		return Square, nil
	case "cube":
		return Cube, nil
	}
	return 0, fmt.Errorf("%w: unknown calculation %q", ErrInvalidInput, s)
}

// Result is the outcome of a single calculation.
type Result struct {
	Kind  Kind
	Input int
	Value int64
}

func (r Result) String() string {
	return fmt.Sprintf("%s(%d) = %d", r.Kind, r.Input, r.Value)
}

// Compute runs the calculation selected by kind.
func Compute(kind Kind, n int) (Result, error) {
	var (
		v   int64
		err error
	)
	switch kind {
	case Factorial:
		v, err = FactorialOf(n)
	case Square:
		v, err = SquareOf(n)
	case Cube:
		v, err = CubeOf(n)
	default:
		return Result{}, fmt.Errorf("%w: calculation kind %d", ErrInvalidInput, int(kind))
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: kind, Input: n, Value: v}, nil
}

// FactorialOf returns n! for 0 <= n <= 20.
func FactorialOf(n int) (int64, error) {
	if n < 0 {
		return 0, negative(n)
	}
	if n > MaxFactorialInput {
		return 0, fmt.Errorf("%w: %d! exceeds int64", ErrOverflow, n)
	}
	result := int64(1)
	for i := 2; i <= n; i++ {
		result *= int64(i)
	}
	return result, nil
}

// SquareOf returns n*n.
func SquareOf(n int) (int64, error) {
	if n < 0 {
		return 0, negative(n)
	}
	if int64(n) > MaxSquareInput {
		return 0, fmt.Errorf("%w: %d squared exceeds int64", ErrOverflow, n)
	}
	v := int64(n)
	return v * v, nil
}

// CubeOf returns n*n*n.
func CubeOf(n int) (int64, error) {
	if n < 0 {
		return 0, negative(n)
	}
	if int64(n) > MaxCubeInput {
		return 0, fmt.Errorf("%w: %d cubed exceeds int64", ErrOverflow, n)
	}
	v := int64(n)
	return v * v * v, nil
}

func negative(n int) error {
	return fmt.Errorf("%w: %d is negative", ErrInvalidInput, n)
}
