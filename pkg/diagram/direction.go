package diagram

import (
	"strings"

	"github.com/matzehuels/archdraw/pkg/errors"
)

// Direction is the side of a node an edge attaches to.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// ParseDirection accepts the single-letter form (T, B, L, R) or the
// spelled-out form (up, down, left, right), case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "up", "top":
		return Up, nil
	case "b", "down", "bottom":
		return Down, nil
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid direction %q (want T, B, L or R)", s)
}

// Letter returns the single-letter form.
func (d Direction) Letter() string {
	switch d {
	case Up:
		return "T"
	case Down:
		return "B"
	case Left:
		return "L"
	case Right:
		return "R"
	}
	return "?"
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "invalid"
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool { return d <= Right }

// Vertical reports whether d is Up or Down.
func (d Direction) Vertical() bool { return d == Up || d == Down }

// Opposite returns the facing direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	}
	return Left
}

// MarshalText encodes d in its single-letter form.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid direction %d", uint8(d))
	}
	return []byte(d.Letter()), nil
}

// UnmarshalText accepts any form ParseDirection does.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
