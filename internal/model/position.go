package model

import (
	"errors"
	"fmt"
)

// Position is a square on the board. Rank 0 is white's home rank and
// File 0 is the a-file, so a1 is {0, 0} and h8 is {7, 7}.
// Positions encode to JSON as square names.
type Position struct {
	Rank int
	File int
}

type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func boundaryCheck(position Position) bool {
	return position.Rank >= 0 && position.Rank < 8 && position.File >= 0 && position.File < 8
}

func (p Position) InBounds() bool {
	return boundaryCheck(p)
}

func (p Position) offset(dir Position) Position {
	return Position{Rank: p.Rank + dir.Rank, File: p.File + dir.File}
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.File+'a')
}

// String returns the square in coordinate notation, e.g. "e4".
func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Rank, p.File)
	}
	return fmt.Sprintf("%c%d", p.File+'a', p.Rank+1)
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

var errBadSquare = errors.New("bad square")

// ParseSquare parses coordinate notation ("a1".."h8").
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", errBadSquare, s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	p := Position{Rank: rank, File: file}
	if !p.InBounds() {
		return Position{}, fmt.Errorf("%w: %q", errBadSquare, s)
	}
	return p, nil
}

// MarshalText encodes a position as its square name so positions can be
// used as JSON map keys and query values.
func (p Position) MarshalText() ([]byte, error) {
	if !p.InBounds() {
		return nil, fmt.Errorf("%w: %d,%d", errBadSquare, p.Rank, p.File)
	}
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
