package perft

import (
	"sort"
	"strings"
	"time"
)

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is a root description plus the moves played from it.
// Values are never mutated after construction.
type Position struct {
	Root  string
	Moves []string
}

func NewPosition(root string) Position {
	return Position{Root: root}
}

func (p Position) Append(move string) Position {
	var moves = make([]string, len(p.Moves), len(p.Moves)+1)
	copy(moves, p.Moves)
	moves = append(moves, move)
	return Position{Root: p.Root, Moves: moves}
}

func (p Position) String() string {
	if len(p.Moves) == 0 {
		return p.Root
	}
	return p.Root + " " + strings.Join(p.Moves, " ")
}

// MoveCountMap maps a move token to the leaf count below it.
type MoveCountMap map[string]uint64

func (m MoveCountMap) Moves() []string {
	var result = make([]string, 0, len(m))
	for move := range m {
		result = append(result, move)
	}
	sort.Strings(result)
	return result
}

func (m MoveCountMap) Total() uint64 {
	var total uint64
	for _, n := range m {
		total += n
	}
	return total
}

type Step struct {
	Depth          int
	Position       Position
	Verdict        Verdict
	TestedNodes    uint64
	ReferenceNodes uint64
	Elapsed        time.Duration
}
