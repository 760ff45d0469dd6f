package perft

import (
	"encoding/json"
	"fmt"
	"strings"
)

type VerdictKind int

const (
	KindAgree VerdictKind = iota
	KindMissingMoves
	KindExcessMoves
	KindDisagreeMoves
	KindCountMismatch
)

func (k VerdictKind) String() string {
	switch k {
	case KindAgree:
		return "OK"
	case KindMissingMoves:
		return "MISSING_MOVE"
	case KindExcessMoves:
		return "EXCESS_MOVE"
	case KindDisagreeMoves:
		return "DISAGREE_MOVE"
	case KindCountMismatch:
		return "COUNT_MISMATCH"
	}
	return fmt.Sprintf("VerdictKind(%d)", int(k))
}

// Verdict is the result of comparing the divide output of both engines for
// one position. The concrete types are Agree, MissingMoves, ExcessMoves,
// DisagreeMoves and CountMismatch.
type Verdict interface {
	Kind() VerdictKind
	String() string
	verdict()
}

type Agree struct{}

// MissingMoves lists moves reported by the reference engine only.
type MissingMoves struct {
	Moves []string
}

// ExcessMoves lists moves reported by the tested engine only.
type ExcessMoves struct {
	Moves []string
}

// DisagreeMoves is the symmetric difference of two move sets of equal size.
type DisagreeMoves struct {
	Moves []string
}

type CountMismatch struct {
	Move      string
	Tested    uint64
	Reference uint64
}

func (Agree) Kind() VerdictKind         { return KindAgree }
func (MissingMoves) Kind() VerdictKind  { return KindMissingMoves }
func (ExcessMoves) Kind() VerdictKind   { return KindExcessMoves }
func (DisagreeMoves) Kind() VerdictKind { return KindDisagreeMoves }
func (CountMismatch) Kind() VerdictKind { return KindCountMismatch }

func (Agree) verdict()         {}
func (MissingMoves) verdict()  {}
func (ExcessMoves) verdict()   {}
func (DisagreeMoves) verdict() {}
func (CountMismatch) verdict() {}

func (Agree) String() string { return KindAgree.String() }

func (v MissingMoves) String() string {
	return KindMissingMoves.String() + ": " + formatMoveSet(v.Moves)
}

func (v ExcessMoves) String() string {
	return KindExcessMoves.String() + ": " + formatMoveSet(v.Moves)
}

func (v DisagreeMoves) String() string {
	return KindDisagreeMoves.String() + ": " + formatMoveSet(v.Moves)
}

func (v CountMismatch) String() string {
	return fmt.Sprintf("%v: %v (engine %v, reference %v)",
		KindCountMismatch, v.Move, v.Tested, v.Reference)
}

// IsMoveSetDivergence reports whether v ends the bisection with a divergence.
func IsMoveSetDivergence(v Verdict) bool {
	switch v.(type) {
	case MissingMoves, ExcessMoves, DisagreeMoves:
		return true
	}
	return false
}

func formatMoveSet(moves []string) string {
	return "{" + strings.Join(moves, ", ") + "}"
}

type verdictJSON struct {
	Kind      string   `json:"kind"`
	Moves     []string `json:"moves,omitempty"`
	Move      string   `json:"move,omitempty"`
	Tested    uint64   `json:"tested,omitempty"`
	Reference uint64   `json:"reference,omitempty"`
}

func marshalVerdict(v Verdict) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	var r = verdictJSON{Kind: v.Kind().String()}
	switch v := v.(type) {
	case MissingMoves:
		r.Moves = v.Moves
	case ExcessMoves:
		r.Moves = v.Moves
	case DisagreeMoves:
		r.Moves = v.Moves
	case CountMismatch:
		r.Move = v.Move
		r.Tested = v.Tested
		r.Reference = v.Reference
	}
	return json.Marshal(r)
}
