package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/notnil/chess"
)

var (
	ErrInvalidFen  = errors.New("invalid fen")
	ErrIllegalMove = errors.New("illegal move")
)

// NormalizeFen completes a four-field FEN with halfmove and fullmove counters.
func NormalizeFen(fen string) string {
	var fields = strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 5:
		fields = append(fields, "1")
	}
	return strings.Join(fields, " ")
}

func ParseFen(fen string) (*chess.Position, error) {
	var opt, err = chess.FEN(NormalizeFen(fen))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFen, fen, err)
	}
	return chess.NewGame(opt).Position(), nil
}

func Validate(fen string) error {
	var _, err = ParseFen(fen)
	return err
}

// Play applies moves in long algebraic notation to the position given by fen.
func Play(fen string, moves []string) (*chess.Position, error) {
	var pos, err = ParseFen(fen)
	if err != nil {
		return nil, err
	}
	for _, lan := range moves {
		var move = findMove(pos, lan)
		if move == nil {
			return nil, fmt.Errorf("%w: %v in %v", ErrIllegalMove, lan, pos.String())
		}
		pos = pos.Update(move)
	}
	return pos, nil
}

func findMove(pos *chess.Position, lan string) *chess.Move {
	var notation = chess.UCINotation{}
	for _, move := range pos.ValidMoves() {
		if strings.EqualFold(notation.Encode(pos, move), lan) {
			return move
		}
	}
	return nil
}

type DivideEntry struct {
	Move  string
	Nodes uint64
}

// Divide counts the leaves below every legal move. Entries are sorted by move.
func Divide(ctx context.Context, pos *chess.Position, depth int) ([]DivideEntry, error) {
	if depth < 1 {
		return nil, fmt.Errorf("depth must be positive: %v", depth)
	}
	var notation = chess.UCINotation{}
	var result []DivideEntry
	for _, move := range pos.ValidMoves() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var nodes uint64 = 1
		if depth > 1 {
			nodes = Perft(pos.Update(move), depth-1)
		}
		result = append(result, DivideEntry{
			Move:  notation.Encode(pos, move),
			Nodes: nodes,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Move < result[j].Move
	})
	return result, nil
}

func Perft(pos *chess.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var moves = pos.ValidMoves()
	if depth <= 1 {
		return uint64(len(moves))
	}
	var result uint64
	for _, move := range moves {
		result += Perft(pos.Update(move), depth-1)
	}
	return result
}

// Engine serves perft requests from the notnil/chess move generator.
type Engine struct{}

func (Engine) Divide(ctx context.Context, pos *chess.Position, depth int) ([]DivideEntry, error) {
	return Divide(ctx, pos, depth)
}
