package board

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

//https://www.chessprogramming.org/Perft_Results
func TestPerft(t *testing.T) {
	var tests = []struct {
		fen   string
		depth int
		nodes uint64
	}{
		{
			fen:   initialPositionFen,
			depth: 3,
			nodes: 8902,
		},
		{
			fen:   "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
			depth: 2,
			nodes: 2039,
		},
		{
			fen:   "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
			depth: 3,
			nodes: 2812,
		},
		{
			fen:   "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
			depth: 2,
			nodes: 264,
		},
		{
			fen:   "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
			depth: 2,
			nodes: 1486,
		},
	}
	for i, test := range tests {
		var p, err = ParseFen(test.fen)
		require.NoError(t, err, test.fen)
		var nodes = Perft(p, test.depth)
		if nodes != test.nodes {
			t.Error(i, test, nodes)
		}
	}
}

func TestDivide(t *testing.T) {
	var p, err = ParseFen(initialPositionFen)
	require.NoError(t, err)
	entries, err := Divide(context.Background(), p, 2)
	require.NoError(t, err)
	require.Len(t, entries, 20)
	var total uint64
	for i, entry := range entries {
		assert.Equal(t, uint64(20), entry.Nodes, entry.Move)
		if i > 0 {
			assert.Less(t, entries[i-1].Move, entry.Move)
		}
		total += entry.Nodes
	}
	assert.Equal(t, uint64(400), total)

	_, err = Divide(context.Background(), p, 0)
	assert.Error(t, err)

	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	_, err = Divide(ctx, p, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDivideTerminalPosition(t *testing.T) {
	// fool's mate
	var p, err = Play(initialPositionFen, []string{"f2f3", "e7e5", "g2g4", "d8h4"})
	require.NoError(t, err)
	entries, err := Divide(context.Background(), p, 3)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPlay(t *testing.T) {
	var p, err = Play("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		[]string{"e1g1", "e8c8"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.String(),
		"2kr3r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R4RK1 w - -"), p.String())

	_, err = Play(initialPositionFen, []string{"e2e5"})
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = Play("not a fen", nil)
	assert.ErrorIs(t, err, ErrInvalidFen)
}

func TestNormalizeFen(t *testing.T) {
	assert.Equal(t, "8/8/8/8/8/8/8/K1k5 w - - 0 1", NormalizeFen("8/8/8/8/8/8/8/K1k5 w - -"))
	assert.Equal(t, "8/8/8/8/8/8/8/K1k5 w - - 3 1", NormalizeFen("8/8/8/8/8/8/8/K1k5 w - - 3"))
	assert.Equal(t, initialPositionFen, NormalizeFen("  "+initialPositionFen+" "))
	assert.NoError(t, Validate(initialPositionFen))
	assert.ErrorIs(t, Validate("rnbqkbnr/pppppppp w"), ErrInvalidFen)
}
