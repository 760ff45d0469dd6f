package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ChizhovVadim/perftdebug/internal/board"
	"github.com/ChizhovVadim/perftdebug/internal/perft"
	"github.com/ChizhovVadim/perftdebug/pkg/uci"
)

// The test binary serves as an engine when helperEnv is set. The role is
// taken from the name it was started under.
const helperEnv = "PERFTDEBUG_HELPER_ENGINE"

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "" {
		os.Exit(m.Run())
	}
	var engine uci.Engine = board.Engine{}
	if filepath.Base(os.Args[0]) == "buggy" {
		engine = noShortCastleEngine{}
	}
	var protocol = uci.New("helper", "tester", "dev", engine, os.Stdout, zap.NewNop().Sugar())
	if err := protocol.Run(context.Background(), os.Stdin); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}

// noShortCastleEngine never generates black king side castling.
type noShortCastleEngine struct{}

func (noShortCastleEngine) Divide(ctx context.Context, pos *chess.Position, depth int) ([]board.DivideEntry, error) {
	var result []board.DivideEntry
	for _, move := range legalMoves(pos) {
		result = append(result, board.DivideEntry{
			Move:  chess.UCINotation{}.Encode(pos, move),
			Nodes: buggyPerft(pos.Update(move), depth-1),
		})
	}
	return result, nil
}

func buggyPerft(pos *chess.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var result uint64
	for _, move := range legalMoves(pos) {
		result += buggyPerft(pos.Update(move), depth-1)
	}
	return result
}

func legalMoves(pos *chess.Position) []*chess.Move {
	var notation = chess.UCINotation{}
	var result []*chess.Move
	for _, move := range pos.ValidMoves() {
		if notation.Encode(pos, move) == "e8g8" && pos.Turn() == chess.Black {
			continue
		}
		result = append(result, move)
	}
	return result
}

func helperEngines(t *testing.T) (reference, buggy string) {
	t.Helper()
	t.Setenv(helperEnv, "1")
	var exe, err = os.Executable()
	require.NoError(t, err)
	var dir = t.TempDir()
	reference = filepath.Join(dir, "reference")
	buggy = filepath.Join(dir, "buggy")
	require.NoError(t, os.Symlink(exe, reference))
	require.NoError(t, os.Symlink(exe, buggy))
	return reference, buggy
}

func runCli(args ...string) (int, string) {
	var stdout bytes.Buffer
	var code = run(append(args, "--log-level", "error"), &stdout, io.Discard)
	return code, stdout.String()
}

func TestAgreement(t *testing.T) {
	var reference, _ = helperEngines(t)
	var code, out = runCli("--ref", reference, "--eng", reference, "--depth", "2")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "OK "+perft.InitialPositionFen+" depth 2\n", out)
}

func TestFindsMissingCastle(t *testing.T) {
	var reference, buggy = helperEngines(t)
	for _, concurrent := range []string{"--concurrent=true", "--concurrent=false"} {
		var code, out = runCli("--ref", reference, "--eng", buggy, "--depth", "2", "--fen", kiwipete, concurrent)
		require.Equal(t, exitOK, code)
		var lines = strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2, out)
		assert.Equal(t, "MISSING_MOVE: {e8g8}", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "Variation: "+kiwipete+" "), lines[1])
		assert.Len(t, strings.Fields(strings.TrimPrefix(lines[1], "Variation: "+kiwipete)), 1)
	}
}

func TestJsonReport(t *testing.T) {
	var reference, buggy = helperEngines(t)
	var code, out = runCli("--ref", reference, "--eng", buggy, "--depth", "2", "--json", kiwipete)
	require.Equal(t, exitOK, code)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "divergence", report["outcome"])
	assert.NotEmpty(t, report["run_id"])
	assert.Len(t, report["moves"], 1)
	assert.Len(t, report["steps"], 2)
}

func TestMissingEngine(t *testing.T) {
	var reference, _ = helperEngines(t)
	var code, out = runCli("--ref", reference, "--eng", filepath.Join(t.TempDir(), "missing"), "--depth", "1")
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, out)
}

func TestUsageErrors(t *testing.T) {
	var code, _ = runCli("--depth", "0")
	assert.Equal(t, exitUsage, code)

	code, _ = runCli("--fen", "not a position")
	assert.Equal(t, exitUsage, code)

	code, _ = runCli("--help")
	assert.Equal(t, exitOK, code)
}
