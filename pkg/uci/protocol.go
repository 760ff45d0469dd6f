package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/ChizhovVadim/perftdebug/internal/board"
)

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type Engine interface {
	Divide(ctx context.Context, pos *chess.Position, depth int) ([]board.DivideEntry, error)
}

type Protocol struct {
	name     string
	author   string
	version  string
	engine   Engine
	position *chess.Position
	out      io.Writer
	logger   *zap.SugaredLogger
}

func New(name, author, version string, engine Engine, out io.Writer, logger *zap.SugaredLogger) *Protocol {
	var initPosition, err = board.ParseFen(InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:     name,
		author:   author,
		version:  version,
		engine:   engine,
		position: initPosition,
		out:      out,
		logger:   logger,
	}
}

// Run handles commands from in until quit, end of input or ctx is done.
// Errors of single commands are logged and do not stop the loop.
func (uci *Protocol) Run(ctx context.Context, in io.Reader) error {
	var scanner = bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var commandLine = strings.TrimSpace(scanner.Text())
		if commandLine == "quit" {
			return nil
		}
		if commandLine == "" {
			continue
		}
		var err = uci.handle(ctx, commandLine)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			uci.logger.Warnw("command failed", "command", commandLine, "error", err)
		}
	}
	return scanner.Err()
}

func (uci *Protocol) handle(ctx context.Context, commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	var h func(ctx context.Context, fields []string) error

	switch commandName {
	case "uci":
		h = uci.uciCommand
	case "isready":
		h = uci.isReadyCommand
	case "position":
		h = uci.positionCommand
	case "go":
		h = uci.goCommand
	case "ucinewgame":
		h = uci.uciNewGameCommand
	}

	if h == nil {
		return errors.New("command not found")
	}

	return h(ctx, fields)
}

func (uci *Protocol) uciCommand(ctx context.Context, fields []string) error {
	fmt.Fprintf(uci.out, "id name %s %s\n", uci.name, uci.version)
	fmt.Fprintf(uci.out, "id author %s\n", uci.author)
	fmt.Fprintln(uci.out, "uciok")
	return nil
}

func (uci *Protocol) isReadyCommand(ctx context.Context, fields []string) error {
	fmt.Fprintln(uci.out, "readyok")
	return nil
}

func (uci *Protocol) uciNewGameCommand(ctx context.Context, fields []string) error {
	var p, err = board.ParseFen(InitialPositionFen)
	if err != nil {
		return err
	}
	uci.position = p
	return nil
}

func (uci *Protocol) positionCommand(ctx context.Context, fields []string) error {
	var args = fields
	if len(args) == 0 {
		return errors.New("unknown position command")
	}
	var token = args[0]
	var fen string
	var movesIndex = findIndexString(args, "moves")
	if token == "startpos" {
		fen = InitialPositionFen
	} else if token == "fen" {
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	} else {
		return errors.New("unknown position command")
	}
	var moves []string
	if movesIndex >= 0 && movesIndex+1 < len(args) {
		moves = args[movesIndex+1:]
	}
	var p, err = board.Play(fen, moves)
	if err != nil {
		return err
	}
	uci.position = p
	return nil
}

func (uci *Protocol) goCommand(ctx context.Context, fields []string) error {
	if len(fields) != 2 || fields[0] != "perft" {
		return errors.New("only go perft <depth> is supported")
	}
	var depth, err = strconv.Atoi(fields[1])
	if err != nil || depth < 1 {
		return fmt.Errorf("invalid perft depth %q", fields[1])
	}
	entries, err := uci.engine.Divide(ctx, uci.position, depth)
	if err != nil {
		return err
	}
	var w = bufio.NewWriter(uci.out)
	var total uint64
	for _, entry := range entries {
		fmt.Fprintf(w, "%v: %v\n", entry.Move, entry.Nodes)
		total += entry.Nodes
	}
	fmt.Fprintf(w, "\nNodes searched: %v\n\n", total)
	return w.Flush()
}

func findIndexString(slice []string, value string) int {
	for p, v := range slice {
		if v == value {
			return p
		}
	}
	return -1
}
