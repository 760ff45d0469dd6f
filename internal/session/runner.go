package session

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ChizhovVadim/perftdebug/internal/perft"
)

const stderrLimit = 4096

// Runner holds one short conversation with an engine process per call.
type Runner struct {
	// Timeout bounds a whole conversation. Zero means no limit.
	Timeout time.Duration
	Logger  *zap.SugaredLogger
}

func New(timeout time.Duration, logger *zap.SugaredLogger) *Runner {
	return &Runner{
		Timeout: timeout,
		Logger:  logger,
	}
}

func (r *Runner) Run(ctx context.Context, executablePath string, pos perft.Position, depth int) (perft.MoveCountMap, error) {
	var parent = ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	var start = time.Now()
	var fail = func(kind error, line string, stderr string, err error) error {
		return &Error{
			Kind:     kind,
			Path:     executablePath,
			Position: pos,
			Depth:    depth,
			Line:     line,
			Stderr:   stderr,
			Err:      err,
		}
	}

	var cmd = exec.CommandContext(ctx, executablePath)
	cmd.WaitDelay = time.Second
	var stdout bytes.Buffer
	var stderr = &tailBuffer{limit: stderrLimit}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fail(ErrProcessLaunch, "", "", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fail(ErrProcessLaunch, "", "", err)
	}

	var writeErr = sendCommands(stdin, pos, depth)
	var waitErr = cmd.Wait()

	if parent.Err() != nil {
		return nil, fmt.Errorf("engine %q: %w", executablePath, parent.Err())
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fail(ErrProcessCommunication, "", stderr.String(),
			fmt.Errorf("no response within %v: %w", r.Timeout, context.DeadlineExceeded))
	}
	if writeErr != nil {
		return nil, fail(ErrProcessCommunication, "", stderr.String(), writeErr)
	}
	if waitErr != nil {
		return nil, fail(ErrProcessCommunication, "", stderr.String(), waitErr)
	}
	if stdout.Len() == 0 {
		return nil, fail(ErrProcessCommunication, "", stderr.String(),
			fmt.Errorf("no output: %w", io.ErrUnexpectedEOF))
	}

	counts, err := ParseDivide(&stdout)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return nil, fail(ErrProtocolParse, parseErr.Line, "", errors.New(parseErr.Reason))
		}
		return nil, fail(ErrProcessCommunication, "", stderr.String(), err)
	}

	r.logger().Debugw("perft finished",
		"engine", executablePath,
		"position", pos.String(),
		"depth", depth,
		"moves", len(counts),
		"nodes", counts.Total(),
		"elapsed", time.Since(start))
	return counts, nil
}

func (r *Runner) logger() *zap.SugaredLogger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop().Sugar()
}

// sendCommands writes the whole request and closes stdin.
func sendCommands(stdin io.WriteCloser, pos perft.Position, depth int) error {
	var w = bufio.NewWriter(stdin)
	for _, command := range Commands(pos, depth) {
		if _, err := w.WriteString(command + "\n"); err != nil {
			stdin.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		stdin.Close()
		return err
	}
	return stdin.Close()
}

// Commands returns the protocol lines sent for one perft request.
func Commands(pos perft.Position, depth int) []string {
	return []string{
		PositionCommand(pos),
		fmt.Sprintf("go perft %v", depth),
		"quit",
	}
}

func PositionCommand(pos perft.Position) string {
	var sb = &strings.Builder{}
	sb.WriteString("position fen ")
	sb.WriteString(pos.Root)
	if len(pos.Moves) != 0 {
		sb.WriteString(" moves ")
		sb.WriteString(strings.Join(pos.Moves, " "))
	}
	return sb.String()
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if len(b.buf) > b.limit {
		b.buf = b.buf[len(b.buf)-b.limit:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return strings.TrimSpace(string(b.buf))
}
