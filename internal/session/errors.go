package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ChizhovVadim/perftdebug/internal/perft"
)

var (
	ErrProcessLaunch        = errors.New("process launch failed")
	ErrProcessCommunication = errors.New("process communication failed")
	ErrProtocolParse        = errors.New("protocol parse failed")
)

// Error describes a failed engine conversation. errors.Is matches both the
// kind sentinel and the underlying cause.
type Error struct {
	Kind     error
	Path     string
	Position perft.Position
	Depth    int
	// Line is the offending output line for protocol errors.
	Line   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "%v: engine %q position %q depth %v", e.Kind, e.Path, e.Position.String(), e.Depth)
	if e.Line != "" {
		fmt.Fprintf(sb, " line %q", e.Line)
	}
	if e.Err != nil {
		fmt.Fprintf(sb, ": %v", e.Err)
	}
	if e.Stderr != "" {
		fmt.Fprintf(sb, " (stderr: %v)", e.Stderr)
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ParseError is returned by ParseDivide for a malformed record.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %v: %q", ErrProtocolParse, e.Reason, e.Line)
}

func (e *ParseError) Unwrap() error {
	return ErrProtocolParse
}
