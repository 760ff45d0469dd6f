package session

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ChizhovVadim/perftdebug/internal/perft"
)

// recordPattern matches "e2e4: 20" and "e7e8q: 3". The count is validated
// separately so that a malformed count is reported instead of skipped.
var recordPattern = regexp.MustCompile(`^([a-h][1-8][a-h][1-8][nbrqNBRQ]?)\s*:(.*)$`)

// ParseDivide collects the move records of perft divide output. Lines that do
// not start with a move token and a colon are ignored.
func ParseDivide(r io.Reader) (perft.MoveCountMap, error) {
	var result = make(perft.MoveCountMap)
	var scanner = bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var line = strings.TrimRight(scanner.Text(), "\r")
		var match = recordPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		var move = match[1]
		var nodes, err = strconv.ParseUint(strings.TrimSpace(match[2]), 10, 64)
		if err != nil {
			return nil, &ParseError{Line: line, Reason: "invalid node count"}
		}
		if _, found := result[move]; found {
			return nil, &ParseError{Line: line, Reason: "duplicate move"}
		}
		result[move] = nodes
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
