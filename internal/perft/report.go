package perft

import (
	"encoding/json"
	"fmt"
	"io"
)

type Outcome int

const (
	OutcomeAgreement Outcome = iota
	OutcomeDivergence
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAgreement:
		return "agreement"
	case OutcomeDivergence:
		return "divergence"
	case OutcomeExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

type Report struct {
	RunID    string
	Outcome  Outcome
	Root     string
	MaxDepth int
	// Depth is the remaining depth of the terminal step.
	Depth   int
	Verdict Verdict
	Path    Position
	Steps   []Step
}

func (r Report) Write(w io.Writer) error {
	var err error
	switch r.Outcome {
	case OutcomeAgreement:
		_, err = fmt.Fprintf(w, "%v %v depth %v\n", r.Verdict, r.Path, r.Depth)
	case OutcomeDivergence:
		_, err = fmt.Fprintf(w, "%v\nVariation: %v\n", r.Verdict, r.Path)
	default:
		_, err = fmt.Fprintf(w, "Debug failed to find variation\nVariation: %v\n", r.Path)
	}
	return err
}

type stepJSON struct {
	Depth          int             `json:"depth"`
	Position       string          `json:"position"`
	Verdict        json.RawMessage `json:"verdict"`
	TestedNodes    uint64          `json:"engine_nodes"`
	ReferenceNodes uint64          `json:"reference_nodes"`
	ElapsedMs      int64           `json:"elapsed_ms"`
}

type reportJSON struct {
	RunID     string          `json:"run_id,omitempty"`
	Outcome   string          `json:"outcome"`
	Root      string          `json:"root"`
	MaxDepth  int             `json:"max_depth"`
	Depth     int             `json:"depth,omitempty"`
	Verdict   json.RawMessage `json:"verdict"`
	Moves     []string        `json:"moves"`
	Variation string          `json:"variation"`
	Steps     []stepJSON      `json:"steps"`
}

func (r Report) MarshalJSON() ([]byte, error) {
	var verdict, err = marshalVerdict(r.Verdict)
	if err != nil {
		return nil, err
	}
	var result = reportJSON{
		RunID:     r.RunID,
		Outcome:   r.Outcome.String(),
		Root:      r.Root,
		MaxDepth:  r.MaxDepth,
		Depth:     r.Depth,
		Verdict:   verdict,
		Moves:     r.Path.Moves,
		Variation: r.Path.String(),
		Steps:     make([]stepJSON, 0, len(r.Steps)),
	}
	if result.Moves == nil {
		result.Moves = []string{}
	}
	for _, step := range r.Steps {
		stepVerdict, err := marshalVerdict(step.Verdict)
		if err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, stepJSON{
			Depth:          step.Depth,
			Position:       step.Position.String(),
			Verdict:        stepVerdict,
			TestedNodes:    step.TestedNodes,
			ReferenceNodes: step.ReferenceNodes,
			ElapsedMs:      step.Elapsed.Milliseconds(),
		})
	}
	return json.Marshal(result)
}
