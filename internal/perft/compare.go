package perft

// Compare checks the move sets first and the counts second. When several
// moves have different counts the first one in sorted order is reported.
func Compare(tested, reference MoveCountMap) Verdict {
	var excess = difference(tested, reference)
	var missing = difference(reference, tested)
	if len(excess) != 0 || len(missing) != 0 {
		if len(tested) > len(reference) {
			return ExcessMoves{Moves: excess}
		}
		if len(reference) > len(tested) {
			return MissingMoves{Moves: missing}
		}
		return DisagreeMoves{Moves: union(excess, missing)}
	}
	for _, move := range tested.Moves() {
		if tested[move] != reference[move] {
			return CountMismatch{
				Move:      move,
				Tested:    tested[move],
				Reference: reference[move],
			}
		}
	}
	return Agree{}
}

// difference returns the sorted keys of a that are absent from b.
func difference(a, b MoveCountMap) []string {
	var result []string
	for _, move := range a.Moves() {
		if _, found := b[move]; !found {
			result = append(result, move)
		}
	}
	return result
}

func union(a, b []string) []string {
	var set = make(MoveCountMap, len(a)+len(b))
	for _, move := range a {
		set[move] = 0
	}
	for _, move := range b {
		set[move] = 0
	}
	return set.Moves()
}
