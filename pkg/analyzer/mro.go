package analyzer

import (
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/util/source"
)

// Linearize computes the C3 method-resolution order for a template named
// self with the given direct base templates, each already linearized
// (spec.md §3 "a computed MRO (C3 linearization of base templates)",
// §4.5 step 1, §8 invariant 2: "the MRO is a C3 linearization whose first
// element is the template itself; if C3 fails, no partial template is
// registered").
//
// No precedent for C3 exists in the source corpus; this follows the
// standard algorithm (Barrett et al., "A Monotonic Superclass
// Linearization for Dylan") using the teacher's plain slice-manipulation
// style rather than a library, since C3 is a self-contained ~30-line
// algorithm with no natural third-party home.
func Linearize(span source.Span, file *source.File, self string, baseMROs [][]string, bases []string) ([]string, *diag.Error) {
	sequences := make([][]string, 0, len(baseMROs)+1)
	sequences = append(sequences, baseMROs...)
	sequences = append(sequences, append([]string{}, bases...))

	merged := []string{self}

	for {
		sequences = dropEmpty(sequences)
		if len(sequences) == 0 {
			return merged, nil
		}

		head, ok := pickHead(sequences)
		if !ok {
			return nil, diag.New(file, span, diag.MRO,
				"cannot compute a consistent method resolution order for %q", self)
		}

		merged = append(merged, head)
		sequences = removeFromAll(sequences, head)
	}
}

// pickHead finds a candidate head: the head of some sequence which does not
// appear in the tail of any sequence.
func pickHead(sequences [][]string) (string, bool) {
	for _, seq := range sequences {
		candidate := seq[0]
		if !appearsInAnyTail(sequences, candidate) {
			return candidate, true
		}
	}

	return "", false
}

func appearsInAnyTail(sequences [][]string, name string) bool {
	for _, seq := range sequences {
		for _, n := range seq[1:] {
			if n == name {
				return true
			}
		}
	}

	return false
}

func removeFromAll(sequences [][]string, name string) [][]string {
	out := make([][]string, len(sequences))
	for i, seq := range sequences {
		filtered := make([]string, 0, len(seq))
		for _, n := range seq {
			if n != name {
				filtered = append(filtered, n)
			}
		}
		out[i] = filtered
	}

	return out
}

func dropEmpty(sequences [][]string) [][]string {
	out := sequences[:0]
	for _, seq := range sequences {
		if len(seq) > 0 {
			out = append(out, seq)
		}
	}

	return out
}
