/*
Package random
File: sequence.go
Description:
    A scripted Source for deterministic tests and replays.
*/

package random

// Sequence is a scripted Source that returns Values in order.
//
// A value outside [0, n) is clamped into range. Once the script is used
// up, every draw returns n-1: the "quiet" end of every table in the game
// (no special event, no raid, failed percentage rolls).
type Sequence struct {
	Values []int
	pos    int
}

// NewSequence returns a Sequence over values.
func NewSequence(values ...int) *Sequence {
	return &Sequence{Values: values}
}

func (s *Sequence) Intn(n int) int {
	if s.pos >= len(s.Values) {
		return n - 1
	}
	v := s.Values[s.pos]
	s.pos++
	switch {
	case v < 0:
		return 0
	case v >= n:
		return n - 1
	}
	return v
}

// Used reports how many scripted values have been consumed.
func (s *Sequence) Used() int {
	return s.pos
}

// Push appends values to the script.
func (s *Sequence) Push(values ...int) {
	s.Values = append(s.Values, values...)
}
