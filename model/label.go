package model

import (
	"fmt"
	"strings"
)

// Label is a vote cast by a labeling function and, at the same time, the
// class index of a label distribution.
type Label int8

const (
	// Abstain is the "no opinion" vote.
	Abstain Label = iota
	// Negative marks negative sentiment.
	Negative
	// Positive marks positive sentiment.
	Positive
)

// Cardinality is the number of classes in the label space.
const Cardinality = 3

// Labels returns all labels in class index order.
func Labels() []Label {
	return []Label{Abstain, Negative, Positive}
}

// Valid reports whether l is a member of the closed label set.
func (l Label) Valid() bool {
	return l >= Abstain && l < Label(Cardinality)
}

// IsVote reports whether l carries evidence (anything but Abstain).
func (l Label) IsVote() bool {
	return l != Abstain && l.Valid()
}

// Index returns the class index of l.
func (l Label) Index() int { return int(l) }

// String returns the canonical upper-case name.
func (l Label) String() string {
	switch l {
	case Abstain:
		return "ABSTAIN"
	case Negative:
		return "NEGATIVE"
	case Positive:
		return "POSITIVE"
	default:
		return fmt.Sprintf("Label(%d)", int8(l))
	}
}

// ParseLabel parses a label name (case-insensitive).
func ParseLabel(s string) (Label, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ABSTAIN":
		return Abstain, nil
	case "NEGATIVE":
		return Negative, nil
	case "POSITIVE":
		return Positive, nil
	default:
		return Abstain, fmt.Errorf("unknown label %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid label %d", int8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
