package sector

import (
	"fmt"
	"strings"
)

type Label uint8

const (
	A Label = iota
	B
	C
	Unclassified
	NumLabels = 4
)

func Labels() []Label {
	return []Label{A, B, C, Unclassified}
}

func (l Label) String() string {
	switch l {
	case A:
		return "A"
	case B:
		return "B"
	case C:
		return "C"
	case Unclassified:
		return "Unclassified"
	default:
		return fmt.Sprintf("Label(%d)", uint8(l))
	}
}

// Short is the one-letter column code, U for Unclassified.
func (l Label) Short() string {
	if l == Unclassified {
		return "U"
	}
	return l.String()
}

func (l Label) Valid() bool { return l < NumLabels }

func Parse(s string) (Label, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return A, nil
	case "B":
		return B, nil
	case "C":
		return C, nil
	case "U", "UNCLASSIFIED":
		return Unclassified, nil
	}
	return Unclassified, fmt.Errorf("sector: unknown label %q", s)
}

func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("sector: invalid label %d", uint8(l))
	}
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
