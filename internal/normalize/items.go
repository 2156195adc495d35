package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ignite/trello-agent/internal/domain"
)

type itemsKind int

const (
	itemsAbsent itemsKind = iota
	itemsSequence
	itemsComma
)

// ItemsInput is a checklist items field as received from a caller: either an
// explicit sequence of names or a single comma-separated string. The zero
// value means the field was absent.
type ItemsInput struct {
	kind  itemsKind
	seq   []string
	comma string
}

// Sequence builds an ItemsInput from an explicit list of names.
func Sequence(items ...string) ItemsInput {
	return ItemsInput{kind: itemsSequence, seq: items}
}

// CommaString builds an ItemsInput from a "a, b, c" style string.
func CommaString(s string) ItemsInput {
	return ItemsInput{kind: itemsComma, comma: s}
}

// ItemsFromValues maps form values onto an ItemsInput. A single value is
// treated as a comma string, repeated values as a sequence.
func ItemsFromValues(values []string) ItemsInput {
	switch len(values) {
	case 0:
		return ItemsInput{}
	case 1:
		return CommaString(values[0])
	default:
		return Sequence(values...)
	}
}

// IsEmpty reports whether the caller supplied nothing usable: the field was
// absent, an empty string, or an empty list.
func (in ItemsInput) IsEmpty() bool {
	switch in.kind {
	case itemsSequence:
		return len(in.seq) == 0
	case itemsComma:
		return in.comma == ""
	default:
		return true
	}
}

// UnmarshalJSON accepts null, a string or an array of strings.
func (in *ItemsInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*in = ItemsInput{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: items: %v", domain.ErrInvalidInput, err)
		}
		*in = CommaString(s)
		return nil
	case '[':
		var seq []string
		if err := json.Unmarshal(data, &seq); err != nil {
			return fmt.Errorf("%w: items must be a list of strings: %v", domain.ErrInvalidInput, err)
		}
		*in = Sequence(seq...)
		return nil
	}
	return fmt.Errorf("%w: items must be a list of strings or a comma-separated string", domain.ErrInvalidInput)
}

// MarshalJSON writes the field back in the shape it was received.
func (in ItemsInput) MarshalJSON() ([]byte, error) {
	switch in.kind {
	case itemsSequence:
		if in.seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(in.seq)
	case itemsComma:
		return json.Marshal(in.comma)
	default:
		return []byte("null"), nil
	}
}

// Items flattens an ItemsInput into an ordered slice of trimmed, non-empty
// names. Duplicates are kept and case is left untouched.
func Items(in ItemsInput) []string {
	var parts []string
	switch in.kind {
	case itemsSequence:
		parts = in.seq
	case itemsComma:
		parts = strings.Split(in.comma, ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
