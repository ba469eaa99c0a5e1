package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// AnswerKind tags which variant an Answer holds.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerText
	AnswerBool
	AnswerSequence
)

// Answer is a submitted or expected answer: a string, a boolean or an
// ordered list of strings.
type Answer struct {
	kind AnswerKind
	text string
	flag bool
	seq  []string
}

func Text(s string) Answer        { return Answer{kind: AnswerText, text: s} }
func Bool(b bool) Answer          { return Answer{kind: AnswerBool, flag: b} }
func Sequence(s ...string) Answer { return Answer{kind: AnswerSequence, seq: slices.Clone(s)} }

func (a Answer) Kind() AnswerKind { return a.kind }
func (a Answer) IsZero() bool     { return a.kind == AnswerNone }

// Equal compares sequences item by item in order and everything else by
// strict equality of kind and value.
func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case AnswerText:
		return a.text == b.text
	case AnswerBool:
		return a.flag == b.flag
	case AnswerSequence:
		return slices.Equal(a.seq, b.seq)
	default:
		return false
	}
}

func (a Answer) String() string {
	switch a.kind {
	case AnswerText:
		return a.text
	case AnswerBool:
		return fmt.Sprintf("%t", a.flag)
	case AnswerSequence:
		return fmt.Sprintf("%q", a.seq)
	default:
		return "<none>"
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerText:
		return json.Marshal(a.text)
	case AnswerBool:
		return json.Marshal(a.flag)
	case AnswerSequence:
		if a.seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.seq)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*a = Bool(b)
	case '[':
		var seq []string
		if err := json.Unmarshal(data, &seq); err != nil {
			return fmt.Errorf("answer list must contain only strings: %w", err)
		}
		*a = Answer{kind: AnswerSequence, seq: seq}
	default:
		return fmt.Errorf("answer must be a string, boolean or list of strings, got %s", data)
	}
	return nil
}
