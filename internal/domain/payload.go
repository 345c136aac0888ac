package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAnswerFormat reports an answer payload that is neither an integer nor a
// list of integers.
var ErrAnswerFormat = errors.New("answer must be an integer or a list of integers")

// AnswerPayload is a tagged variant: either a single answer id or a list of
// answer ids. Which form is acceptable depends on the question's declared
// answer type; the submission validator enforces that, not the decoder.
type AnswerPayload struct {
	single   int64
	multiple []int64
	list     bool
}

// SingleAnswer builds a payload carrying one answer id.
func SingleAnswer(id int64) AnswerPayload {
	return AnswerPayload{single: id}
}

// MultipleAnswers builds a payload carrying a list of answer ids.
func MultipleAnswers(ids ...int64) AnswerPayload {
	return AnswerPayload{multiple: ids, list: true}
}

// IsList reports whether the payload was submitted as a list.
func (p AnswerPayload) IsList() bool { return p.list }

// Single returns the single answer id. Only meaningful when !IsList().
func (p AnswerPayload) Single() int64 { return p.single }

// Multiple returns the submitted id list. Only meaningful when IsList().
func (p AnswerPayload) Multiple() []int64 { return p.multiple }

// IDSet returns the submitted ids as a set, deduplicating list entries.
func (p AnswerPayload) IDSet() map[int64]struct{} {
	set := make(map[int64]struct{})
	if p.list {
		for _, id := range p.multiple {
			set[id] = struct{}{}
		}
		return set
	}
	set[p.single] = struct{}{}
	return set
}

func (p *AnswerPayload) UnmarshalJSON(data []byte) error {
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*p = AnswerPayload{single: id}
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err == nil {
		*p = AnswerPayload{multiple: ids, list: true}
		return nil
	}
	return fmt.Errorf("%w, got %s", ErrAnswerFormat, data)
}

func (p AnswerPayload) MarshalJSON() ([]byte, error) {
	if p.list {
		return json.Marshal(p.multiple)
	}
	return json.Marshal(p.single)
}
