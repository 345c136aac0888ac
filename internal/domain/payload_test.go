package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdesk/internal/domain"
)

func TestAnswerPayloadUnmarshalSingle(t *testing.T) {
	var pair domain.SubmittedAnswer
	err := json.Unmarshal([]byte(`{"question": 7, "answer": 42}`), &pair)
	require.NoError(t, err)

	assert.Equal(t, int64(7), pair.Question)
	assert.False(t, pair.Answer.IsList())
	assert.Equal(t, int64(42), pair.Answer.Single())
}

func TestAnswerPayloadUnmarshalList(t *testing.T) {
	var pair domain.SubmittedAnswer
	err := json.Unmarshal([]byte(`{"question": 7, "answer": [1, 2, 3]}`), &pair)
	require.NoError(t, err)

	assert.True(t, pair.Answer.IsList())
	assert.Equal(t, []int64{1, 2, 3}, pair.Answer.Multiple())
}

func TestAnswerPayloadUnmarshalRejectsOtherShapes(t *testing.T) {
	for _, raw := range []string{`"paris"`, `{"id": 1}`, `[1, "two"]`, `true`} {
		var payload domain.AnswerPayload
		err := json.Unmarshal([]byte(raw), &payload)
		assert.ErrorIs(t, err, domain.ErrAnswerFormat, "payload %s should be rejected", raw)
	}
}

func TestAnswerPayloadIDSetDeduplicates(t *testing.T) {
	payload := domain.MultipleAnswers(3, 3, 5)
	set := payload.IDSet()
	assert.Len(t, set, 2)
	assert.Contains(t, set, int64(3))
	assert.Contains(t, set, int64(5))
}

func TestAnswerPayloadMarshalRoundTrip(t *testing.T) {
	single, err := json.Marshal(domain.SingleAnswer(9))
	require.NoError(t, err)
	assert.JSONEq(t, `9`, string(single))

	multiple, err := json.Marshal(domain.MultipleAnswers(1, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(multiple))
}

func TestValidationErrorCollectsMessagesPerField(t *testing.T) {
	verr := domain.NewValidationError("answers", "first")
	verr.Add("answers", "second")
	verr.Add("title", "third")

	assert.Len(t, verr.Fields["answers"], 2)
	assert.Contains(t, verr.Error(), "answers")
	assert.Contains(t, verr.Error(), "title")
}
