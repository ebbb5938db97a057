package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateTag_IsDrill(t *testing.T) {
	tests := []struct {
		state    StateTag
		expected bool
	}{
		{StateIdle, false},
		{StateAwaitingTopicName, false},
		{StateAwaitingWord, false},
		{StateAwaitingTranslation, false},
		{StateAwaitingDeletionTarget, false},
		{StateConfirmTopicDeletion, false},
		{StateQuizEnRu, true},
		{StateQuizRuEn, true},
		{StateVerbPastSimple, true},
		{StateVerbPastParticiple, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.IsDrill())
			assert.True(t, tt.state.Valid())
		})
	}
}

func TestStateTag_Valid(t *testing.T) {
	assert.False(t, StateTag("waiting_for_topic_name").Valid())
	assert.False(t, StateTag("").Valid())
	assert.True(t, StateTag("").IsIdle())
}

func TestPayload_Merge(t *testing.T) {
	p := Payload{
		Word: &WordDraft{TopicID: 1, TopicName: "Animals"},
	}

	p.Merge(Payload{Quiz: &QuizItem{TopicID: 1, Direction: DirectionEnRu}})
	assert.NotNil(t, p.Word)
	assert.Equal(t, "Animals", p.Word.TopicName)
	assert.NotNil(t, p.Quiz)

	p.Merge(Payload{Word: &WordDraft{TopicID: 1, TopicName: "Animals", Word: "cat"}})
	assert.Equal(t, "cat", p.Word.Word)
	assert.NotNil(t, p.Quiz)

	p.Merge(Payload{})
	assert.NotNil(t, p.Word)
	assert.NotNil(t, p.Quiz)
	assert.Nil(t, p.Verb)
}
