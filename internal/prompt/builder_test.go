package prompt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenchat/respond/pkg/types"
)

func TestBuildMessages_Order(t *testing.T) {
	history := []types.HistoryEntry{
		{Type: "user", Content: "hi"},
		{Type: "bot", Content: "hello"},
	}

	msgs := BuildMessages("what's next?", history, "You are helpful.", nil)

	require.Len(t, msgs, 4)
	assert.Equal(t, types.Message{Role: "system", Content: "You are helpful."}, msgs[0])
	assert.Equal(t, types.Message{Role: "user", Content: "hi"}, msgs[1])
	assert.Equal(t, types.Message{Role: "assistant", Content: "hello"}, msgs[2])
	assert.Equal(t, types.Message{Role: "user", Content: "what's next?"}, msgs[3])
}

func TestBuildMessages_TrimsToTenAndDropsDuplicateTail(t *testing.T) {
	current := "the current question"
	var history []types.HistoryEntry
	for i := 0; i < 15; i++ {
		typ := "user"
		if i%2 == 1 {
			typ = "assistant"
		}
		history = append(history, types.HistoryEntry{Type: typ, Content: fmt.Sprintf("turn %d", i)})
	}
	// Caller appended the current message eagerly.
	history = append(history, types.HistoryEntry{Type: "user", Content: current})

	msgs := BuildMessages(current, history, "sys", nil)

	// system + 10 history + current user message
	require.Len(t, msgs, 12)
	assert.Equal(t, "sys", msgs[0].Content)
	assert.Equal(t, "turn 5", msgs[1].Content)
	assert.Equal(t, "turn 14", msgs[10].Content)
	assert.Equal(t, types.Message{Role: "user", Content: current}, msgs[11])

	for _, m := range msgs[1:11] {
		assert.NotEqual(t, current, m.Content, "duplicate tail must be removed")
	}
}

func TestBuildMessages_DuplicateTailOnlyForUserEntries(t *testing.T) {
	history := []types.HistoryEntry{
		{Type: "assistant", Content: "same text"},
	}
	msgs := BuildMessages("same text", history, "sys", nil)
	// Assistant-authored tail matching the message is kept.
	require.Len(t, msgs, 3)
	assert.Equal(t, "assistant", msgs[1].Role)
}

func TestContextMessage_AllFields(t *testing.T) {
	rctx := &types.RequestContext{
		Location:       &types.Location{City: "Berlin", Country: "Germany"},
		Time:           1700000000000,
		RecentTopics:   []string{"go", "testing"},
		ActiveMode:     "dev-helper",
		ActiveFeatures: []string{"code", "markdown"},
	}

	msgs := BuildMessages("q", nil, "sys", rctx)
	require.Len(t, msgs, 3)

	ctxMsg := msgs[1]
	assert.Equal(t, "system", ctxMsg.Role)
	assert.Contains(t, ctxMsg.Content, "Additional context:")
	assert.Contains(t, ctxMsg.Content, "- User location: Berlin, Germany")
	assert.Contains(t, ctxMsg.Content, "- Recent topics: go, testing")
	assert.Contains(t, ctxMsg.Content, "- Active mode: dev-helper")
	assert.Contains(t, ctxMsg.Content, "- Active features: code, markdown")
}

func TestContextMessage_EmptyContextOmitted(t *testing.T) {
	for _, rctx := range []*types.RequestContext{nil, {}} {
		msgs := BuildMessages("q", nil, "sys", rctx)
		require.Len(t, msgs, 2, "empty context must not add a message")
	}
}
