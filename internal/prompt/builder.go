// Package prompt assembles the message list for a model request from the
// current user message, trimmed history, system prompt, and request context.
package prompt

import (
	"strings"
	"time"

	"github.com/lumenchat/respond/pkg/types"
)

// maxHistory bounds the conversation tail carried into a request. Truncation
// to the trailing entries is the sole bounding mechanism; no token counting
// is performed.
const maxHistory = 10

// BuildMessages produces the ordered message list: the system prompt, an
// optional context system message, the trailing slice of history, and the
// current user message last.
func BuildMessages(userMessage string, history []types.HistoryEntry, systemPrompt string, rctx *types.RequestContext) []types.Message {
	messages := make([]types.Message, 0, len(history)+3)

	messages = append(messages, types.Message{
		Role:    types.RoleSystem,
		Content: systemPrompt,
	})

	if ctxMsg := contextMessage(rctx); ctxMsg != "" {
		messages = append(messages, types.Message{
			Role:    types.RoleSystem,
			Content: ctxMsg,
		})
	}

	for _, entry := range relevantHistory(history, userMessage) {
		role := types.RoleAssistant
		if entry.Type == types.RoleUser {
			role = types.RoleUser
		}
		messages = append(messages, types.Message{
			Role:    role,
			Content: entry.Content,
		})
	}

	messages = append(messages, types.Message{
		Role:    types.RoleUser,
		Content: userMessage,
	})

	return messages
}

// contextMessage flattens the present context fields into a newline-joined
// list. Returns "" when no field is present so the message is omitted.
func contextMessage(rctx *types.RequestContext) string {
	if rctx == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Additional context:\n")
	base := b.Len()

	if rctx.Location != nil {
		b.WriteString("- User location: " + rctx.Location.City + ", " + rctx.Location.Country + "\n")
	}
	if rctx.Time > 0 {
		b.WriteString("- Current time: " + time.UnixMilli(rctx.Time).Format(time.RFC1123) + "\n")
	}
	if len(rctx.RecentTopics) > 0 {
		b.WriteString("- Recent topics: " + strings.Join(rctx.RecentTopics, ", ") + "\n")
	}
	if rctx.ActiveMode != "" {
		b.WriteString("- Active mode: " + rctx.ActiveMode + "\n")
	}
	if len(rctx.ActiveFeatures) > 0 {
		b.WriteString("- Active features: " + strings.Join(rctx.ActiveFeatures, ", ") + "\n")
	}

	if b.Len() == base {
		return ""
	}
	return b.String()
}

// relevantHistory drops the final history entry when a caller that appends
// eagerly has already pushed the current user message, then keeps the
// trailing maxHistory entries.
func relevantHistory(history []types.HistoryEntry, currentMessage string) []types.HistoryEntry {
	if n := len(history); n > 0 &&
		history[n-1].Type == types.RoleUser &&
		history[n-1].Content == currentMessage {
		history = history[:n-1]
	}

	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	return history
}
