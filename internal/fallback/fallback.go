// Package fallback produces canned responses when the generation path fails.
// This is the terminal, always-succeeds path: it never fails or blocks.
package fallback

import "math/rand/v2"

// Kind selects a template pool.
type Kind string

const (
	KindError      Kind = "error"
	KindTimeout    Kind = "timeout"
	KindModeration Kind = "moderation"
)

var templates = map[Kind][]string{
	KindError: {
		"I'm sorry, I'm having trouble connecting to my knowledge database right now. Could we try again in a moment?",
		"It seems I'm experiencing a technical issue. Let me try to resolve this.",
		"I apologize, but I'm currently unable to process your request due to a connection issue.",
	},
	KindTimeout: {
		"I apologize for the delay. It's taking longer than expected to process your request.",
		"It seems that this query is taking too long to complete. Could you try a simpler question?",
		"I'm sorry, but the response timed out. Let's try a different approach.",
	},
	KindModeration: {
		"I'm not able to provide a response to that. Let's talk about something else.",
		"That topic is outside the scope of what I can assist with. Is there something else I can help you with?",
		"I apologize, but I'm designed to provide helpful and ethical information. Let's focus on a different topic.",
	},
}

// Pick returns one template from the pool for kind, chosen uniformly at
// random. An unrecognized kind falls back to the error pool.
func Pick(kind Kind) string {
	pool, ok := templates[kind]
	if !ok {
		pool = templates[KindError]
	}
	return pool[rand.IntN(len(pool))]
}

// Pool returns the templates for a kind, for callers that need to recognize
// fallback text. Returns the error pool for unrecognized kinds.
func Pool(kind Kind) []string {
	pool, ok := templates[kind]
	if !ok {
		pool = templates[KindError]
	}
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}
