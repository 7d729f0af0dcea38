// Package types defines the data structures for pipeline requests and
// responses. The wire format is OpenAI-compatible; response decoding also
// understands the Anthropic shape.
package types

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a conversation. Order is significant,
// most-recent-last.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryEntry is one prior turn as supplied by the caller. Type is the
// caller's own tag; anything other than "user" is mapped to the assistant
// role when the message list is built.
type HistoryEntry struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ModelSettings carries per-request model parameters. Every field is
// optional; the orchestrator fills defaults for absent ones.
type ModelSettings struct {
	Model            string   `json:"model,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxTokens        int      `json:"max_tokens,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

// Location names where the user is.
type Location struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// RequestContext is an optional bag of conversational metadata. Fields are
// independently optional and contribute to the request only if present.
type RequestContext struct {
	Location       *Location `json:"location,omitempty"`
	Time           int64     `json:"time,omitempty"` // unix milliseconds
	RecentTopics   []string  `json:"recent_topics,omitempty"`
	ActiveMode     string    `json:"active_mode,omitempty"`
	ActiveFeatures []string  `json:"active_features,omitempty"`
}

// Request is the inbound unit of work from the UI layer.
type Request struct {
	Message      string
	History      []HistoryEntry
	SystemPrompt string
	Context      *RequestContext
	Settings     ModelSettings
}

// ChatRequest is the JSON body sent to the model endpoint.
type ChatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
	Stream           bool      `json:"stream,omitempty"`
}
