// Package respond implements the response-generation pipeline for a chat
// application: it turns a user message into a model request, handles network
// failure with retries, decodes incremental response streams, caches results,
// and post-processes text before it reaches the UI.
//
// Basic usage:
//
//	client, err := respond.New(
//	    respond.WithEndpoints("https://api.example.com/v1/chat", "https://api.example.com/v1/chat/stream"),
//	    respond.WithAPIKey(os.Getenv("API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.GenerateResponse(ctx, &respond.Request{
//	    Message:      "Hello!",
//	    SystemPrompt: "You are a helpful assistant.",
//	})
//
// Streaming:
//
//	stream, err := client.StreamResponse(ctx, req)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//
//	for {
//	    chunk, err := stream.Recv()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk)
//	}
package respond

import (
	"github.com/lumenchat/respond/internal/cache"
	"github.com/lumenchat/respond/internal/enhance"
	"github.com/lumenchat/respond/pkg/errors"
	"github.com/lumenchat/respond/pkg/types"
)

// Version is the current version of the library.
const Version = "1.0.0"

// Re-export core request/response types for convenience.
// Users can use respond.Request instead of types.Request.
type (
	// Request is the inbound unit of work from the UI layer.
	Request = types.Request

	// Message is a single entry in a conversation.
	Message = types.Message

	// HistoryEntry is one prior conversation turn as supplied by the caller.
	HistoryEntry = types.HistoryEntry

	// ModelSettings carries per-request model parameters.
	ModelSettings = types.ModelSettings

	// RequestContext is an optional bag of conversational metadata.
	RequestContext = types.RequestContext

	// Location names where the user is.
	Location = types.Location

	// Shape identifies which provider format a response body matched.
	Shape = types.Shape
)

// Re-export cache types.
type (
	// CacheStore defines the interface for cache backends.
	CacheStore = cache.Store

	// CacheStats holds cache counters for monitoring.
	CacheStats = cache.Stats
)

// Re-export enhancement types.
type (
	// EnhancerFlags selects which enhancement modules run.
	EnhancerFlags = enhance.Flags

	// EnhancementModule is one named text transformer.
	EnhancementModule = enhance.Module
)

// Re-export error types.
type (
	// PipelineError represents a standardized failure in the pipeline.
	PipelineError = errors.PipelineError
)

// Re-export response shape constants.
const (
	ShapeUnknown   = types.ShapeUnknown
	ShapeOpenAI    = types.ShapeOpenAI
	ShapeAnthropic = types.ShapeAnthropic
	ShapeBare      = types.ShapeBare
)

// Re-export message role constants.
const (
	RoleSystem    = types.RoleSystem
	RoleUser      = types.RoleUser
	RoleAssistant = types.RoleAssistant
)

// Re-export error kind constants.
const (
	KindRequestFailed      = errors.KindRequestFailed
	KindTimeout            = errors.KindTimeout
	KindRateLimit          = errors.KindRateLimit
	KindInvalidRequest     = errors.KindInvalidRequest
	KindServiceUnavailable = errors.KindServiceUnavailable
	KindExtractionFailed   = errors.KindExtractionFailed
	KindInternalError      = errors.KindInternalError
)

// ErrUnrecognizedShape is returned when a response body matches none of the
// known provider shapes.
var ErrUnrecognizedShape = errors.ErrUnrecognizedShape

// Result is the outcome of a non-streaming generation.
type Result struct {
	// Text is the final, enhanced response text.
	Text string

	// Cached reports whether the text was served from the response cache.
	Cached bool

	// Fallback reports whether the text is a canned fallback rather than a
	// model response.
	Fallback bool
}
