package types

import (
	goerrors "errors"

	"github.com/goccy/go-json"

	"github.com/lumenchat/respond/pkg/errors"
)

// Shape identifies which provider format a response body matched. Decoding is
// a tagged-union step with an explicit unrecognized variant rather than
// chained optional-field probing.
type Shape int

const (
	ShapeUnknown   Shape = iota
	ShapeOpenAI          // choices[0].message.content / choices[0].delta.content
	ShapeAnthropic       // content[0].text / delta.text
	ShapeBare            // top-level text or content string
)

// String returns the shape name for logging.
func (s Shape) String() string {
	switch s {
	case ShapeOpenAI:
		return "openai"
	case ShapeAnthropic:
		return "anthropic"
	case ShapeBare:
		return "bare"
	default:
		return "unknown"
	}
}

// completionBody covers both complete-response formats in one decode pass.
type completionBody struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Content json.RawMessage `json:"content"`
	Text    string          `json:"text"`
}

type anthropicBlock struct {
	Text string `json:"text"`
}

// ExtractText pulls the assistant text out of a complete (non-streaming)
// response body. It returns the shape that matched, or ErrUnrecognizedShape
// wrapped in an extraction failure when none did.
func ExtractText(body []byte) (string, Shape, error) {
	var decoded completionBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", ShapeUnknown, errors.NewExtractionFailed("decode response body: " + err.Error())
	}

	if len(decoded.Choices) > 0 && decoded.Choices[0].Message.Content != "" {
		return decoded.Choices[0].Message.Content, ShapeOpenAI, nil
	}

	// Anthropic puts content blocks in an array; bare responses use a plain
	// string under the same key.
	if len(decoded.Content) > 0 {
		var blocks []anthropicBlock
		if err := json.Unmarshal(decoded.Content, &blocks); err == nil {
			if len(blocks) > 0 && blocks[0].Text != "" {
				return blocks[0].Text, ShapeAnthropic, nil
			}
		}
		var plain string
		if err := json.Unmarshal(decoded.Content, &plain); err == nil && plain != "" {
			return plain, ShapeBare, nil
		}
	}

	if decoded.Text != "" {
		return decoded.Text, ShapeBare, nil
	}

	return "", ShapeUnknown, goerrors.Join(errors.ErrUnrecognizedShape,
		errors.NewExtractionFailed("response body matched no known provider shape"))
}

// streamEvent covers both incremental-event formats in one decode pass.
type streamEvent struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

// ExtractStreamText pulls the incremental token text out of one parsed stream
// frame. An event carrying no content (role announcements, pings, stop
// markers) yields an empty string with ShapeUnknown and no error.
func ExtractStreamText(frame []byte) (string, Shape, error) {
	var event streamEvent
	if err := json.Unmarshal(frame, &event); err != nil {
		return "", ShapeUnknown, err
	}

	if len(event.Choices) > 0 && event.Choices[0].Delta.Content != "" {
		return event.Choices[0].Delta.Content, ShapeOpenAI, nil
	}

	if event.Delta.Text != "" {
		return event.Delta.Text, ShapeAnthropic, nil
	}

	return "", ShapeUnknown, nil
}
