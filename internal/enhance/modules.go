package enhance

import (
	"regexp"
	"strings"

	"github.com/lumenchat/respond/pkg/types"
)

// citationDisclaimer is appended when the response leans on unsupported
// factual claims.
const citationDisclaimer = "\n\n---\n*This response includes information that would benefit from citation. In a full implementation, relevant academic or trusted sources would be cited here.*"

// Citations appends a disclaimer footnote when the text contains heuristic
// phrases indicating an unsourced factual claim.
func Citations(text, _ string, _ *types.RequestContext) (string, error) {
	if strings.Contains(text, "According to") || strings.Contains(text, "research shows") {
		return text + citationDisclaimer, nil
	}
	return text, nil
}

// languageKeywords maps a fence language tag to the user-message keywords
// that imply it. Order matters: the first matching entry wins.
var languageKeywords = []struct {
	language string
	keywords []string
}{
	{"javascript", []string{"javascript", "js", "node", "react", "vue", "angular"}},
	{"python", []string{"python", "django", "flask", "numpy", "pandas"}},
	{"java", []string{"java", "spring", "android"}},
	{"html", []string{"html", "markup"}},
	{"css", []string{"css", "style", "scss", "sass"}},
	{"sql", []string{"sql", "query", "database"}},
	{"c#", []string{"c#", "csharp", ".net", "dotnet"}},
	{"php", []string{"php", "laravel", "symfony"}},
}

var fenceRe = regexp.MustCompile("```([^`\n]*)\n")

// CodeBlocks tags opening code fences that lack a language, inferring the
// language from keywords in the user's message and defaulting to "text".
func CodeBlocks(text, userMessage string, _ *types.RequestContext) (string, error) {
	inferred := inferLanguage(userMessage)

	opening := true
	out := fenceRe.ReplaceAllStringFunc(text, func(match string) string {
		isOpening := opening
		opening = !opening

		tag := strings.TrimSpace(match[3 : len(match)-1])
		if !isOpening || tag != "" {
			return match
		}
		return "```" + inferred + "\n"
	})
	return out, nil
}

func inferLanguage(userMessage string) string {
	lower := strings.ToLower(userMessage)
	for _, entry := range languageKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.language
			}
		}
	}
	return "text"
}

var (
	headingRe     = regexp.MustCompile(`(?m)^(#{1,6})([^ #])`)
	bulletRe      = regexp.MustCompile(`(?m)^([ \t]*)([*+-])([^ \n])`)
	orderedItemRe = regexp.MustCompile(`(?m)^([ \t]*)(\d+\.)([^ \n])`)
)

// Markdown normalizes heading and list-marker spacing: exactly one space
// after # sequences and after bullet or ordinal markers.
func Markdown(text, _ string, _ *types.RequestContext) (string, error) {
	text = headingRe.ReplaceAllString(text, "$1 $2")
	text = bulletRe.ReplaceAllString(text, "$1$2 $3")
	text = orderedItemRe.ReplaceAllString(text, "$1$2 $3")
	return text, nil
}

var (
	inlineMathRe  = regexp.MustCompile(`\b\d+(?:\s*[\+\-\*/\^\(\)]\s*\d+)+\b`)
	displayMathRe = regexp.MustCompile(`(?m)^([^$\n]+=[^$\n]+)$`)
	mathSpaceRe   = regexp.MustCompile(`\s+`)
	mathKeywords  = []string{"equation", "formula", "calculate"}
)

// MathExpressions wraps bare arithmetic in inline math delimiters and, when
// the user message mentions a math keyword, wraps equation-looking lines in
// display math delimiters.
func MathExpressions(text, userMessage string, _ *types.RequestContext) (string, error) {
	text = inlineMathRe.ReplaceAllStringFunc(text, func(match string) string {
		return "$" + mathSpaceRe.ReplaceAllString(match, "") + "$"
	})

	lower := strings.ToLower(userMessage)
	for _, kw := range mathKeywords {
		if strings.Contains(lower, kw) {
			text = displayMathRe.ReplaceAllStringFunc(text, func(match string) string {
				return "$$" + strings.TrimSpace(match) + "$$"
			})
			break
		}
	}
	return text, nil
}
