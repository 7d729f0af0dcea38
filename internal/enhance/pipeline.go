// Package enhance post-processes a completed response through a sequence of
// independent, order-preserving text transformers.
package enhance

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lumenchat/respond/pkg/types"
)

// ProcessorFunc transforms response text. It may consult the user message and
// request context but sees no other history.
type ProcessorFunc func(text, userMessage string, rctx *types.RequestContext) (string, error)

// Module is one named transformer in the pipeline.
type Module struct {
	Name    string
	Process ProcessorFunc
}

// Flags selects which of the built-in modules run.
type Flags struct {
	Citation bool `yaml:"citation"`
	Code     bool `yaml:"code"`
	Markdown bool `yaml:"markdown"`
	Math     bool `yaml:"math"`
}

// DefaultFlags matches the stock configuration: code and markdown on,
// citation and math off.
func DefaultFlags() Flags {
	return Flags{Code: true, Markdown: true}
}

// Pipeline runs enabled modules in a fixed declared order:
// citation, code, markdown, math.
//
// A module that fails is logged and skipped; the text entering it passes
// through unchanged to the next module.
type Pipeline struct {
	mu      sync.RWMutex
	modules []Module
	logger  *slog.Logger
}

// NewPipeline creates a pipeline with the built-in modules selected by flags.
func NewPipeline(logger *slog.Logger, flags Flags) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{logger: logger}
	p.Reconfigure(flags)
	return p
}

// NewPipelineWithModules creates a pipeline from an explicit module list.
// Used by tests and callers with custom transformers.
func NewPipelineWithModules(logger *slog.Logger, modules ...Module) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger, modules: modules}
}

// Reconfigure swaps the enabled module set. Safe to call while Run is in
// flight on other goroutines; in-flight runs finish with the old set.
func (p *Pipeline) Reconfigure(flags Flags) {
	var modules []Module
	if flags.Citation {
		modules = append(modules, Module{Name: "citation", Process: Citations})
	}
	if flags.Code {
		modules = append(modules, Module{Name: "code", Process: CodeBlocks})
	}
	if flags.Markdown {
		modules = append(modules, Module{Name: "markdown", Process: Markdown})
	}
	if flags.Math {
		modules = append(modules, Module{Name: "math", Process: MathExpressions})
	}

	p.mu.Lock()
	p.modules = modules
	p.mu.Unlock()
}

// Run applies each module in order and returns the final text. Run never
// fails: per-module errors and panics are contained and the text produced so
// far is preserved.
func (p *Pipeline) Run(text, userMessage string, rctx *types.RequestContext) string {
	p.mu.RLock()
	modules := p.modules
	p.mu.RUnlock()

	for _, m := range modules {
		out, err := runModule(m, text, userMessage, rctx)
		if err != nil {
			p.logger.Warn("enhancement module skipped",
				"module", m.Name,
				"error", err,
			)
			continue
		}
		text = out
	}
	return text
}

func runModule(m Module, text, userMessage string, rctx *types.RequestContext) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module %s panicked: %v", m.Name, r)
		}
	}()
	return m.Process(text, userMessage, rctx)
}
