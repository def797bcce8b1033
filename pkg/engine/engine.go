// Package engine evaluates mesh scripts. It wraps zygomys in a sandboxed
// environment whose builtins build a half-edge mesh.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/sirupsen/logrus"

	"github.com/chazu/meshgraph/pkg/geometry"
	"github.com/chazu/meshgraph/pkg/graph"
	"github.com/chazu/meshgraph/pkg/index"
	"github.com/chazu/meshgraph/pkg/kernel"
	"github.com/chazu/meshgraph/pkg/tessellate"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is a validation warning about the mesh a script produced.
type EvalWarning struct {
	Element string
	Message string
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Mesh     *tessellate.Mesh
	Errors   []EvalError
	Warnings []EvalWarning
}

// Option configures an Engine.
type Option func(*Engine)

// WithKernel enables the solid builtins, tessellating through k.
func WithKernel(k kernel.Kernel) Option {
	return func(e *Engine) { e.kernel = k }
}

// WithLogger sets the logger used by the engine and its builtins.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// IndexerFunc returns a fresh indexer for one tessellation.
type IndexerFunc func() (index.Indexer[geometry.Position], error)

// WithIndexer sets how the tessellate builtin merges triangle corners. f is
// called once per tessellate call. By default bit-exact equal positions are
// merged.
func WithIndexer(f IndexerFunc) Option {
	return func(e *Engine) { e.indexer = f }
}

// WithTimeout overrides EvalTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh mesh for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	kernel  kernel.Kernel
	indexer IndexerFunc
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		log:     logrus.StandardLogger(),
		timeout: EvalTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate takes mesh script source and produces a new mesh.
//
// Return semantics:
//   - On success: returns mesh + nil errors + nil error
//   - On parse/eval failure: returns nil mesh + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*tessellate.Mesh, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		m, evalErrs, err := e.evaluate(source)
		ch <- evalResult{mesh: m, errors: evalErrs, err: err}
	}()

	m, evalErrs, err := waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
	log := e.log.WithField("generation", gen)
	switch {
	case err != nil:
		log.WithError(err).Warn("evaluation failed")
	case len(evalErrs) > 0:
		log.WithField("errors", len(evalErrs)).Debug("evaluation reported errors")
	default:
		log.WithFields(logrus.Fields{
			"vertices": m.VertexCount(),
			"edges":    m.EdgeCount(),
			"faces":    m.FaceCount(),
		}).Debug("evaluated")
	}
	return m, evalErrs, err
}

// Run evaluates source and validates the connectivity and geometry of the
// resulting mesh. Fatal failures are returned as the error; everything else
// lands in the result.
func (e *Engine) Run(source string) (EvalResult, error) {
	m, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return EvalResult{}, err
	}
	res := EvalResult{Mesh: m, Errors: evalErrs}
	if m == nil {
		return res, nil
	}
	findings := graph.Validate(m)
	if len(graph.Errors(findings)) == 0 {
		findings = append(findings, graph.ValidateGeometry(m)...)
	}
	for _, f := range graph.Errors(findings) {
		res.Errors = append(res.Errors, EvalError{Message: f.Error()})
	}
	for _, f := range graph.Warnings(findings) {
		res.Warnings = append(res.Warnings, EvalWarning{Element: f.Element, Message: f.Message})
	}
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*tessellate.Mesh, []EvalError, error) {
	m := tessellate.NewMesh()

	// Empty source is a valid program that produces an empty mesh.
	if strings.TrimSpace(source) == "" {
		return m, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, m, e.kernel, e.indexer, e.log)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return m, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It extracts the line number when the message carries one and drops the
// line marker, keeping the rest of the message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		loc := re.FindStringSubmatchIndex(msg)
		if loc == nil {
			continue
		}
		line, _ := strconv.Atoi(msg[loc[2]:loc[3]])
		return []EvalError{{
			Line:    line,
			Message: strings.TrimSpace(strings.TrimSpace(msg[:loc[0]]) + " " + msg[loc[4]:]),
		}}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
