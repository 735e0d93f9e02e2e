/*
File    : go-flow/eval/interpreter.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package eval implements the tree-walking interpreter that drives GoFlow
// dialog scripts. One Interpreter serves any number of sessions: the
// script AST it walks is immutable and shared, while all mutable state
// lives in the per-session ExecutionContext passed into every call.
//
// The interpreter never blocks waiting for a user. When a listen statement
// finds no buffered input, Execute returns a waiting_input Result and
// persists the (current step, statement index) continuation into the
// context; the next Execute call re-enters at exactly that statement.
package eval

import (
	"os"
	"strings"

	"github.com/akashmaji946/go-flow/intent"
	"github.com/akashmaji946/go-flow/parser"
	"github.com/akashmaji946/go-flow/runtime"
	"github.com/sirupsen/logrus"
)

// MAX_RECURSION_DEPTH bounds how many branch jumps a single Execute call
// may chain through. Branch recursion is the only unbounded work one call
// can do, so this is the interpreter's only resource guard.
const MAX_RECURSION_DEPTH = 100

// WAITING_MESSAGE is the marker appended to output when execution pauses
// for user input.
const WAITING_MESSAGE = "waiting for user input"

// InputCallback supplies buffered user input to listen statements.
// It returns the pending utterance, or "" when none is buffered (which
// makes the listen suspend).
type InputCallback func() string

// AnalyzeFunc classifies one utterance. The session driver binds the
// candidate intent list, so the interpreter sees a pure string-to-result
// function. A nil AnalyzeFunc disables classification entirely.
type AnalyzeFunc func(userInput string) (intent.Result, error)

// log is the interpreter's logger. A truthy DEBUG_INTENT environment
// value raises it to debug level for per-input classification tracing.
var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if intent.DebugEnabled() {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Interpreter walks a parsed script and executes one step at a time
// against a session's ExecutionContext. It holds no per-session state,
// so a single instance is safe to share across concurrently executing
// sessions.
type Interpreter struct {
	Script            *parser.ScriptNode // Shared immutable AST
	Analyze           AnalyzeFunc        // Intent classifier, may be nil
	MaxRecursionDepth int                // Branch chain bound for one call
}

// NewInterpreter creates an interpreter for the given script.
//
// Parameters:
//   - script: The parsed, immutable script to execute
//   - analyze: Intent classification function, or nil to disable
//
// Returns:
//   - *Interpreter: A session-agnostic interpreter
func NewInterpreter(script *parser.ScriptNode, analyze AnalyzeFunc) *Interpreter {
	return &Interpreter{
		Script:            script,
		Analyze:           analyze,
		MaxRecursionDepth: MAX_RECURSION_DEPTH,
	}
}

// Execute runs the session's current step from its stored resume index.
//
// On the session's first call the current step is initialized to "start"
// if the script defines it, otherwise to the first declared step. The call
// runs synchronously to one of three outcomes:
//
//   - waiting_input: a listen found no buffered input; the continuation
//     was saved and the same call is safe to repeat
//   - finished: an end statement was reached or the step ran out
//   - error: a fault occurred; Err carries a short machine token
//
// (running never escapes: a taken branch recurses into the target step,
// with depth+1, and that step's outcome is returned as-is.)
//
// Parameters:
//   - ctx: The session's execution context
//   - input: Callback draining the session's pending-input slot; may be nil
//   - depth: Branch recursion depth, 0 for external calls
//
// Returns:
//   - Result: What to display and whether more input is required
func (ip *Interpreter) Execute(ctx *runtime.ExecutionContext, input InputCallback, depth int) Result {
	if depth >= ip.MaxRecursionDepth {
		return ip.recursionError(nil)
	}

	// First execution for this session: position at the entry step
	if ctx.CurrentStep() == "" {
		if ip.Script.GetStep("start") != nil {
			ctx.SetCurrentStep("start")
		} else if len(ip.Script.Steps) > 0 {
			ctx.SetCurrentStep(ip.Script.Steps[0].Name)
		} else {
			return Result{
				Status:  StatusError,
				Message: "no steps defined in script",
				Err:     "no_steps",
			}
		}
		ctx.SetStatementIndex(0)
	}

	stepName := ctx.CurrentStep()
	step := ip.Script.GetStep(stepName)
	if step == nil {
		return Result{
			Status:  StatusError,
			Message: "step '" + stepName + "' does not exist",
			Err:     "step_not_found",
		}
	}

	return ip.executeStep(step, ctx, input, depth)
}

// executeStep iterates a step's statements from the context's resume
// index, collecting speak output and dispatching each statement to its
// handler. See Execute for the outcome contract.
func (ip *Interpreter) executeStep(step *parser.StepNode, ctx *runtime.ExecutionContext, input InputCallback, depth int) Result {
	// Speak output accumulated while walking this step
	messages := make([]string, 0)

	startIndex := ctx.StatementIndex()

	for index, statement := range step.Statements {
		// Already executed before the last suspension
		if index < startIndex {
			continue
		}

		result, err := ip.executeStatement(statement, ctx, input)
		if err != nil {
			return Result{
				Status:  StatusError,
				Message: "execution error: " + err.Error(),
				Err:     machineToken(err),
			}
		}

		// Statements with nothing to report (set, untaken branch)
		if result == nil {
			continue
		}

		switch result.Status {
		case StatusWaitingInput:
			// Save the continuation so the next call resumes at this
			// exact listen, then surface what was spoken so far
			ctx.SetStatementIndex(index)
			result.Message = joinWith(messages, result.Message)
			return *result

		case StatusFinished:
			ctx.SetStatementIndex(0)
			if len(messages) > 0 {
				result.Message = strings.Join(messages, "\n")
			}
			return *result

		case StatusRunning:
			if result.NextStep != "" {
				return ip.takeBranch(result.NextStep, ctx, input, depth, messages)
			}
			if result.Message != "" {
				messages = append(messages, result.Message)
			}
		}
	}

	// Fell off the end of the statement list: same as an explicit end
	ctx.SetStatementIndex(0)
	message := "step '" + step.Name + "' finished"
	if len(messages) > 0 {
		message = strings.Join(messages, "\n")
	}
	return Result{
		Status:  StatusFinished,
		Message: message,
	}
}

// takeBranch performs a step jump: reposition the context at the target's
// first statement and recurse with an incremented depth. Speak output
// accumulated before the jump is intentionally dropped; the caller sees
// only what the target step produces.
func (ip *Interpreter) takeBranch(target string, ctx *runtime.ExecutionContext, input InputCallback, depth int, messages []string) Result {
	if depth+1 >= ip.MaxRecursionDepth {
		return ip.recursionError(messages)
	}

	next := ip.Script.GetStep(target)
	if next == nil {
		return Result{
			Status:  StatusError,
			Message: joinWith(messages, "step '"+target+"' does not exist"),
			Err:     "step_not_found",
		}
	}

	ctx.SetCurrentStep(target)
	ctx.SetStatementIndex(0)

	return ip.executeStep(next, ctx, input, depth+1)
}

// recursionError builds the error Result for an exceeded branch chain,
// preserving any speak output accumulated so far.
func (ip *Interpreter) recursionError(messages []string) Result {
	return Result{
		Status: StatusError,
		Message: joinWith(messages,
			"maximum recursion depth exceeded: possible branch loop in script"),
		Err: "recursion_limit",
	}
}

// joinWith prepends the accumulated speak messages (newline-joined) to a
// trailing marker or diagnostic line.
func joinWith(messages []string, tail string) string {
	if len(messages) == 0 {
		return tail
	}
	joined := strings.Join(messages, "\n")
	if tail == "" {
		return joined
	}
	return joined + "\n" + tail
}
