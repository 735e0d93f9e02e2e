/*
File    : go-flow/agent/agent.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package agent is the session driver: the thin façade that combines the
// context registry with the interpreter and exposes the two operations a
// host needs - StartConversation and ProcessInput. It is the only layer
// aware of sessions; the interpreter below it is session-agnostic, and
// the host above it never touches contexts directly.
package agent

import (
	"os"

	"github.com/akashmaji946/go-flow/eval"
	"github.com/akashmaji946/go-flow/history"
	"github.com/akashmaji946/go-flow/intent"
	"github.com/akashmaji946/go-flow/objects"
	"github.com/akashmaji946/go-flow/parser"
	"github.com/akashmaji946/go-flow/runtime"
	"github.com/sirupsen/logrus"
)

// DefaultIntents is the candidate label list handed to the classifier on
// every classification. Operation-style intents come first so "back to
// the main menu" beats the broader business intents it may also mention.
var DefaultIntents = []string{
	"main_menu",
	"order_details",
	"logistics_status",
	"retry_inquiry",
	"retry_request",
	"quality_issue",
	"not_as_described",
	"no_longer_needed",
	"other_reason",
	"progress_inquiry",
	"complaint_inquiry",
	"submit_complaint",
	"submit_suggestion",
	"logistics_inquiry",
	"refund_request",
	"order_inquiry",
	"product_consult",
	"complaint_suggestion",
}

// AgentSystem drives conversations for any number of users against one
// compiled script. Each user's state lives in their ExecutionContext;
// the script and interpreter are shared.
type AgentSystem struct {
	Script      *parser.ScriptNode       // Shared immutable AST
	Interpreter *eval.Interpreter        // Session-agnostic executor
	Contexts    *runtime.ContextRegistry // Session id -> context
	Recorder    *history.Recorder        // Optional transcript store, may be nil

	log *logrus.Logger
}

// NewAgentSystem creates a driver for the given script and classifier.
// A nil analyzer disables intent classification entirely; otherwise every
// classified input is analyzed against DefaultIntents.
//
// Parameters:
//   - script: The parsed, immutable script
//   - analyzer: Intent classifier, or nil
//
// Returns:
//   - *AgentSystem: A ready driver
func NewAgentSystem(script *parser.ScriptNode, analyzer intent.Analyzer) *AgentSystem {
	var analyze eval.AnalyzeFunc
	if analyzer != nil {
		// Bind the candidate list so the interpreter sees a pure
		// utterance -> result function
		analyze = func(userInput string) (intent.Result, error) {
			return analyzer.Analyze(userInput, DefaultIntents)
		}
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)

	return &AgentSystem{
		Script:      script,
		Interpreter: eval.NewInterpreter(script, analyze),
		Contexts:    runtime.NewContextRegistry(),
		log:         log,
	}
}

// StartConversation begins a fresh conversation for the user: the
// session's context is cleared and the script runs from its entry step
// until it first needs input (or finishes).
//
// Parameters:
//   - userID: The session id
//
// Returns:
//   - eval.Result: The opening output, normally waiting_input
func (a *AgentSystem) StartConversation(userID string) eval.Result {
	ctx := a.Contexts.Get(userID)
	ctx.Clear()
	return a.ProcessInput(userID, "")
}

// ProcessInput advances the user's conversation. A non-empty userInput is
// buffered into the session's single pending-input slot (and mirrored
// into the last_input variable) before execution; an empty userInput
// simply re-runs the session from its continuation, which is idempotent
// while the session is waiting for input.
//
// Parameters:
//   - userID: The session id
//   - userInput: The user's utterance, or "" to continue without input
//
// Returns:
//   - eval.Result: The interpreter's result, verbatim
func (a *AgentSystem) ProcessInput(userID string, userInput string) eval.Result {
	ctx := a.Contexts.Get(userID)

	if userInput != "" {
		ctx.SetPendingInput(userInput)
		ctx.SetVariable("last_input", &objects.String{Value: userInput})
		a.record(userID, "user", userInput)
	}

	// The callback drains the pending slot at most once; a second listen
	// in the same run finds it empty and suspends
	inputCallback := func() string {
		if pending, ok := ctx.GetAndConsumeInput(); ok {
			return pending
		}
		return ""
	}

	result := a.Interpreter.Execute(ctx, inputCallback, 0)

	if result.Message != "" {
		a.record(userID, "system", result.Message)
	}
	return result
}

// EndConversation evicts the user's session entirely. The next
// ProcessInput for the same id starts from a fresh context.
func (a *AgentSystem) EndConversation(userID string) {
	a.Contexts.Remove(userID)
}

// record appends to the transcript store when one is attached.
func (a *AgentSystem) record(userID, role, text string) {
	if a.Recorder == nil {
		return
	}
	if err := a.Recorder.Record(userID, role, text); err != nil {
		a.log.Warnf("failed to record transcript for %s: %v", userID, err)
	}
}
