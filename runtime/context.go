/*
File    : go-flow/runtime/context.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package runtime holds the per-session mutable state of the interpreter:
// the ExecutionContext that carries one user's variables and dialog
// position, and the ContextRegistry that maps session ids to contexts.
//
// The script AST itself is immutable and shared; everything that changes
// while a conversation runs lives here, behind per-context locks.
package runtime

import (
	"fmt"
	"sync"

	"github.com/akashmaji946/go-flow/objects"
)

// ExecutionContext maintains one user's private execution state:
// the variable table, the current step, the statement index to resume at,
// and a single-slot pending input consumed exactly once.
//
// All fields are protected by the context's own mutex. A context is only
// ever driven by one goroutine at a time (one session, one call), but the
// mutex keeps each individual operation safe regardless of the caller.
//
// The (current step, statement index) pair is the session's continuation:
// the interpreter persists it on every waiting_input return and re-enters
// at exactly that statement when input arrives.
type ExecutionContext struct {
	UserID string // Opaque session id, set at construction, never mutated

	mu             sync.Mutex                    // Guards everything below
	variables      map[string]objects.FlowObject // Variable table
	currentStep    string                        // Current step name; "" until first execution
	statementIndex int                           // Resume position within the current step
	pendingInput   string                        // At most one buffered user utterance
	inputUsed      bool                          // Whether pendingInput has been consumed
}

// NewExecutionContext creates a fresh context for the given session id.
//
// Parameters:
//   - userID: Opaque session identifier
//
// Returns:
//   - *ExecutionContext: An empty context ready for its first execution
func NewExecutionContext(userID string) *ExecutionContext {
	return &ExecutionContext{
		UserID:    userID,
		variables: make(map[string]objects.FlowObject),
	}
}

// SetVariable stores a value under the given name, replacing any previous
// value.
func (ctx *ExecutionContext) SetVariable(name string, value objects.FlowObject) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.variables[name] = value
}

// GetVariable returns the value stored under name. The boolean reports
// whether the variable exists at all, so an empty string stored in a
// variable is distinguishable from an absent one.
func (ctx *ExecutionContext) GetVariable(name string) (objects.FlowObject, bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	value, ok := ctx.variables[name]
	return value, ok
}

// SetCurrentStep records the step the session is positioned in.
func (ctx *ExecutionContext) SetCurrentStep(stepName string) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.currentStep = stepName
}

// CurrentStep returns the step the session is positioned in, or "" if the
// session has not executed yet.
func (ctx *ExecutionContext) CurrentStep() string {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.currentStep
}

// SetStatementIndex records the statement offset within the current step
// at which the next execution will resume.
func (ctx *ExecutionContext) SetStatementIndex(index int) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.statementIndex = index
}

// StatementIndex returns the resume offset within the current step
// (default 0).
func (ctx *ExecutionContext) StatementIndex() int {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.statementIndex
}

// SetPendingInput buffers one user utterance and marks it unconsumed.
// A second call before the first input is consumed overwrites the slot.
func (ctx *ExecutionContext) SetPendingInput(userInput string) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.pendingInput = userInput
	ctx.inputUsed = false
}

// GetAndConsumeInput returns the buffered input exactly once.
// After a successful return, subsequent calls report no input until the
// next SetPendingInput.
//
// Returns:
//   - string: The buffered utterance, if any
//   - bool: Whether an unconsumed utterance was available
func (ctx *ExecutionContext) GetAndConsumeInput() (string, bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if ctx.pendingInput != "" && !ctx.inputUsed {
		ctx.inputUsed = true
		return ctx.pendingInput, true
	}
	return "", false
}

// Clear resets the context to its initial state: variables, step pointer,
// resume index, and the input buffer are all dropped. The driver calls
// this when a new conversation starts for the session.
func (ctx *ExecutionContext) Clear() {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.variables = make(map[string]objects.FlowObject)
	ctx.currentStep = ""
	ctx.statementIndex = 0
	ctx.pendingInput = ""
	ctx.inputUsed = false
}

// String returns a compact description of the context for debugging.
func (ctx *ExecutionContext) String() string {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return fmt.Sprintf("ExecutionContext(user=%s, step=%s, vars=%d)",
		ctx.UserID, ctx.currentStep, len(ctx.variables))
}
