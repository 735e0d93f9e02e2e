/*
File    : go-flow/eval/result.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package eval

// Status classifies the outcome of one Execute call (or, internally, of
// one statement).
type Status string

const (
	// StatusRunning means execution produced output and would continue;
	// only statement handlers return it, a completed Execute never does
	StatusRunning Status = "running"
	// StatusWaitingInput means execution paused at a listen statement
	// and will resume there once input is buffered
	StatusWaitingInput Status = "waiting_input"
	// StatusFinished means the flow reached an end statement or ran off
	// the end of its step
	StatusFinished Status = "finished"
	// StatusError means execution failed; Err carries the machine token
	StatusError Status = "error"
)

// Result describes what one interpreter call produced: what to display,
// whether more input is required and for which variable, and any error.
//
// Fields:
//   - Status: Outcome class (running / waiting_input / finished / error)
//   - Message: Human-readable output, possibly multi-line (newline-joined
//     speak utterances)
//   - NextStep: Set on internal statement results when a branch fires;
//     empty on results returned from Execute
//   - Variable: On waiting_input, the variable the pending listen targets
//   - Err: On error, a short machine token describing the fault
type Result struct {
	Status   Status
	Message  string
	NextStep string
	Variable string
	Err      string
}
