/*
File    : go-flow/eval/statements.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package eval

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/akashmaji946/go-flow/objects"
	"github.com/akashmaji946/go-flow/parser"
	"github.com/akashmaji946/go-flow/runtime"
)

// InterpreterError is a fault raised by a statement handler. Token is the
// short machine token surfaced on the error Result; Message is the human
// description.
type InterpreterError struct {
	Token   string // Short machine token, e.g. "invalid_condition"
	Message string // Human-readable description
}

// Error returns the human-readable description.
func (e *InterpreterError) Error() string {
	return e.Message
}

// machineToken extracts the machine token from an interpreter fault,
// falling back to a generic token for unexpected errors.
func machineToken(err error) string {
	if ie, ok := err.(*InterpreterError); ok {
		return ie.Token
	}
	return "interpreter_error"
}

// placeholderPattern matches ${name} variable placeholders in speak
// messages.
var placeholderPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// conditionPattern parses the canonical branch condition text
// `<var> <op> <operand>` where the operand is a quoted string, a bare
// identifier, or a number.
var conditionPattern = regexp.MustCompile(`^(\w+)\s*(==|!=)\s*("[^"]*"|'[^']*'|[\w.]+)$`)

// executeStatement dispatches one statement to its handler.
//
// A nil Result with a nil error means the statement completed with
// nothing to report (a set, or a branch whose condition was false) and
// the step driver should continue with the next statement.
func (ip *Interpreter) executeStatement(statement parser.StatementNode, ctx *runtime.ExecutionContext, input InputCallback) (*Result, error) {
	switch node := statement.(type) {
	case *parser.SpeakNode:
		return ip.executeSpeak(node, ctx)
	case *parser.ListenNode:
		return ip.executeListen(node, ctx, input)
	case *parser.BranchNode:
		return ip.executeBranch(node, ctx)
	case *parser.SetNode:
		return ip.executeSet(node, ctx)
	case *parser.EndNode:
		return ip.executeEnd(node)
	default:
		return nil, &InterpreterError{
			Token:   "unknown_statement",
			Message: fmt.Sprintf("unknown statement type %T", statement),
		}
	}
}

// executeSpeak interpolates the message and reports it as running output.
func (ip *Interpreter) executeSpeak(node *parser.SpeakNode, ctx *runtime.ExecutionContext) (*Result, error) {
	return &Result{
		Status:  StatusRunning,
		Message: ip.substituteVariables(node.Message, ctx),
	}, nil
}

// executeListen drains the pending-input slot through the callback.
//
// With no callback, or when the callback yields an empty (or
// whitespace-only) string, the listen suspends: the step driver saves the
// continuation and the session waits for the user. With input available,
// the raw utterance is stored into the target variable and the intent
// gate decides whether to classify it; classifier output is merged into
// the variable table, with the label stored again under "user_intent".
// A classifier failure is swallowed, leaving user_intent at "unknown"
// unless a previous classification already set it.
func (ip *Interpreter) executeListen(node *parser.ListenNode, ctx *runtime.ExecutionContext, input InputCallback) (*Result, error) {
	waiting := &Result{
		Status:   StatusWaitingInput,
		Message:  WAITING_MESSAGE,
		Variable: node.Variable,
	}

	if input == nil {
		return waiting, nil
	}

	userInput := input()
	if strings.TrimSpace(userInput) == "" {
		// Nothing buffered: suspend here rather than spin
		return waiting, nil
	}

	// Store the raw utterance first; classification only adds to it
	ctx.SetVariable(node.Variable, &objects.String{Value: userInput})

	if ip.Analyze != nil && ShouldClassify(node.Variable, userInput) {
		res, err := ip.Analyze(userInput)
		if err != nil {
			log.Debugf("intent classification failed for %q: %v", userInput, err)
			if _, ok := ctx.GetVariable("user_intent"); !ok {
				ctx.SetVariable("user_intent", &objects.String{Value: "unknown"})
			}
		} else {
			ctx.SetVariable("intent", &objects.String{Value: res.Intent})
			ctx.SetVariable("confidence", &objects.Float{Value: res.Confidence})
			for key, value := range res.Entities {
				ctx.SetVariable(key, &objects.String{Value: value})
			}
			if res.RawResponse != "" {
				ctx.SetVariable("raw_response", &objects.String{Value: res.RawResponse})
			}
			ctx.SetVariable("user_intent", &objects.String{Value: res.Intent})
			log.Debugf("input %q -> intent %q (confidence %.2f)", userInput, res.Intent, res.Confidence)
		}
	} else {
		// Not classified: make sure user_intent exists without
		// clobbering a value from an earlier listen
		if _, ok := ctx.GetVariable("user_intent"); !ok {
			ctx.SetVariable("user_intent", &objects.String{Value: "unknown"})
		}
	}

	return &Result{Status: StatusRunning}, nil
}

// dataFields are variable names that receive structured data (ids,
// free-text fields, contact info) rather than utterances worth
// classifying.
var dataFields = map[string]bool{
	"order_id":             true,
	"complaint_id":         true,
	"complaint_content":    true,
	"suggestion_content":   true,
	"contact_info":         true,
	"refund_reason":        true,
	"refund_reason_code":   true,
	"refund_reason_detail": true,
	"logistics_number":     true,
	"confirm":              true,
}

// ShouldClassify is the heuristic gate deciding whether a listen's input
// goes through intent classification. It is a domain heuristic over the
// target variable name and the raw input, kept separate from the
// interpreter control flow so it can be swapped without touching it.
//
// The rules, in order:
//   - Names containing "input" or "intent" (case-insensitive): classify.
//   - Known data-field names (order id, content fields, contact info,
//     ...): do not classify - except refund_reason* fields holding a
//     non-numeric reason phrase, which are worth classifying.
//   - A single digit 1-9 is a menu choice: classify. Any other
//     pure-digit input is data: do not classify.
//   - Otherwise classify only if the name contains "user" or "input".
func ShouldClassify(variableName string, userInput string) bool {
	nameLower := strings.ToLower(variableName)
	trimmed := strings.TrimSpace(userInput)

	if strings.Contains(nameLower, "input") || strings.Contains(nameLower, "intent") {
		return true
	}

	if dataFields[nameLower] {
		if isDigits(trimmed) {
			return false
		}
		// A reason phrase like "quality issue" typed where a reason
		// code was expected still carries an intent
		if strings.HasPrefix(nameLower, "refund_reason") {
			return true
		}
		return false
	}

	if isDigits(trimmed) {
		// A single 1-9 digit is a menu selection
		return len(trimmed) == 1 && trimmed[0] >= '1' && trimmed[0] <= '9'
	}

	return strings.Contains(nameLower, "user") || strings.Contains(nameLower, "input")
}

// isDigits reports whether s is non-empty and consists only of ASCII
// digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// executeBranch evaluates the canonical condition text and reports the
// jump target when it holds.
//
// The left operand is always a variable lookup. The right operand is
// resolved from its textual form: a quoted token is the literal string
// inside the quotes; a bare identifier is first tried as a variable, then
// as a number, then taken as plain text; a number token is the parsed
// number. Both sides are compared by their string forms, so a branch
// `n == "1"` fires after `set n = 1`.
func (ip *Interpreter) executeBranch(node *parser.BranchNode, ctx *runtime.ExecutionContext) (*Result, error) {
	match := conditionPattern.FindStringSubmatch(strings.TrimSpace(node.Condition))
	if match == nil {
		return nil, &InterpreterError{
			Token:   "invalid_condition",
			Message: fmt.Sprintf("invalid branch condition: %s", node.Condition),
		}
	}

	varName := match[1]
	operator := match[2]
	operandText := match[3]

	left := ""
	if value, ok := ctx.GetVariable(varName); ok {
		left = value.ToString()
	}

	right := resolveOperand(operandText, ctx)

	var conditionMet bool
	switch operator {
	case "==":
		conditionMet = left == right
	case "!=":
		conditionMet = left != right
	default:
		return nil, &InterpreterError{
			Token:   "unsupported_operator",
			Message: fmt.Sprintf("unsupported operator: %s", operator),
		}
	}

	if conditionMet {
		return &Result{
			Status:   StatusRunning,
			NextStep: node.TargetStep,
		}, nil
	}

	// Condition false: fall through to the next statement
	return nil, nil
}

// resolveOperand turns the textual right-hand operand of a condition into
// the string form used for comparison.
func resolveOperand(text string, ctx *runtime.ExecutionContext) string {
	// Quoted operand: the literal string between the quotes
	if len(text) >= 2 {
		if (text[0] == '"' && text[len(text)-1] == '"') ||
			(text[0] == '\'' && text[len(text)-1] == '\'') {
			return text[1 : len(text)-1]
		}
	}

	// Bare identifier: variable lookup first
	if value, ok := ctx.GetVariable(text); ok {
		return value.ToString()
	}

	// Then numeric: normalize through the number parser so "1.50"
	// compares equal to a stored 1.5
	if strings.Contains(text, ".") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return (&objects.Float{Value: f}).ToString()
		}
	} else {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return (&objects.Integer{Value: i}).ToString()
		}
	}

	// Fall back to the identifier text itself
	return text
}

// executeSet assigns the statement's value to the variable. A string
// value that names a defined variable copies that variable's current
// value instead of the literal text.
func (ip *Interpreter) executeSet(node *parser.SetNode, ctx *runtime.ExecutionContext) (*Result, error) {
	value := node.Value
	if str, ok := value.(*objects.String); ok {
		if current, defined := ctx.GetVariable(str.Value); defined {
			value = current
		}
	}
	ctx.SetVariable(node.Variable, value)
	return nil, nil
}

// executeEnd terminates the flow.
func (ip *Interpreter) executeEnd(node *parser.EndNode) (*Result, error) {
	return &Result{
		Status:  StatusFinished,
		Message: "conversation finished",
	}, nil
}

// substituteVariables replaces each ${name} placeholder in the text with
// the string form of the named variable. Placeholders whose variable is
// absent are left in place literally.
func (ip *Interpreter) substituteVariables(text string, ctx *runtime.ExecutionContext) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(placeholder string) string {
		name := placeholder[2 : len(placeholder)-1]
		if value, ok := ctx.GetVariable(name); ok {
			return value.ToString()
		}
		return placeholder
	})
}
