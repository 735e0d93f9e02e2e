/*
File    : go-flow/parser/parser.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

/*
Package parser implements a recursive-descent parser for GoFlow dialog
scripts.

The parser converts a stream of tokens from the lexer into an Abstract
Syntax Tree (AST). The grammar is small and line-oriented:

	script    := step*
	step      := 'step' IDENT '{' statement* '}'
	statement := speak | listen | branch | set | end
	speak     := 'speak' STRING
	listen    := 'listen' IDENT
	branch    := 'branch' IDENT ('=='|'!=') operand '->' IDENT
	operand   := STRING | IDENT | NUMBER
	set       := 'set' IDENT '=' (STRING | NUMBER | IDENT)
	end       := 'end'

Newlines separate statements and are skipped freely between them. Parsing
fails fast: the first grammar violation aborts with a single ParseError
carrying the offending token's line and column. A duplicate step name is
rejected as soon as the second step with that name is parsed; after the
step list is built, dangling branch targets are rejected, so a script that
loads is guaranteed internally consistent.
*/
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akashmaji946/go-flow/lexer"
	"github.com/akashmaji946/go-flow/objects"
)

// ParseError is the single diagnostic produced by a failed parse.
// It carries the source position of the token that violated the grammar.
type ParseError struct {
	Message string // What was expected or found
	Line    int    // 1-based line of the offending token
	Column  int    // 1-based column of the offending token
}

// Error formats the diagnostic in the [line:column] style used across
// the interpreter.
func (e *ParseError) Error() string {
	return fmt.Sprintf("[%d:%d] PARSER ERROR: %s", e.Line, e.Column, e.Message)
}

// Parser represents the parser state. It pulls tokens from the lexer on
// demand and keeps one token of lookahead.
type Parser struct {
	Lex       lexer.Lexer // Lexer instance for tokenizing source code
	CurrToken lexer.Token // Current token being processed
	NextToken lexer.Token // Next token (for lookahead)
}

// NewParser creates and initializes a new Parser instance for the given
// script source. The parser is ready to use immediately after creation;
// call Parse() to build the AST.
//
// Parameters:
//
//	src - The GoFlow script source to parse
//
// Returns:
//
//	A pointer to a fully initialized Parser instance
func NewParser(src string) *Parser {
	par := &Parser{
		Lex: lexer.NewLexer(src),
	}

	// Prime the token lookahead by advancing twice.
	// After this, CurrToken and NextToken are both valid.
	par.advance()
	par.advance()

	return par
}

// advance moves the parser forward by one token.
// This implements the token lookahead mechanism:
// - CurrToken becomes NextToken
// - NextToken is fetched from the lexer
func (par *Parser) advance() {
	par.CurrToken = par.NextToken
	par.NextToken = par.Lex.NextToken()
}

// skipNewlines consumes any run of NEWLINE tokens. The grammar treats
// newlines purely as statement separators, so they can be skipped freely
// wherever a step or statement boundary is legal.
func (par *Parser) skipNewlines() {
	for par.CurrToken.Type == lexer.NEWLINE_TYPE {
		par.advance()
	}
}

// expect checks that the current token has the expected type, consumes it,
// and returns it. If the type differs, it returns a ParseError positioned
// at the current token.
//
// Parameters:
//
//	expected - The token type required by the grammar at this point
//	what     - Human description used in the diagnostic, e.g. "step name"
//
// Returns:
//
//	The consumed token, or an error describing what was found instead
func (par *Parser) expect(expected lexer.TokenType, what string) (lexer.Token, error) {
	tok := par.CurrToken
	if tok.Type != expected {
		return tok, par.errorf("expected %s, got %s", what, describe(tok))
	}
	par.advance()
	return tok, nil
}

// errorf builds a ParseError at the current token's position.
func (par *Parser) errorf(format string, a ...interface{}) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, a...),
		Line:    par.CurrToken.Line,
		Column:  par.CurrToken.Column,
	}
}

// describe renders a token for use in diagnostics.
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF_TYPE:
		return "end of file"
	case lexer.NEWLINE_TYPE:
		return "end of line"
	case lexer.INVALID_TYPE:
		return fmt.Sprintf("invalid character %q", tok.Literal)
	default:
		return fmt.Sprintf("%s (%q)", tok.Type, tok.Literal)
	}
}

// Parse is the main parsing function that converts the source into an AST.
// It repeatedly parses step blocks until end of file, rejecting a step whose
// name is already taken as soon as it is parsed, then validates the script
// as a whole: every branch target must name a defined step.
//
// Returns:
//
//	A pointer to the immutable ScriptNode, or the first ParseError hit
//
// Example:
//
//	script, err := NewParser(src).Parse()
func (par *Parser) Parse() (*ScriptNode, error) {

	script := &ScriptNode{
		Steps:   make([]*StepNode, 0),
		StepMap: make(map[string]*StepNode),
	}

	par.skipNewlines()

	// Parse step blocks until we reach the end of file
	for par.CurrToken.Type != lexer.EOF_TYPE {
		if par.CurrToken.Type != lexer.STEP_KEY {
			return nil, par.errorf("expected 'step', got %s", describe(par.CurrToken))
		}
		step, err := par.parseStep()
		if err != nil {
			return nil, err
		}
		if _, exists := script.StepMap[step.Name]; exists {
			return nil, &ParseError{
				Message: fmt.Sprintf("duplicate step name '%s'", step.Name),
				Line:    step.LineNumber,
				Column:  1,
			}
		}
		script.Steps = append(script.Steps, step)
		script.StepMap[step.Name] = step
		par.skipNewlines()
	}

	// Every branch must jump to a step that exists
	for _, step := range script.Steps {
		for _, stmt := range step.Statements {
			if branch, ok := stmt.(*BranchNode); ok {
				if script.GetStep(branch.TargetStep) == nil {
					return nil, &ParseError{
						Message: fmt.Sprintf("branch target step '%s' is not defined", branch.TargetStep),
						Line:    branch.LineNumber,
						Column:  1,
					}
				}
			}
		}
	}

	return script, nil
}

// parseStep parses one step block:
//
//	step <name> { statement* }
func (par *Parser) parseStep() (*StepNode, error) {
	stepToken, err := par.expect(lexer.STEP_KEY, "'step' keyword")
	if err != nil {
		return nil, err
	}

	nameToken, err := par.expect(lexer.IDENTIFIER_ID, "step name")
	if err != nil {
		return nil, err
	}

	par.skipNewlines()

	if _, err := par.expect(lexer.LEFT_BRACE, "'{' after step name"); err != nil {
		return nil, err
	}
	par.skipNewlines()

	statements := make([]StatementNode, 0)
	for par.CurrToken.Type != lexer.RIGHT_BRACE {
		var stmt StatementNode
		var err error

		switch par.CurrToken.Type {
		case lexer.SPEAK_KEY:
			stmt, err = par.parseSpeak()
		case lexer.LISTEN_KEY:
			stmt, err = par.parseListen()
		case lexer.BRANCH_KEY:
			stmt, err = par.parseBranch()
		case lexer.SET_KEY:
			stmt, err = par.parseSet()
		case lexer.END_KEY:
			stmt, err = par.parseEnd()
		case lexer.EOF_TYPE:
			return nil, par.errorf("expected '}' to close step '%s', got end of file", nameToken.Literal)
		default:
			return nil, par.errorf("expected a statement, got %s", describe(par.CurrToken))
		}
		if err != nil {
			return nil, err
		}

		statements = append(statements, stmt)
		par.skipNewlines()
	}

	// Consume the closing brace
	par.advance()

	return &StepNode{
		Name:       nameToken.Literal,
		Statements: statements,
		LineNumber: stepToken.Line,
	}, nil
}

// parseSpeak parses: speak STRING
func (par *Parser) parseSpeak() (*SpeakNode, error) {
	speakToken, err := par.expect(lexer.SPEAK_KEY, "'speak' keyword")
	if err != nil {
		return nil, err
	}

	stringToken, err := par.expect(lexer.STRING_LIT, "string after 'speak'")
	if err != nil {
		return nil, err
	}

	return &SpeakNode{
		Message:    stringToken.Literal,
		LineNumber: speakToken.Line,
	}, nil
}

// parseListen parses: listen IDENT
func (par *Parser) parseListen() (*ListenNode, error) {
	listenToken, err := par.expect(lexer.LISTEN_KEY, "'listen' keyword")
	if err != nil {
		return nil, err
	}

	varToken, err := par.expect(lexer.IDENTIFIER_ID, "variable name after 'listen'")
	if err != nil {
		return nil, err
	}

	return &ListenNode{
		Variable:   varToken.Literal,
		LineNumber: listenToken.Line,
	}, nil
}

// parseBranch parses: branch IDENT ('=='|'!=') operand '->' IDENT
//
// The condition is canonicalized into the textual form
// `<var> <op> <operand>`. String operands keep their quotes in the
// canonical text so the evaluator can tell a literal from an identifier.
func (par *Parser) parseBranch() (*BranchNode, error) {
	branchToken, err := par.expect(lexer.BRANCH_KEY, "'branch' keyword")
	if err != nil {
		return nil, err
	}

	leftToken, err := par.expect(lexer.IDENTIFIER_ID, "variable name in branch condition")
	if err != nil {
		return nil, err
	}

	var op string
	switch par.CurrToken.Type {
	case lexer.EQ_OP:
		op = "=="
	case lexer.NE_OP:
		op = "!="
	default:
		return nil, par.errorf("expected '==' or '!=' in branch condition, got %s", describe(par.CurrToken))
	}
	par.advance()

	var right string
	switch par.CurrToken.Type {
	case lexer.STRING_LIT:
		right = `"` + par.CurrToken.Literal + `"`
	case lexer.IDENTIFIER_ID, lexer.NUMBER_LIT:
		right = par.CurrToken.Literal
	default:
		return nil, par.errorf("expected value in branch condition, got %s", describe(par.CurrToken))
	}
	par.advance()

	if _, err := par.expect(lexer.ARROW_OP, "'->' after branch condition"); err != nil {
		return nil, err
	}

	targetToken, err := par.expect(lexer.IDENTIFIER_ID, "target step name after '->'")
	if err != nil {
		return nil, err
	}

	return &BranchNode{
		Condition:  fmt.Sprintf("%s %s %s", leftToken.Literal, op, right),
		TargetStep: targetToken.Literal,
		LineNumber: branchToken.Line,
	}, nil
}

// parseSet parses: set IDENT '=' (STRING | NUMBER | IDENT)
//
// Value typing: a STRING token becomes a string value; a NUMBER token
// containing '.' becomes a float, otherwise an integer; a bare identifier
// is stored as a string naming a variable, resolved at execution time.
func (par *Parser) parseSet() (*SetNode, error) {
	setToken, err := par.expect(lexer.SET_KEY, "'set' keyword")
	if err != nil {
		return nil, err
	}

	varToken, err := par.expect(lexer.IDENTIFIER_ID, "variable name after 'set'")
	if err != nil {
		return nil, err
	}

	if _, err := par.expect(lexer.ASSIGN_OP, "'=' after variable name"); err != nil {
		return nil, err
	}

	var value objects.FlowObject
	valueToken := par.CurrToken
	switch valueToken.Type {
	case lexer.STRING_LIT, lexer.IDENTIFIER_ID:
		value = &objects.String{Value: valueToken.Literal}
	case lexer.NUMBER_LIT:
		value = parseNumberValue(valueToken.Literal)
	default:
		return nil, par.errorf("expected value after '=', got %s", describe(valueToken))
	}
	par.advance()

	return &SetNode{
		Variable:   varToken.Literal,
		Value:      value,
		LineNumber: setToken.Line,
	}, nil
}

// parseEnd parses: end
func (par *Parser) parseEnd() (*EndNode, error) {
	endToken, err := par.expect(lexer.END_KEY, "'end' keyword")
	if err != nil {
		return nil, err
	}
	return &EndNode{LineNumber: endToken.Line}, nil
}

// parseNumberValue converts a NUMBER_LIT literal into a value object.
// A literal containing '.' becomes a Float, anything else an Integer;
// text the lexer let through that fails to convert falls back to a
// String holding the raw literal.
func parseNumberValue(literal string) objects.FlowObject {
	if strings.Contains(literal, ".") {
		if f, err := strconv.ParseFloat(literal, 64); err == nil {
			return &objects.Float{Value: f}
		}
	} else {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return &objects.Integer{Value: i}
		}
	}
	return &objects.String{Value: literal}
}
