/*
File    : go-flow/lexer/token.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package lexer

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token in a GoFlow dialog script.
// It is defined as a string to allow for easy comparison and debugging.
// Each token type corresponds to a specific syntactic element of the script
// language, such as keywords, literals, or structural symbols.
type TokenType string

// TokenType Constants:
// These constants define all possible token types in the GoFlow script
// language. They are organized into logical groups for clarity.
const (
	// Special Types
	// EOF_TYPE marks the end of the input stream
	EOF_TYPE TokenType = "EOF"
	// INVALID_TYPE represents an unrecognized byte in the source
	INVALID_TYPE TokenType = "INVALID"
	// NEWLINE_TYPE is emitted for every '\n'; the parser skips these
	// between statements
	NEWLINE_TYPE TokenType = "NEWLINE"

	// Keywords
	// Statement keywords of the dialog script language
	STEP_KEY   TokenType = "step"   // Step declaration keyword
	SPEAK_KEY  TokenType = "speak"  // Utterance output keyword
	LISTEN_KEY TokenType = "listen" // User input keyword
	BRANCH_KEY TokenType = "branch" // Conditional jump keyword
	SET_KEY    TokenType = "set"    // Variable assignment keyword
	END_KEY    TokenType = "end"    // Flow termination keyword

	// Identifiers and Literals
	IDENTIFIER_ID TokenType = "Identifier"    // User-defined identifier (step/variable name)
	STRING_LIT    TokenType = "StringLiteral" // String literal (e.g., "hello")
	NUMBER_LIT    TokenType = "NumberLiteral" // Number literal (e.g., 42, 3.14)

	// Structural Tokens
	LEFT_BRACE  TokenType = "{" // Left brace - opens a step body
	RIGHT_BRACE TokenType = "}" // Right brace - closes a step body

	// Operators
	ASSIGN_OP TokenType = "="  // Assignment operator in set statements
	ARROW_OP  TokenType = "->" // Jump arrow in branch statements
	EQ_OP     TokenType = "==" // Equality comparison
	NE_OP     TokenType = "!=" // Not equal comparison
)

// KEYWORDS_MAP is a lookup table that maps keyword strings to their token
// types. It is used during lexical analysis to distinguish between keywords
// (reserved words with special meaning) and regular identifiers.
//
// Keyword matching is case-insensitive: STEP, Step, and step all re-tag to
// STEP_KEY. The token's literal keeps whatever spelling the source used.
var KEYWORDS_MAP = map[string]TokenType{
	"step":   STEP_KEY,   // Step declaration
	"speak":  SPEAK_KEY,  // Utterance output
	"listen": LISTEN_KEY, // User input
	"branch": BRANCH_KEY, // Conditional jump
	"set":    SET_KEY,    // Variable assignment
	"end":    END_KEY,    // Flow termination
}

// Token represents a single lexical token in GoFlow script source.
// It contains the token's type, its literal string representation from the
// source, and metadata about its position (line and column numbers).
//
// Fields:
//   - Type: The category of the token (keyword, literal, operator, ...)
//   - Literal: The actual text from the source that this token represents
//     (for STRING_LIT the escape-decoded content, without quotes)
//   - Line: The line number where this token starts (1-indexed)
//   - Column: The column number where this token starts (1-indexed)
//
// Example:
//
//	For the source `step start` at line 3, column 1:
//	Token{Type: STEP_KEY, Literal: "step", Line: 3, Column: 1}
type Token struct {
	Type    TokenType // The type/category of this token
	Literal string    // The actual text from source code
	Line    int       // Line number in source file (1-indexed)
	Column  int       // Column number in source file (1-indexed)
}

// NewToken creates a new Token with the specified type and literal value.
// This is a basic constructor that does not set line/column metadata.
// Use NewTokenWithMetadata if position information is needed.
//
// Parameters:
//   - tokenType: The type of token to create
//   - literal: The string representation of the token from source code
//
// Returns:
//   - Token: A new token with the specified type and literal, but no position info
//
// Example:
//
//	token := NewToken(STEP_KEY, "step")
func NewToken(tokenType TokenType, literal string) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
	}
}

// NewTokenWithMetadata creates a new Token with full metadata including
// position. This constructor is used during lexical analysis to preserve
// source location information, which is essential for diagnostics.
//
// Parameters:
//   - tokenType: The type of token to create
//   - literal: The string representation of the token from source code
//   - line: The line number where the token starts (1-indexed)
//   - column: The column number where the token starts (1-indexed)
//
// Returns:
//   - Token: A new token with complete type, literal, and position information
func NewTokenWithMetadata(tokenType TokenType, literal string, line int, column int) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Line:    line,
		Column:  column,
	}
}

// Print outputs a human-readable representation of the token to standard
// output. The format is "literal:type", which shows both the actual text and
// its classification. Used for debugging.
func (tok *Token) Print() {
	fmt.Printf("%s:%v\n", tok.Literal, tok.Type)
}

// lookupIdent determines the token type for an identifier string.
// It checks (case-insensitively) whether the identifier is a reserved
// keyword by looking it up in KEYWORDS_MAP. If found, it returns the
// corresponding keyword token type; otherwise IDENTIFIER_ID.
//
// Parameters:
//   - ident: The identifier string to look up
//
// Returns:
//   - TokenType: The keyword token type if ident is a keyword, otherwise IDENTIFIER_ID
//
// Example:
//
//	lookupIdent("speak")    -> SPEAK_KEY
//	lookupIdent("Speak")    -> SPEAK_KEY
//	lookupIdent("order_id") -> IDENTIFIER_ID
func lookupIdent(ident string) TokenType {
	// Keyword matching is case-insensitive
	if tok, ok := KEYWORDS_MAP[strings.ToLower(ident)]; ok {
		return tok
	}
	// Not a keyword, so it's a user-defined identifier
	return IDENTIFIER_ID
}
