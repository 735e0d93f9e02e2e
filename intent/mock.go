/*
File    : go-flow/intent/mock.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package intent

import (
	"fmt"
	"strings"
)

// MockAnalyzer is a keyword-based classifier used by tests and by the
// --mock CLI flag. It never touches the network and ignores the candidate
// list: matching runs over its own keyword table, checked in priority
// order so the most specific intent wins.
type MockAnalyzer struct {
	// Keywords maps each intent label to the substrings that trigger it
	Keywords map[string][]string
	// Priority orders the intents from most to least specific
	Priority []string
}

// NewMockAnalyzer creates a mock classifier with the built-in customer
// service keyword table.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{
		Keywords: map[string][]string{
			"logistics_inquiry":    {"logistics", "shipping", "delivery", "courier", "package"},
			"refund_request":       {"refund", "return", "money back"},
			"order_inquiry":        {"order", "purchase", "status"},
			"product_consult":      {"product", "item", "details", "tell me about"},
			"complaint_suggestion": {"complaint", "complain", "suggest", "feedback", "unhappy"},
		},
		// logistics before order: "track my order delivery" is a
		// logistics question even though it mentions an order
		Priority: []string{
			"logistics_inquiry",
			"refund_request",
			"order_inquiry",
			"product_consult",
			"complaint_suggestion",
		},
	}
}

// Analyze scans the utterance for keywords, checking intents in priority
// order. An unmatched utterance yields intent "unknown" with confidence 0.
func (m *MockAnalyzer) Analyze(userInput string, intents []string) (Result, error) {
	inputLower := strings.ToLower(userInput)

	matched := "unknown"
	confidence := 0.0

	for _, intent := range m.Priority {
		if containsAny(inputLower, m.Keywords[intent]) {
			matched = intent
			confidence = 0.8
			break
		}
	}

	// Cover table entries that are not in the priority list
	if matched == "unknown" {
		for intent, keywords := range m.Keywords {
			if inPriority(m.Priority, intent) {
				continue
			}
			if containsAny(inputLower, keywords) {
				matched = intent
				confidence = 0.8
				break
			}
		}
	}

	return Result{
		Intent:      matched,
		Confidence:  confidence,
		Entities:    map[string]string{},
		RawResponse: fmt.Sprintf("mock analysis for: %s", userInput),
	}, nil
}

// containsAny reports whether any of the keywords occurs in the input.
func containsAny(input string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(input, keyword) {
			return true
		}
	}
	return false
}

// inPriority reports whether the intent appears in the priority list.
func inPriority(priority []string, intent string) bool {
	for _, p := range priority {
		if p == intent {
			return true
		}
	}
	return false
}
