/*
File    : go-flow/intent/analyzer_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAnalyzer_KeywordMatching(t *testing.T) {

	tests := []struct {
		Input      string
		WantIntent string
	}{
		{Input: "where is my order", WantIntent: "order_inquiry"},
		{Input: "I want a refund", WantIntent: "refund_request"},
		{Input: "please return my money back", WantIntent: "refund_request"},
		{Input: "when does the courier arrive", WantIntent: "logistics_inquiry"},
		{Input: "tell me about this product", WantIntent: "product_consult"},
		{Input: "I have a complaint", WantIntent: "complaint_suggestion"},
		{Input: "blah blah", WantIntent: "unknown"},
	}

	mock := NewMockAnalyzer()
	for _, test := range tests {
		result, err := mock.Analyze(test.Input, nil)
		require.NoError(t, err)
		assert.Equal(t, test.WantIntent, result.Intent, "input: %s", test.Input)
		if test.WantIntent == "unknown" {
			assert.Equal(t, 0.0, result.Confidence)
		} else {
			assert.Equal(t, 0.8, result.Confidence)
		}
		assert.NotNil(t, result.Entities)
	}
}

func TestMockAnalyzer_PriorityOrder(t *testing.T) {
	mock := NewMockAnalyzer()

	// mentions both an order and its delivery: logistics is more
	// specific and must win
	result, err := mock.Analyze("track my order delivery", nil)
	require.NoError(t, err)
	assert.Equal(t, "logistics_inquiry", result.Intent)
}

func TestMockAnalyzer_CaseInsensitive(t *testing.T) {
	mock := NewMockAnalyzer()

	result, err := mock.Analyze("REFUND NOW", nil)
	require.NoError(t, err)
	assert.Equal(t, "refund_request", result.Intent)
}

func TestParseResponse_ValidJSON(t *testing.T) {
	content := `{"intent": "order_inquiry", "confidence": 0.92, "entities": {"order_id": "1001", "count": 2}}`

	result := parseResponse(content, nil)
	assert.Equal(t, "order_inquiry", result.Intent)
	assert.Equal(t, 0.92, result.Confidence)
	// entity values are stringified regardless of their JSON type
	assert.Equal(t, "1001", result.Entities["order_id"])
	assert.Equal(t, "2", result.Entities["count"])
}

func TestParseResponse_InvalidJSONFallsBackToKeywords(t *testing.T) {
	content := "The user most likely wants refund_request here."

	result := parseResponse(content, []string{"order_inquiry", "refund_request"})
	assert.Equal(t, "refund_request", result.Intent)
	assert.Equal(t, 0.7, result.Confidence)
}

func TestParseResponse_InvalidJSONNoMatch(t *testing.T) {
	result := parseResponse("gibberish", []string{"order_inquiry"})
	assert.Equal(t, "unknown", result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestNormalizeResult_Invariants(t *testing.T) {
	// confidence is clamped to [0, 1]
	result := normalizeResult(rawResult{Intent: "x", Confidence: 1.7})
	assert.Equal(t, 1.0, result.Confidence)

	result = normalizeResult(rawResult{Intent: "x", Confidence: -0.3})
	assert.Equal(t, 0.0, result.Confidence)

	// a missing intent becomes "unknown", entities are never nil
	result = normalizeResult(rawResult{})
	assert.Equal(t, "unknown", result.Intent)
	assert.NotNil(t, result.Entities)
}

func TestNewLLMAnalyzer_RequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewLLMAnalyzer("", "", "")
	assert.Error(t, err)
}

func TestNewLLMAnalyzer_Defaults(t *testing.T) {
	analyzer, err := NewLLMAnalyzer("sk-test", "", "")
	require.NoError(t, err)
	assert.Equal(t, DEFAULT_MODEL, analyzer.Model)

	analyzer, err = NewLLMAnalyzer("sk-test", "https://api.example.com/v1", "my-model")
	require.NoError(t, err)
	assert.Equal(t, "my-model", analyzer.Model)
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("where is my order", []string{"order_inquiry", "refund_request"})
	assert.Contains(t, prompt, "User input: where is my order")
	assert.Contains(t, prompt, "order_inquiry, refund_request")
	assert.Contains(t, prompt, `"intent"`)

	// candidate list is optional
	prompt = buildPrompt("hi", nil)
	assert.NotContains(t, prompt, "Possible intents")
}
