/*
File    : go-flow/intent/analyzer.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package intent provides the intent classification contract consumed by
// the interpreter, plus two implementations: an LLM-backed analyzer that
// calls an OpenAI-compatible chat endpoint, and a keyword-based mock for
// tests and offline use.
//
// The interpreter treats the classifier as a pure function from an
// utterance to {intent, confidence, entities}; everything about transport,
// credentials, and prompting stays inside this package.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Result is the normalized outcome of one classification.
// When Analyze returns a nil error, Intent is a non-empty string ("unknown"
// when undetermined), Confidence is clamped to [0, 1], and Entities is never
// nil. Alongside a non-nil error the Result is the zero value.
type Result struct {
	Intent      string            `json:"intent"`
	Confidence  float64           `json:"confidence"`
	Entities    map[string]string `json:"entities"`
	RawResponse string            `json:"-"`
}

// Analyzer is the classification contract the interpreter consumes.
// Implementations receive the raw user utterance and an optional list of
// candidate intent labels to guide the model. A returned error means the
// classification failed outright; the interpreter swallows it and falls
// back to "unknown".
type Analyzer interface {
	Analyze(userInput string, intents []string) (Result, error)
}

// DEFAULT_MODEL is the chat model used when none is configured.
const DEFAULT_MODEL = "gpt-3.5-turbo"

// log is the package logger. A truthy DEBUG_INTENT environment value
// raises it to debug level so every classification decision is traced
// to standard error.
var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if DebugEnabled() {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// DebugEnabled reports whether the DEBUG_INTENT environment variable is
// set to a truthy value (true/1/yes, case-insensitive).
func DebugEnabled() bool {
	switch strings.ToLower(os.Getenv("DEBUG_INTENT")) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// LLMAnalyzer classifies utterances by calling an OpenAI-compatible chat
// completion endpoint. It works with any service speaking that protocol
// (OpenAI, DeepSeek, a local proxy) via the BaseURL override.
type LLMAnalyzer struct {
	Client *openai.Client // Configured chat client
	Model  string         // Model name sent with every request
}

// NewLLMAnalyzer creates an analyzer for the given credentials.
// An empty apiKey falls back to the OPENAI_API_KEY environment variable,
// an empty baseURL to OPENAI_BASE_URL, and an empty model to DEFAULT_MODEL.
//
// Parameters:
//   - apiKey: API key, or "" to read OPENAI_API_KEY
//   - baseURL: Endpoint override for OpenAI-compatible services, or ""
//   - model: Model name, or "" for the default
//
// Returns:
//   - *LLMAnalyzer: A ready analyzer
//   - error: When no API key is available from any source
func NewLLMAnalyzer(apiKey, baseURL, model string) (*LLMAnalyzer, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required: set OPENAI_API_KEY or pass --api-key")
	}
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if model == "" {
		model = DEFAULT_MODEL
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &LLMAnalyzer{
		Client: openai.NewClientWithConfig(cfg),
		Model:  model,
	}, nil
}

// Analyze sends the utterance to the chat endpoint and parses the reply.
// The model is asked for a JSON object; when it answers with anything
// else, a keyword scan over the candidate intents recovers a best-effort
// result instead of failing.
//
// A transport or API failure is returned as an error so the interpreter's
// fallback path (user_intent = "unknown") can take over.
func (a *LLMAnalyzer) Analyze(userInput string, intents []string) (Result, error) {
	prompt := buildPrompt(userInput, intents)

	resp, err := a.Client.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model: a.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are an intent classification assistant for a customer service system. " +
					"Analyze the user's input, determine their intent, and reply with a JSON object only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		log.Debugf("intent classification failed: %v", err)
		return Result{}, fmt.Errorf("intent classification failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("intent classification failed: empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result := parseResponse(content, intents)
	result.RawResponse = content

	log.Debugf("input %q -> intent %q (confidence %.2f)", userInput, result.Intent, result.Confidence)
	return result, nil
}

// buildPrompt assembles the classification prompt around the utterance
// and the optional candidate list.
func buildPrompt(userInput string, intents []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User input: %s\n\n", userInput)
	if len(intents) > 0 {
		fmt.Fprintf(&b, "Possible intents: %s\n\n", strings.Join(intents, ", "))
	}
	b.WriteString(`Analyze the user's intent and reply with JSON in this form:
{
    "intent": "intent name",
    "confidence": 0.0-1.0,
    "entities": {
        "key": "value"
    }
}

If the intent cannot be determined, set intent to "unknown".`)
	return b.String()
}

// rawResult mirrors the JSON shape the model is asked to produce.
// Entities arrive as arbitrary JSON values and are stringified during
// normalization.
type rawResult struct {
	Intent     string                 `json:"intent"`
	Confidence float64                `json:"confidence"`
	Entities   map[string]interface{} `json:"entities"`
}

// parseResponse turns the model's reply into a normalized Result.
// Invalid JSON falls back to a keyword scan over the candidate intents.
func parseResponse(content string, intents []string) Result {
	var raw rawResult
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return extractIntentFromText(content, intents)
	}
	return normalizeResult(raw)
}

// extractIntentFromText is the fallback when the model's reply is not
// valid JSON: the first candidate intent mentioned in the text wins.
func extractIntentFromText(text string, intents []string) Result {
	result := Result{
		Intent:     "unknown",
		Confidence: 0.5,
		Entities:   map[string]string{},
	}
	textLower := strings.ToLower(text)
	for _, intent := range intents {
		if strings.Contains(textLower, strings.ToLower(intent)) {
			result.Intent = intent
			result.Confidence = 0.7
			break
		}
	}
	return result
}

// normalizeResult enforces the Result invariants: a non-empty string
// intent, confidence clamped to [0, 1], and a non-nil entity map with
// every value stringified.
func normalizeResult(raw rawResult) Result {
	result := Result{
		Intent:     raw.Intent,
		Confidence: raw.Confidence,
		Entities:   map[string]string{},
	}
	if result.Intent == "" {
		result.Intent = "unknown"
	}
	if result.Confidence < 0.0 {
		result.Confidence = 0.0
	}
	if result.Confidence > 1.0 {
		result.Confidence = 1.0
	}
	for key, value := range raw.Entities {
		result.Entities[key] = fmt.Sprint(value)
	}
	return result
}
