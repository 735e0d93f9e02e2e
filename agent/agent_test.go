/*
File    : go-flow/agent/agent_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package agent

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/go-flow/eval"
	"github.com/akashmaji946/go-flow/intent"
	"github.com/akashmaji946/go-flow/parser"
)

// mustParse parses a test script or fails the test.
func mustParse(t *testing.T, src string) *parser.ScriptNode {
	t.Helper()
	script, err := parser.NewParser(src).Parse()
	require.NoError(t, err)
	return script
}

const echoScript = `step start { speak "name?" listen name speak "hello ${name}" end }`

func TestAgentSystem_HelloEnd(t *testing.T) {
	system := NewAgentSystem(mustParse(t, `step start { speak "hi" end }`), nil)

	result := system.StartConversation("u1")
	assert.Equal(t, eval.StatusFinished, result.Status)
	assert.Equal(t, "hi", result.Message)
}

func TestAgentSystem_EchoOnce(t *testing.T) {
	system := NewAgentSystem(mustParse(t, echoScript), nil)

	result := system.StartConversation("u1")
	assert.Equal(t, eval.StatusWaitingInput, result.Status)
	assert.Contains(t, result.Message, "name?")

	result = system.ProcessInput("u1", "Ada")
	assert.Equal(t, eval.StatusFinished, result.Status)
	assert.Contains(t, result.Message, "hello Ada")
}

func TestAgentSystem_WaitingIsIdempotentUntilInput(t *testing.T) {
	system := NewAgentSystem(mustParse(t, echoScript), nil)

	first := system.StartConversation("u1")
	require.Equal(t, eval.StatusWaitingInput, first.Status)

	// repeated no-input polls return the same status and variable
	for i := 0; i < 3; i++ {
		again := system.ProcessInput("u1", "")
		assert.Equal(t, eval.StatusWaitingInput, again.Status)
		assert.Equal(t, first.Variable, again.Variable)
	}

	// new input finally advances
	result := system.ProcessInput("u1", "Ada")
	assert.Equal(t, eval.StatusFinished, result.Status)
}

func TestAgentSystem_BranchScenarios(t *testing.T) {
	src := `step start { listen x branch x == "go" -> b speak "stay" end } step b { speak "jumped" end }`

	system := NewAgentSystem(mustParse(t, src), nil)

	system.StartConversation("u1")
	result := system.ProcessInput("u1", "go")
	assert.Equal(t, eval.StatusFinished, result.Status)
	assert.Equal(t, "jumped", result.Message)

	// a second user takes the fallthrough path
	system.StartConversation("u2")
	result = system.ProcessInput("u2", "no")
	assert.Equal(t, eval.StatusFinished, result.Status)
	assert.Equal(t, "stay", result.Message)
}

func TestAgentSystem_StartConversationResets(t *testing.T) {
	system := NewAgentSystem(mustParse(t, echoScript), nil)

	system.StartConversation("u1")
	system.ProcessInput("u1", "Ada")

	// restarting clears variables and position: the flow asks again
	result := system.StartConversation("u1")
	assert.Equal(t, eval.StatusWaitingInput, result.Status)
	assert.Contains(t, result.Message, "name?")

	result = system.ProcessInput("u1", "Grace")
	assert.Contains(t, result.Message, "hello Grace")
	assert.NotContains(t, result.Message, "Ada")
}

func TestAgentSystem_LastInputVariable(t *testing.T) {
	system := NewAgentSystem(mustParse(t, echoScript), nil)

	system.StartConversation("u1")
	system.ProcessInput("u1", "Ada")

	ctx := system.Contexts.Get("u1")
	value, ok := ctx.GetVariable("last_input")
	require.True(t, ok)
	assert.Equal(t, "Ada", value.ToString())
}

func TestAgentSystem_EndConversationEvicts(t *testing.T) {
	system := NewAgentSystem(mustParse(t, echoScript), nil)

	system.StartConversation("u1")
	assert.Equal(t, 1, system.Contexts.Len())

	system.EndConversation("u1")
	assert.Equal(t, 0, system.Contexts.Len())

	// eviction is idempotent
	system.EndConversation("u1")
	assert.Equal(t, 0, system.Contexts.Len())
}

func TestAgentSystem_ClassifierDrivenBranch(t *testing.T) {
	src := `
step start {
    speak "how can I help?"
    listen user_input
    branch user_intent == "refund_request" -> refund
    speak "unhandled"
    end
}
step refund {
    speak "refund flow"
    end
}
`
	system := NewAgentSystem(mustParse(t, src), intent.NewMockAnalyzer())

	system.StartConversation("u1")
	result := system.ProcessInput("u1", "I want my money back, please refund me")
	assert.Equal(t, eval.StatusFinished, result.Status)
	assert.Equal(t, "refund flow", result.Message)
}

func TestAgentSystem_ConcurrentSessionsAreIsolated(t *testing.T) {
	system := NewAgentSystem(mustParse(t, echoScript), nil)

	// two users driving the echo script in interleaved calls each see
	// only their own name
	system.StartConversation("u1")
	system.StartConversation("u2")

	r1 := system.ProcessInput("u1", "Ada")
	r2 := system.ProcessInput("u2", "Grace")

	assert.Contains(t, r1.Message, "hello Ada")
	assert.NotContains(t, r1.Message, "Grace")
	assert.Contains(t, r2.Message, "hello Grace")
	assert.NotContains(t, r2.Message, "Ada")
}

func TestAgentSystem_ManyConcurrentSessions(t *testing.T) {
	system := NewAgentSystem(mustParse(t, echoScript), nil)

	var wg sync.WaitGroup
	results := make([]eval.Result, 24)
	for i := 0; i < 24; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", n)
			system.StartConversation(id)
			results[n] = system.ProcessInput(id, fmt.Sprintf("name-%d", n))
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		assert.Equal(t, eval.StatusFinished, result.Status)
		assert.Contains(t, result.Message, fmt.Sprintf("hello name-%d", i))
	}
}
