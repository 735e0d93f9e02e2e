/*
File    : go-flow/runtime/context_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package runtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/go-flow/objects"
)

func TestExecutionContext_Variables(t *testing.T) {
	ctx := NewExecutionContext("u1")

	// absent until set
	_, ok := ctx.GetVariable("name")
	assert.False(t, ok)

	ctx.SetVariable("name", &objects.String{Value: "Ada"})
	value, ok := ctx.GetVariable("name")
	require.True(t, ok)
	assert.Equal(t, "Ada", value.ToString())

	// overwrite
	ctx.SetVariable("name", &objects.String{Value: "Grace"})
	value, _ = ctx.GetVariable("name")
	assert.Equal(t, "Grace", value.ToString())

	// a stored empty string is distinguishable from absent
	ctx.SetVariable("empty", &objects.String{Value: ""})
	value, ok = ctx.GetVariable("empty")
	require.True(t, ok)
	assert.Equal(t, "", value.ToString())
}

func TestExecutionContext_StepAndIndex(t *testing.T) {
	ctx := NewExecutionContext("u1")

	// defaults: no step, index 0
	assert.Equal(t, "", ctx.CurrentStep())
	assert.Equal(t, 0, ctx.StatementIndex())

	ctx.SetCurrentStep("start")
	ctx.SetStatementIndex(3)
	assert.Equal(t, "start", ctx.CurrentStep())
	assert.Equal(t, 3, ctx.StatementIndex())
}

func TestExecutionContext_ConsumeInputOnce(t *testing.T) {
	ctx := NewExecutionContext("u1")

	// nothing buffered yet
	_, ok := ctx.GetAndConsumeInput()
	assert.False(t, ok)

	ctx.SetPendingInput("hello")

	got, ok := ctx.GetAndConsumeInput()
	require.True(t, ok)
	assert.Equal(t, "hello", got)

	// the same input is never returned twice
	_, ok = ctx.GetAndConsumeInput()
	assert.False(t, ok)

	// a new input re-arms the slot
	ctx.SetPendingInput("again")
	got, ok = ctx.GetAndConsumeInput()
	require.True(t, ok)
	assert.Equal(t, "again", got)
}

func TestExecutionContext_Clear(t *testing.T) {
	ctx := NewExecutionContext("u1")
	ctx.SetVariable("name", &objects.String{Value: "Ada"})
	ctx.SetCurrentStep("start")
	ctx.SetStatementIndex(2)
	ctx.SetPendingInput("pending")

	ctx.Clear()

	_, ok := ctx.GetVariable("name")
	assert.False(t, ok)
	assert.Equal(t, "", ctx.CurrentStep())
	assert.Equal(t, 0, ctx.StatementIndex())
	_, ok = ctx.GetAndConsumeInput()
	assert.False(t, ok)

	// the user id survives a clear
	assert.Equal(t, "u1", ctx.UserID)
}

func TestContextRegistry_GetOrCreate(t *testing.T) {
	reg := NewContextRegistry()

	ctx1 := reg.Get("u1")
	require.NotNil(t, ctx1)
	assert.Equal(t, "u1", ctx1.UserID)

	// identical id returns the same instance across calls
	assert.Same(t, ctx1, reg.Get("u1"))

	// different ids get different contexts
	ctx2 := reg.Get("u2")
	assert.NotSame(t, ctx1, ctx2)
	assert.Equal(t, 2, reg.Len())
}

func TestContextRegistry_Remove(t *testing.T) {
	reg := NewContextRegistry()
	reg.Get("u1")

	reg.Remove("u1")
	assert.Equal(t, 0, reg.Len())

	// removal is idempotent
	reg.Remove("u1")
	reg.Remove("never_existed")
	assert.Equal(t, 0, reg.Len())

	// a removed session starts fresh on next access
	ctx := reg.Get("u1")
	assert.Equal(t, "", ctx.CurrentStep())
}

func TestContextRegistry_ClearAll(t *testing.T) {
	reg := NewContextRegistry()
	reg.Get("u1")
	reg.Get("u2")
	reg.Get("u3")

	reg.ClearAll()
	assert.Equal(t, 0, reg.Len())
}

func TestContextRegistry_ConcurrentGet(t *testing.T) {
	reg := NewContextRegistry()

	// concurrent first access for the same id must yield one context
	const goroutines = 32
	results := make([]*ExecutionContext, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = reg.Get("shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, reg.Len())
}

func TestContextRegistry_ConcurrentSessions(t *testing.T) {
	reg := NewContextRegistry()

	// many sessions mutating their own contexts in parallel
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", n)
			ctx := reg.Get(id)
			for j := 0; j < 100; j++ {
				ctx.SetVariable("n", &objects.Integer{Value: int64(j)})
				ctx.SetPendingInput("input")
				ctx.GetAndConsumeInput()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, reg.Len())
	for i := 0; i < 16; i++ {
		ctx := reg.Get(fmt.Sprintf("user-%d", i))
		value, ok := ctx.GetVariable("n")
		require.True(t, ok)
		assert.Equal(t, "99", value.ToString())
	}
}
