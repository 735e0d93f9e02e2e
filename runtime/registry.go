/*
File    : go-flow/runtime/registry.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package runtime

import "sync"

// ContextRegistry maps session ids to their ExecutionContexts.
// Get-or-create is atomic, so concurrent first access for the same user
// yields exactly one context. The registry's mutex guards only the map;
// each context carries its own lock for its own state.
type ContextRegistry struct {
	mu       sync.Mutex                   // Guards the contexts map
	contexts map[string]*ExecutionContext // Session id -> context
}

// NewContextRegistry creates an empty registry.
func NewContextRegistry() *ContextRegistry {
	return &ContextRegistry{
		contexts: make(map[string]*ExecutionContext),
	}
}

// Get returns the context for the given session id, creating it on first
// access. Repeated calls with the same id return the same instance.
func (reg *ContextRegistry) Get(userID string) *ExecutionContext {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	ctx, ok := reg.contexts[userID]
	if !ok {
		ctx = NewExecutionContext(userID)
		reg.contexts[userID] = ctx
	}
	return ctx
}

// Remove evicts the session's context. Removing an unknown id is a no-op,
// so the operation is idempotent.
func (reg *ContextRegistry) Remove(userID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.contexts, userID)
}

// ClearAll removes every registered context.
func (reg *ContextRegistry) ClearAll() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.contexts = make(map[string]*ExecutionContext)
}

// Len reports how many sessions currently have a context.
func (reg *ContextRegistry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.contexts)
}
