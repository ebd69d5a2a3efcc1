package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"verifyica/internal/config"
	"verifyica/pkg/api"

	"github.com/stretchr/testify/require"
)

// recordingListener captures the event stream as comparable strings:
// "started <id>", "skipped <id> <reason>", "finished <id> <STATUS>".
type recordingListener struct {
	mu     sync.Mutex
	events []string
}

func (l *recordingListener) Started(id api.UniqueID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, "started "+id.String())
}

func (l *recordingListener) Skipped(id api.UniqueID, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf("skipped %s %s", id, reason))
}

func (l *recordingListener) Finished(id api.UniqueID, result api.TestExecutionResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf("finished %s %s", id, result.Status))
}

func (l *recordingListener) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

// resultOf returns the recorded terminal result of a node, failing the test
// if the node has none.
func (l *recordingListener) resultOf(t *testing.T, idSuffix string) string {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, event := range l.events {
		var id, status string
		if n, _ := fmt.Sscanf(event, "finished %s %s", &id, &status); n == 2 && id == idSuffix {
			return status
		}
	}
	t.Fatalf("no terminal event for %s in %v", idSuffix, l.events)
	return ""
}

// ids for event assertions.
func classID(name string) string {
	return api.RootUniqueID().Append(api.SegmentClass, name).String()
}

func argID(name string, index int) string {
	return api.RootUniqueID().
		Append(api.SegmentClass, name).
		Append(api.SegmentArgument, fmt.Sprintf("%d", index)).String()
}

func methodID(name string, index int, method string) string {
	return api.RootUniqueID().
		Append(api.SegmentClass, name).
		Append(api.SegmentArgument, fmt.Sprintf("%d", index)).
		Append(api.SegmentMethod, method).String()
}

// runModels registers the models on a fresh registry and runs an engine
// over them.
func runModels(t *testing.T, cfg config.Config, listener api.ExecutionListener, models []*api.ClassModel, opts ...Option) *Summary {
	t.Helper()
	registry := api.NewRegistry()
	for _, model := range models {
		require.NoError(t, registry.Register(model))
	}
	allOpts := append([]Option{WithListener(listener)}, opts...)
	eng := New(registry, cfg, allOpts...)
	return eng.Run(context.Background())
}

// gauge samples a concurrent activity level and remembers the maximum.
type gauge struct {
	mu      sync.Mutex
	current int
	max     int
}

func (g *gauge) enter() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current++
	if g.current > g.max {
		g.max = g.current
	}
}

func (g *gauge) leave() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current--
}

func (g *gauge) observedMax() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.max
}
