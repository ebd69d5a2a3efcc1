package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndIntrospect(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&ClassModel{Name: "B"}))
	require.NoError(t, registry.Register(&ClassModel{Name: "A"}))

	// Registration order is preserved, not sorted.
	assert.Equal(t, []string{"B", "A"}, registry.ClassNames())

	model, err := registry.Introspect("A")
	require.NoError(t, err)
	assert.Equal(t, "A", model.Name)

	_, err = registry.Introspect("missing")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicatesAndUnnamed(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&ClassModel{Name: "A"}))
	assert.Error(t, registry.Register(&ClassModel{Name: "A"}))
	assert.Error(t, registry.Register(&ClassModel{}))
	assert.Error(t, registry.Register(nil))

	assert.Panics(t, func() { registry.MustRegister(&ClassModel{Name: "A"}) })
}

func TestSkipSentinel(t *testing.T) {
	err := Abort("resource %s unavailable", "db")
	assert.True(t, IsSkip(err))
	assert.Contains(t, err.Error(), "resource db unavailable")

	wrapped := fmt.Errorf("beforeEach: %w", err)
	assert.True(t, IsSkip(wrapped))

	assert.False(t, IsSkip(errors.New("ordinary failure")))
	assert.False(t, IsSkip(nil))

	var empty SkipTestError
	assert.Equal(t, "test skipped", empty.Error())
}

func TestArgumentHelpers(t *testing.T) {
	arg := NewArgument("first", 42)
	assert.Equal(t, "first", arg.String())

	n, err := PayloadAs[int](arg)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = PayloadAs[string](arg)
	assert.Error(t, err)

	assert.Equal(t, "argument[3]", NamedArgument(3, "x").Name)
}
