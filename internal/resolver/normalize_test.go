package resolver

import (
	"testing"

	"verifyica/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArgumentsNilPrunes(t *testing.T) {
	assert.Nil(t, NormalizeArguments(nil))
}

func TestNormalizeArgumentsSingleValue(t *testing.T) {
	args := NormalizeArguments("hello")
	require.Len(t, args, 1)
	assert.Equal(t, "argument[0]", args[0].Name)
	assert.Equal(t, "hello", args[0].Payload)
}

func TestNormalizeArgumentsSingleArgument(t *testing.T) {
	args := NormalizeArguments(api.NewArgument("named", 1))
	require.Len(t, args, 1)
	assert.Equal(t, "named", args[0].Name)
}

func TestNormalizeArgumentsArgumentSlice(t *testing.T) {
	in := []api.Argument{api.NewArgument("a", 1), api.NewArgument("b", 2)}
	assert.Equal(t, in, NormalizeArguments(in))
}

func TestNormalizeArgumentsRawSlice(t *testing.T) {
	args := NormalizeArguments([]string{"x", "y"})
	require.Len(t, args, 2)
	assert.Equal(t, "argument[0]", args[0].Name)
	assert.Equal(t, "x", args[0].Payload)
	assert.Equal(t, "argument[1]", args[1].Name)
	assert.Equal(t, "y", args[1].Payload)
}

func TestNormalizeArgumentsMixedAnySlice(t *testing.T) {
	args := NormalizeArguments([]any{"raw", api.NewArgument("named", 2)})
	require.Len(t, args, 2)
	assert.Equal(t, "argument[0]", args[0].Name)
	assert.Equal(t, "named", args[1].Name)
}

func TestNormalizeArgumentsArray(t *testing.T) {
	args := NormalizeArguments([2]int{7, 8})
	require.Len(t, args, 2)
	assert.Equal(t, 7, args[0].Payload)
	assert.Equal(t, 8, args[1].Payload)
}

func TestNormalizeArgumentsChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	close(ch)

	args := NormalizeArguments(ch)
	require.Len(t, args, 2)
	assert.Equal(t, "a", args[0].Payload)
	assert.Equal(t, "argument[1]", args[1].Name)
}

func TestNormalizeArgumentsPullIterator(t *testing.T) {
	values := []any{"x", "y", "z"}
	i := 0
	next := func() (any, bool) {
		if i >= len(values) {
			return nil, false
		}
		v := values[i]
		i++
		return v, true
	}

	args := NormalizeArguments(next)
	require.Len(t, args, 3)
	assert.Equal(t, "z", args[2].Payload)
	assert.Equal(t, "argument[2]", args[2].Name)
}
