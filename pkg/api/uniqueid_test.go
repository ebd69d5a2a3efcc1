package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueIDString(t *testing.T) {
	id := RootUniqueID().
		Append(SegmentClass, "ExampleTest").
		Append(SegmentArgument, "0").
		Append(SegmentMethod, "test")

	assert.Equal(t,
		"[engine=verifyica]/[class=ExampleTest]/[argument=0]/[method=test]",
		id.String())
	assert.Equal(t, Segment{Type: SegmentMethod, Value: "test"}, id.Last())
}

func TestUniqueIDAppendDoesNotMutateReceiver(t *testing.T) {
	root := RootUniqueID()
	a := root.Append(SegmentClass, "A")
	b := root.Append(SegmentClass, "B")

	assert.Len(t, root, 1)
	assert.Equal(t, "A", a.Last().Value)
	assert.Equal(t, "B", b.Last().Value)
}

func TestUniqueIDHasPrefix(t *testing.T) {
	class := RootUniqueID().Append(SegmentClass, "A")
	method := class.Append(SegmentArgument, "1").Append(SegmentMethod, "t")

	assert.True(t, method.HasPrefix(class))
	assert.True(t, method.HasPrefix(method))
	assert.False(t, class.HasPrefix(method))
	assert.False(t, method.HasPrefix(RootUniqueID().Append(SegmentClass, "B")))
}

func TestParseUniqueIDRoundTrip(t *testing.T) {
	original := RootUniqueID().
		Append(SegmentClass, "ExampleTest").
		Append(SegmentArgument, "3")

	parsed, err := ParseUniqueID(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestParseUniqueIDMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"engine=verifyica",
		"[engine]",
		"[=value]",
		"[engine=verifyica]/plain",
	} {
		_, err := ParseUniqueID(input)
		assert.Error(t, err, "input %q", input)
	}
}
