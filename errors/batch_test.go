package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	require.NoError(t, Append(nil))
	require.NoError(t, Append(nil, nil, nil))

	first := UnknownIdentifier("a", nil)
	second := UnknownModule("./b")

	err := Append(nil, first)
	require.Equal(t, 1, Count(err))
	require.Equal(t, first.Error(), err.Error())

	err = Append(err, nil, second)
	require.Equal(t, 2, Count(err))
	require.Equal(t, first.Error()+" (and 1 more errors)", err.Error())
	require.Equal(t, []*CheckError{first, second}, Flatten(err))
	require.True(t, IsCode(err, E4012))
}

func TestFlatten(t *testing.T) {
	require.Nil(t, Flatten(nil))
	require.Nil(t, Flatten(fmt.Errorf("not a check error")))

	ce := DepthExceeded(1)
	require.Equal(t, []*CheckError{ce}, Flatten(ce))
	require.Equal(t, []*CheckError{ce}, Flatten(fmt.Errorf("wrapped: %w", ce)))
	require.Equal(t, 1, Count(ce))
	require.Equal(t, 0, Count(nil))
}

func TestFriendlyBatchMessage(t *testing.T) {
	err := Append(nil, UnknownIdentifier("a", nil), UnknownIdentifier("b", nil))
	out := FriendlyBatchMessage(err)
	require.Contains(t, out, "error[E4001]: unknown identifier \"a\"")
	require.Contains(t, out, "error[E4001]: unknown identifier \"b\"")
	require.Contains(t, out, "found 2 errors")
}
