package parfor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemError_Wrapping(t *testing.T) {
	base := errors.New("base")
	require.NoError(t, newItemError(nil, 1, 0, 0))

	err := newItemError(base, "x", 4, 2)
	require.ErrorIs(t, err, base)
	require.Equal(t, "base", err.Error())
	require.Equal(t, "base", fmt.Sprintf("%v", err))
	require.Equal(t, "base", fmt.Sprintf("%s", err))
	require.Equal(t, `"base"`, fmt.Sprintf("%q", err))
	require.Equal(t, "item(index=4,partition=2,value=x): base", fmt.Sprintf("%+v", err))

	wrapped := fmt.Errorf("outer: %w", err)
	idx, ok := ExtractItemIndex(wrapped)
	require.True(t, ok)
	require.Equal(t, 4, idx)
}

func TestExtract_NotAnItemError(t *testing.T) {
	err := errors.New("plain")

	_, ok := ExtractItemIndex(err)
	require.False(t, ok)
	_, ok = ExtractPartition(err)
	require.False(t, ok)
	v, ok := ExtractItemValue(err)
	require.False(t, ok)
	require.Nil(t, v)
}
