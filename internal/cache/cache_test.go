package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarshalexbalmuchu/nextnode/internal/model"
	"github.com/adarshalexbalmuchu/nextnode/internal/testutil"
)

func TestCache_NilClient_FetchThrough(t *testing.T) {
	ctx := context.Background()
	c := New(nil, testutil.MakeNoopLogger())

	fetched := 0
	var dest []string
	err := c.Aside(ctx, "k", &dest, time.Minute, func() error {
		fetched++
		dest = []string{"a", "b"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetched)
	assert.Equal(t, []string{"a", "b"}, dest)

	// No backend: the second call fetches again.
	err = c.Aside(ctx, "k", &dest, time.Minute, func() error {
		fetched++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, fetched)
}

func TestFetch_PermanentErrorsNotRetried(t *testing.T) {
	ctx := context.Background()

	for _, sentinel := range []error{
		model.ErrAuthenticationRequired,
		model.ErrInsufficientPermissions,
		model.ErrNotFound,
	} {
		calls := 0
		err := Fetch(ctx, func() error {
			calls++
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, calls)
	}
}

func TestFetch_TransientErrorRetried(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := Fetch(ctx, func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestFetch_GivesUpAfterMaxRetries(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := Fetch(ctx, func() error {
		calls++
		return errors.New("still down")
	})
	require.Error(t, err)
	assert.Equal(t, maxRetries+1, calls)
}
