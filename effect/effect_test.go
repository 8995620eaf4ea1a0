// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package effect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/reactor/effect"
	"github.com/luxfi/reactor/queue"
)

func newTestHandle(t *testing.T) (queue.Handle[string], *queue.Scheduler[string]) {
	t.Helper()
	s := queue.New[string](queue.Weights(), nil)
	return queue.NewHandle(s), s
}

func TestImmediateYieldsOnFirstPoll(t *testing.T) {
	handle, _ := newTestHandle(t)
	builder := effect.NewBuilder(handle, nil)

	item := builder.Immediate(queue.Regular, "a", "b")
	require.Equal(t, queue.Regular, item.Kind)

	got := item.Run(context.Background())
	require.Equal(t, []string{"a", "b"}, got)
}

func TestAfterRespectsContextCancellation(t *testing.T) {
	handle, _ := newTestHandle(t)
	builder := effect.NewBuilder(handle, nil)

	item := builder.After(queue.Internal, time.Hour, func() string { return "late" })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := item.Run(ctx)
	require.Nil(t, got)
}

func TestAfterFiresOnceDurationElapses(t *testing.T) {
	handle, _ := newTestHandle(t)
	builder := effect.NewBuilder(handle, nil)

	item := builder.After(queue.Internal, time.Millisecond, func() string { return "fired" })
	got := item.Run(context.Background())
	require.Equal(t, []string{"fired"}, got)
}

func TestRequestYieldsErrEventOnFailure(t *testing.T) {
	handle, _ := newTestHandle(t)
	builder := effect.NewBuilder(handle, nil)

	wantErr := errors.New("boom")
	item := builder.Request(queue.Regular,
		func(ctx context.Context) (string, error) { return "", wantErr },
		func(err error) string { return "error:" + err.Error() },
	)

	got := item.Run(context.Background())
	require.Equal(t, []string{"error:boom"}, got)
}

func TestRequestYieldsResultOnSuccess(t *testing.T) {
	handle, _ := newTestHandle(t)
	builder := effect.NewBuilder(handle, nil)

	item := builder.Request(queue.Regular,
		func(ctx context.Context) (string, error) { return "ok", nil },
		func(err error) string { return "error" },
	)

	got := item.Run(context.Background())
	require.Equal(t, []string{"ok"}, got)
}

func TestFireAndForgetYieldsNoEvents(t *testing.T) {
	handle, _ := newTestHandle(t)
	builder := effect.NewBuilder(handle, nil)

	ran := false
	item := builder.FireAndForget(queue.Regular, func(ctx context.Context) error {
		ran = true
		return nil
	})

	got := item.Run(context.Background())
	require.Nil(t, got)
	require.True(t, ran)
}

func TestWrapPreservesCountAndOrder(t *testing.T) {
	handle, _ := newTestHandle(t)
	builder := effect.NewBuilder(handle, nil)

	inner := builder.Immediate(queue.Regular, "a", "b", "c")
	wrapped := effect.Wrap(func(s string) int { return len(s) }, inner)

	require.Equal(t, queue.Regular, wrapped.Kind)
	got := wrapped.Run(context.Background())
	require.Equal(t, []int{1, 1, 1}, got)
}

func TestWrapMultipleAppliesToEveryItem(t *testing.T) {
	handle, _ := newTestHandle(t)
	builder := effect.NewBuilder(handle, nil)

	items := effect.Multiple[string]{
		builder.Immediate(queue.Regular, "x"),
		builder.Immediate(queue.Internal, "yy"),
	}
	wrapped := effect.WrapMultiple(func(s string) int { return len(s) }, items)

	require.Len(t, wrapped, 2)
	require.Equal(t, []int{1}, wrapped[0].Run(context.Background()))
	require.Equal(t, []int{2}, wrapped[1].Run(context.Background()))
	require.Equal(t, queue.Internal, wrapped[1].Kind)
}

func TestNoneIsEmpty(t *testing.T) {
	require.Empty(t, effect.None[string]())
}
