package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/statemachine"
)

const (
	Draft     = statemachine.StringState("draft")
	InReview  = statemachine.StringState("in_review")
	Approved  = statemachine.StringState("approved")
	Rejected  = statemachine.StringState("rejected")
	Submit    = statemachine.StringEvent("submit")
	Approve   = statemachine.StringEvent("approve")
	Reject    = statemachine.StringEvent("reject")
	Unrelated = statemachine.StringEvent("unrelated")
)

func TestMachineFire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sm := statemachine.MustNew(Draft,
		statemachine.WithTransition(Draft, InReview, Submit),
		statemachine.WithTransition(InReview, Approved, Approve),
	)
	assert.Equal(t, Draft, sm.Current())

	require.True(t, sm.CanFire(ctx, Submit, nil))
	require.NoError(t, sm.Fire(ctx, Submit, nil))
	assert.Equal(t, InReview, sm.Current())

	require.NoError(t, sm.Fire(ctx, Approve, nil))
	assert.Equal(t, Approved, sm.Current())
}

func TestMachineNoTransition(t *testing.T) {
	t.Parallel()

	sm := statemachine.MustNew(Draft, statemachine.WithTransition(Draft, InReview, Submit))
	err := sm.Fire(context.Background(), Unrelated, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, statemachine.ErrNoTransition)
	var te *statemachine.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "draft", te.State)
	assert.Equal(t, "unrelated", te.Event)
	assert.False(t, sm.CanFire(context.Background(), Unrelated, nil))
	assert.Equal(t, Draft, sm.Current())
}

func TestGuards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	onlyApproved := func(ctx context.Context, from statemachine.State, evt statemachine.Event, data any) bool {
		ok, _ := data.(bool)
		return ok
	}

	def := statemachine.MustDefinition(
		statemachine.WithTransition(InReview, Approved, Approve, statemachine.WithGuard(onlyApproved)),
		statemachine.WithTransition(InReview, Rejected, Reject),
	)

	t.Run("rejected by guard", func(t *testing.T) {
		sm, err := def.Start(InReview)
		require.NoError(t, err)
		err = sm.Fire(ctx, Approve, false)
		assert.ErrorIs(t, err, statemachine.ErrRejected)
		assert.Equal(t, InReview, sm.Current())
	})

	t.Run("guard passes", func(t *testing.T) {
		sm, err := def.Start(InReview)
		require.NoError(t, err)
		require.NoError(t, sm.Fire(ctx, Approve, true))
		assert.Equal(t, Approved, sm.Current())
	})
}

func TestGuardBranching(t *testing.T) {
	t.Parallel()

	isUrgent := func(ctx context.Context, from statemachine.State, evt statemachine.Event, data any) bool {
		return data == "urgent"
	}
	def := statemachine.MustDefinition(
		statemachine.WithTransition(Draft, Approved, Submit, statemachine.WithGuard(isUrgent)),
		statemachine.WithTransition(Draft, InReview, Submit),
	)

	next, err := def.Next(context.Background(), Draft, Submit, "urgent")
	require.NoError(t, err)
	assert.Equal(t, Approved, next)

	next, err = def.Next(context.Background(), Draft, Submit, "normal")
	require.NoError(t, err)
	assert.Equal(t, InReview, next)
}

func TestActions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("actions run in order before state change", func(t *testing.T) {
		var calls []string
		record := func(name string) statemachine.Action {
			return func(ctx context.Context, from, to statemachine.State, evt statemachine.Event, data any) error {
				calls = append(calls, name+":"+from.Name()+"->"+to.Name())
				return nil
			}
		}
		sm := statemachine.MustNew(Draft,
			statemachine.WithTransition(Draft, InReview, Submit,
				statemachine.WithAction(record("a")),
				statemachine.WithAction(record("b")),
			),
		)
		require.NoError(t, sm.Fire(ctx, Submit, nil))
		assert.Equal(t, []string{"a:draft->in_review", "b:draft->in_review"}, calls)
	})

	t.Run("failing action aborts transition", func(t *testing.T) {
		boom := errors.New("boom")
		sm := statemachine.MustNew(Draft,
			statemachine.WithTransition(Draft, InReview, Submit,
				statemachine.WithAction(func(ctx context.Context, from, to statemachine.State, evt statemachine.Event, data any) error {
					return boom
				}),
			),
		)
		err := sm.Fire(ctx, Submit, nil)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, Draft, sm.Current())
	})
}

func TestWithTransitionFrom(t *testing.T) {
	t.Parallel()

	def := statemachine.MustDefinition(
		statemachine.WithTransitionFrom([]statemachine.State{Draft, InReview, Rejected}, Draft, Reject),
	)
	for _, from := range []statemachine.State{Draft, InReview, Rejected} {
		next, err := def.Next(context.Background(), from, Reject, nil)
		require.NoError(t, err)
		assert.Equal(t, Draft, next)
	}
}

func TestInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := statemachine.NewDefinition(statemachine.WithTransition(nil, Draft, Submit))
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

	_, err = statemachine.New(nil)
	assert.ErrorIs(t, err, statemachine.ErrInvalidState)

	sm := statemachine.MustNew(Draft)
	assert.ErrorIs(t, sm.Fire(context.Background(), nil, nil), statemachine.ErrInvalidEvent)

	assert.Panics(t, func() {
		statemachine.MustNew(Draft, statemachine.WithTransition(Draft, nil, Submit))
	})
}
