package aggregator

import (
	"dreamweaver/errors"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type patientChanged struct {
	PatientID string
}

func (patientChanged) Tag() Tag { return "patient-context:changed" }

type patientEnded struct{}

func (patientEnded) Tag() Tag { return "patient-context:ended" }

func newAggregator() *Aggregator {
	return New(logs.GetLoggerFromLevel(slog.LevelDebug))
}

func TestAggregator_Publish_Most_Recent_Subscriber_First(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	var calls []string

	// Given three subscribers on the same event
	for _, name := range []string{"first", "second", "third"} {
		_, err := ea.Subscribe(ByName("test-message"), func(data any) {
			calls = append(calls, name)
		})
		req.NoError(err)
	}

	// When the event is published
	req.NoError(ea.Publish(ByName("test-message"), "hello"))

	// Then every subscriber ran exactly once, most recent first
	req.Equal([]string{"third", "second", "first"}, calls)
}

func TestAggregator_Publish_Only_Reaches_Exact_Name(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	var received []any

	_, err := ea.Subscribe(ByName("test-message"), func(data any) { received = append(received, data) })
	req.NoError(err)

	req.NoError(ea.Publish(ByName("test-message:other"), "ignored"))
	req.NoError(ea.Publish(ByName("test-message"), "kept"))

	req.Equal([]any{"kept"}, received)
}

func TestAggregator_Invalid_Selector(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()

	req.ErrorIs(ea.Publish(Selector{}, nil), errors.ErrInvalidSelector)
	req.ErrorIs(ea.Publish(ByName(""), nil), errors.ErrInvalidSelector)
	req.ErrorIs(ea.Publish(ByTag(""), nil), errors.ErrInvalidSelector)

	sub, err := ea.Subscribe(ByName(""), func(any) {})
	req.ErrorIs(err, errors.ErrInvalidSelector)
	req.Nil(sub)

	_, err = ea.SubscribeOnce(Selector{}, func(any) {})
	req.ErrorIs(err, errors.ErrInvalidSelector)
}

func TestAggregator_Dispose(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	first, second := 0, 0

	// Given two subscriptions on the same event
	sub, err := ea.Subscribe(ByName("x"), func(any) { first++ })
	req.NoError(err)
	_, err = ea.Subscribe(ByName("x"), func(any) { second++ })
	req.NoError(err)

	// When the first one is disposed twice
	sub.Dispose()
	sub.Dispose()
	req.NoError(ea.Publish(ByName("x"), nil))

	// Then only the disposed callback stops firing
	req.Equal(0, first)
	req.Equal(1, second)
}

func TestAggregator_Dispose_Same_Callback_Registered_Twice(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	count := 0
	callback := func(any) { count++ }

	sub, err := ea.Subscribe(ByName("x"), callback)
	req.NoError(err)
	_, err = ea.Subscribe(ByName("x"), callback)
	req.NoError(err)

	// Disposing removes exactly one entry
	sub.Dispose()
	req.NoError(ea.Publish(ByName("x"), nil))
	req.Equal(1, count)
}

func TestAggregator_SubscribeOnce(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	count := 0

	_, err := ea.SubscribeOnce(ByName("x"), func(any) { count++ })
	req.NoError(err)

	req.NoError(ea.Publish(ByName("x"), nil))
	req.NoError(ea.Publish(ByName("x"), nil))

	req.Equal(1, count)
}

func TestAggregator_SubscribeOnce_Reentrant_Publish(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	count := 0

	// Given a once subscriber registered first, so it runs last
	_, err := ea.SubscribeOnce(ByName("x"), func(any) { count++ })
	req.NoError(err)

	// And a later subscriber that republishes the same event once
	republished := false
	_, err = ea.Subscribe(ByName("x"), func(any) {
		if !republished {
			republished = true
			req.NoError(ea.Publish(ByName("x"), nil))
		}
	})
	req.NoError(err)

	// When the event is published
	req.NoError(ea.Publish(ByName("x"), nil))

	// Then the once callback fired a single time across both passes
	req.Equal(1, count)
}

func TestAggregator_Subscribe_During_Dispatch_Does_Not_Affect_Pass(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	late := 0

	_, err := ea.Subscribe(ByName("x"), func(any) {
		_, err := ea.Subscribe(ByName("x"), func(any) { late++ })
		req.NoError(err)
	})
	req.NoError(err)

	// The subscriber added during the pass is not invoked by that pass
	req.NoError(ea.Publish(ByName("x"), nil))
	req.Equal(0, late)

	// But it is invoked by the next one
	req.NoError(ea.Publish(ByName("x"), nil))
	req.Equal(1, late)
}

func TestAggregator_Dispose_During_Dispatch_Keeps_In_Flight_Pass(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	earlier := 0

	sub, err := ea.Subscribe(ByName("x"), func(any) { earlier++ })
	req.NoError(err)
	_, err = ea.Subscribe(ByName("x"), func(any) { sub.Dispose() })
	req.NoError(err)

	req.NoError(ea.Publish(ByName("x"), nil))
	req.NoError(ea.Publish(ByName("x"), nil))

	// Snapshot semantics: the in-flight pass still reached it, the next did not
	req.Equal(1, earlier)
}

func TestAggregator_Subscriber_Panic_Is_Isolated(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	reached := false

	_, err := ea.Subscribe(ByName("x"), func(any) { reached = true })
	req.NoError(err)
	_, err = ea.Subscribe(ByName("x"), func(any) { panic("boom") })
	req.NoError(err)

	req.NotPanics(func() { req.NoError(ea.Publish(ByName("x"), nil)) })
	req.True(reached)
	req.Equal(uint64(1), ea.Failures())
}

func TestAggregator_Publish_By_Tag(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	var changed []string
	ended := 0

	_, err := ea.Subscribe(ByTag("patient-context:changed"), func(data any) {
		changed = append(changed, data.(patientChanged).PatientID)
	})
	req.NoError(err)
	_, err = ea.Subscribe(ByTag("patient-context:ended"), func(any) { ended++ })
	req.NoError(err)

	req.NoError(ea.PublishTagged(patientChanged{PatientID: "42"}))
	req.NoError(ea.Publish(ByTag("patient-context:changed"), patientEnded{}))
	req.NoError(ea.Publish(ByTag("patient-context:changed"), "untagged"))

	// Matching follows the payload tag
	req.Equal([]string{"42"}, changed)
	req.Equal(1, ended)
}

func TestAggregator_Name_And_Tag_Are_Separate(t *testing.T) {
	req := require.New(t)
	ea := newAggregator()
	byName := 0

	_, err := ea.Subscribe(ByName("patient-context:changed"), func(any) { byName++ })
	req.NoError(err)

	req.NoError(ea.PublishTagged(patientChanged{}))
	req.Equal(0, byName)
}
