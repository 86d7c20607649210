package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/marktrack-service/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPubSub(t *testing.T) *PubSub {
	t.Helper()
	ps, err := NewPubSub(config.EventsConfig{}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ps.Close() })
	return ps
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(EventRoleAssigned, RoleAssignedData{UserID: "u1", Role: "student", Status: "awaiting_details", StudentID: "STU1234"})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, Source, event.Source)
	assert.Equal(t, Version, event.Version)
	assert.False(t, event.Timestamp.IsZero())

	var data RoleAssignedData
	require.NoError(t, event.Decode(&data))
	assert.Equal(t, "STU1234", data.StudentID)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "marktrack.grade.mark_recorded", Topic("marktrack", EventMarkRecorded))
	assert.Equal(t, "grade.mark_recorded", Topic("", EventMarkRecorded))
}

func TestNewPubSub_DefaultsToGoChannel(t *testing.T) {
	ps := newTestPubSub(t)
	assert.Equal(t, "gochannel", ps.Transport)
}

func TestPublishConsume_RoundTrip(t *testing.T) {
	ps := newTestPubSub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *Event, 1)
	consumer := NewConsumer(ps, "test", testLogger())
	consumer.Handle(EventMarkRecorded, func(_ context.Context, e *Event) error {
		received <- e
		return nil
	})
	require.NoError(t, consumer.Start(ctx))

	publisher := NewWatermillPublisher(ps.Publisher, "test", testLogger())
	event, err := NewEvent(EventMarkRecorded, MarkRecordedData{MarkID: "m1", StudentID: "s1", Value: 9.5})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case got := <-received:
		assert.Equal(t, event.ID, got.ID)
		var data MarkRecordedData
		require.NoError(t, got.Decode(&data))
		assert.Equal(t, 9.5, data.Value)
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	consumer.Wait()
}

func TestConsumer_RetriesThenSucceeds(t *testing.T) {
	ps := newTestPubSub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan struct{})
	consumer := NewConsumer(ps, "", testLogger())
	consumer.retry.InitialInterval = time.Millisecond
	consumer.Handle(EventAbsenceRecorded, func(context.Context, *Event) error {
		if calls.Add(1) < 2 {
			return errors.New("temporary")
		}
		close(done)
		return nil
	})
	require.NoError(t, consumer.Start(ctx))

	event, err := NewEvent(EventAbsenceRecorded, AbsenceRecordedData{AbsenceID: "a1"})
	require.NoError(t, err)
	require.NoError(t, NewWatermillPublisher(ps.Publisher, "", testLogger()).Publish(ctx, event))

	select {
	case <-done:
		assert.Equal(t, int32(2), calls.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("handler never succeeded")
	}
}

func TestConsumer_ParksMalformed(t *testing.T) {
	ps := newTestPubSub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poisoned, err := ps.Subscriber.Subscribe(ctx, PoisonTopic(""))
	require.NoError(t, err)

	var calls atomic.Int32
	good := make(chan struct{})
	consumer := NewConsumer(ps, "", testLogger())
	consumer.Handle(EventMarkRecorded, func(context.Context, *Event) error {
		calls.Add(1)
		close(good)
		return nil
	})
	require.NoError(t, consumer.Start(ctx))

	topic := Topic("", EventMarkRecorded)
	require.NoError(t, ps.Publisher.Publish(topic, message.NewMessage("bad", []byte("{not json"))))

	select {
	case msg := <-poisoned:
		assert.Equal(t, "bad", msg.UUID)
		assert.Contains(t, msg.Metadata.Get(middleware.ReasonForPoisonedKey), ErrMalformedEvent.Error())
		msg.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("malformed event not parked")
	}

	event, err := NewEvent(EventMarkRecorded, MarkRecordedData{MarkID: "m2"})
	require.NoError(t, err)
	require.NoError(t, NewWatermillPublisher(ps.Publisher, "", testLogger()).Publish(ctx, event))

	select {
	case <-good:
		assert.Equal(t, int32(1), calls.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("valid event not delivered after malformed one")
	}
}

func TestConsumer_ParksAfterRetries(t *testing.T) {
	ps := newTestPubSub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poisoned, err := ps.Subscriber.Subscribe(ctx, PoisonTopic("school"))
	require.NoError(t, err)

	var calls atomic.Int32
	consumer := NewConsumer(ps, "school", testLogger())
	consumer.retry.InitialInterval = time.Millisecond
	consumer.Handle(EventAbsenceRecorded, func(context.Context, *Event) error {
		calls.Add(1)
		return errors.New("notification store down")
	})
	require.NoError(t, consumer.Start(ctx))

	event, err := NewEvent(EventAbsenceRecorded, AbsenceRecordedData{AbsenceID: "a2"})
	require.NoError(t, err)
	require.NoError(t, NewWatermillPublisher(ps.Publisher, "school", testLogger()).Publish(ctx, event))

	select {
	case msg := <-poisoned:
		assert.Equal(t, event.ID, msg.UUID)
		assert.Contains(t, msg.Metadata.Get(middleware.ReasonForPoisonedKey), "notification store down")
		msg.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("failing event not parked")
	}
	assert.Equal(t, int32(defaultMaxRetries+1), calls.Load())

	cancel()
	consumer.Wait()
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	e1, _ := NewEvent(EventRoleAssigned, RoleAssignedData{UserID: "u1"})
	e2, _ := NewEvent(EventProfileCompleted, ProfileCompletedData{UserID: "u1"})
	require.NoError(t, mock.Publish(ctx, e1))
	require.NoError(t, mock.Publish(ctx, e2))

	assert.Len(t, mock.GetPublishedEvents(), 2)
	assert.Len(t, mock.EventsOfType(EventProfileCompleted), 1)

	mock.ClearEvents()
	assert.Empty(t, mock.GetPublishedEvents())

	mock.Err = errors.New("broker down")
	assert.Error(t, mock.Publish(ctx, e1))
	assert.Empty(t, mock.GetPublishedEvents())
}
