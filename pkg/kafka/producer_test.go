package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed++
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("665f1c2b9d3e4a0012345678").
		WithEventType("event.created").
		WithValue(map[string]string{"slug": "go-meetup"}).
		Build()
	require.NoError(t, err)
	return msg
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "devevents.domain-events", nil, "")

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))

	require.Len(t, w.messages, 1)
	got := w.messages[0]
	assert.Equal(t, "665f1c2b9d3e4a0012345678", string(got.Key))
	assert.JSONEq(t, `{"slug":"go-meetup"}`, string(got.Value))
	assert.Equal(t, "event.created", header(got, HeaderEventType))
	assert.NotEmpty(t, header(got, HeaderEventID))
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := NewProducerWithWriter(&fakeWriter{}, "topic", nil, "")

	err := p.Publish(context.Background(), Message{Value: []byte("{}")})
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = p.Publish(context.Background(), Message{Key: "k"})
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := NewProducerWithWriter(&fakeWriter{}, "topic", nil, "")

	var calls []string
	record := func(name string) ProducerMiddleware {
		return func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			calls = append(calls, name+":before")
			err := next(ctx, msg)
			calls = append(calls, name+":after")
			return err
		}
	}
	p.Use(record("outer"))
	p.Use(record("inner"))

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, calls)
}

func TestProducer_SendsToDLQOnFailure(t *testing.T) {
	writeErr := errors.New("leader not available")
	w := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	p := NewProducerWithWriter(w, "topic", dlq, "topic.dlq")

	msg := buildMessage(t)
	err := p.Publish(context.Background(), msg)
	assert.ErrorIs(t, err, writeErr)

	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "topic", header(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, writeErr.Error(), header(dlq.messages[0], HeaderDLQError))
	assert.NotContains(t, msg.Headers, HeaderDLQError)
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	dlq := &fakeWriter{}
	p := NewProducerWithWriter(w, "topic", dlq, "topic.dlq")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closed)
	assert.Equal(t, 1, dlq.closed)

	err := p.Publish(context.Background(), buildMessage(t))
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestMessageBuilder_InvalidValue(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestMessageBuilder_Defaults(t *testing.T) {
	msg, err := NewMessage().WithKey("k").WithValue("v").WithCorrelationID("").Build()
	require.NoError(t, err)

	assert.NotEmpty(t, msg.GetEventID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])
	assert.Empty(t, msg.GetCorrelationID())

	var v string
	require.NoError(t, msg.DecodeValue(&v))
	assert.Equal(t, "v", v)
}
