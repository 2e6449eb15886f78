// Copyright (c) 2025 马晓璐
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package changefeed

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/light/internal/light/backend/backendtest"
	"github.com/maxiaolu1981/light/internal/light/backend/memory"
	"github.com/maxiaolu1981/light/internal/pkg/options"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)

	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true

	return nil
}

func TestPublish_Semantics(t *testing.T) {
	backendtest.Run(t, Publish(memory.New("feed"), "feed", &fakePublisher{}))
}

func TestPublish_Events(t *testing.T) {
	pub := &fakePublisher{}
	d := Publish(memory.New("feed"), "feed", pub)
	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	d.(*publishing).now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, d.Put(ctx, "doc", []byte(`{}`)))
	require.NoError(t, d.Delete(ctx, "doc"))
	require.Error(t, d.Delete(ctx, "doc"))
	require.Error(t, d.Put(ctx, "../bad", []byte(`{}`)))

	assert.Equal(t, []Event{
		{Op: OpPut, Key: "doc", Driver: "memory", Store: "feed", Time: now},
		{Op: OpDelete, Key: "doc", Driver: "memory", Store: "feed", Time: now},
	}, pub.events)

	require.NoError(t, d.Close())
	assert.True(t, pub.closed)
}

func TestPublish_FailureDoesNotFailWrite(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	d := Publish(memory.New("feed"), "feed", pub)

	require.NoError(t, d.Put(context.Background(), "doc", []byte(`{}`)))

	got, err := d.Get(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}

func TestMessage(t *testing.T) {
	event := Event{Op: OpPut, Key: "doc", Driver: "disk", Store: "demo_db", Time: time.Unix(0, 0).UTC()}

	msg, err := Message(event)
	require.NoError(t, err)

	assert.Equal(t, "demo_db/doc", string(msg.Key))
	assert.Equal(t, []kafka.Header{
		{Key: "operation", Value: []byte("put")},
		{Key: "driver", Value: []byte("disk")},
	}, msg.Headers)

	var decoded map[string]interface{}
	require.NoError(t, stdjson.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "put", decoded["op"])
	assert.Equal(t, "doc", decoded["key"])
	assert.Equal(t, "demo_db", decoded["store"])
	assert.Equal(t, "1970-01-01T00:00:00Z", decoded["time"])
}

func TestNewKafkaPublisher(t *testing.T) {
	opts := options.NewKafkaOptions()
	opts.Brokers = []string{"127.0.0.1:9092", "127.0.0.1:9093"}
	opts.RequiredAcks = -1

	pub := NewKafkaPublisher(opts)
	w := pub.writer

	assert.Equal(t, "light.documents", w.Topic)
	assert.Equal(t, "tcp", w.Addr.Network())
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.Equal(t, opts.BatchSize, w.BatchSize)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.NoError(t, pub.Close())
}
