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

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"

	"github.com/maxiaolu1981/light/internal/pkg/options"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// KafkaPublisher 把事件写入 Kafka，消息 key 为 store/key，同一文档的事件落在同一分区.
type KafkaPublisher struct {
	writer *kafka.Writer
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher 按选项创建 writer，不会立即连接 broker.
func NewKafkaPublisher(opts *options.KafkaOptions) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(opts.Brokers...),
			Topic:        opts.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequiredAcks(opts.RequiredAcks),
			Async:        opts.Async,
			BatchSize:    opts.BatchSize,
			BatchTimeout: opts.BatchTimeout,
			MaxAttempts:  opts.MaxAttempts,
			WriteTimeout: opts.WriteTimeout,
		},
	}
}

// Message 事件对应的 Kafka 消息.
func Message(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(event.Store + "/" + event.Key),
		Value: value,
		Time:  event.Time,
		Headers: []kafka.Header{
			{Key: "operation", Value: []byte(event.Op)},
			{Key: "driver", Value: []byte(event.Driver)},
		},
	}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := Message(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(ctx, msg)
}

// Close 刷出缓冲中的消息并关闭连接.
func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
