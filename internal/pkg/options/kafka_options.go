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

package options

import (
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/component-base/validation/field"
	"github.com/spf13/pflag"
)

// KafkaOptions 文档变更事件的发布参数，Brokers 为空时不发布.
type KafkaOptions struct {
	Brokers      []string      `json:"brokers"       mapstructure:"brokers"`
	Topic        string        `json:"topic"         mapstructure:"topic"`
	RequiredAcks int           `json:"required-acks" mapstructure:"required-acks"`
	Async        bool          `json:"async"         mapstructure:"async"`
	BatchSize    int           `json:"batch-size"    mapstructure:"batch-size"`
	BatchTimeout time.Duration `json:"batch-timeout" mapstructure:"batch-timeout"`
	MaxAttempts  int           `json:"max-attempts"  mapstructure:"max-attempts"`
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
}

func NewKafkaOptions() *KafkaOptions {
	return &KafkaOptions{
		Brokers:      []string{},
		Topic:        "light.documents",
		RequiredAcks: 1,
		Async:        false,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		WriteTimeout: 5 * time.Second,
	}
}

// Enabled 是否配置了 broker.
func (k *KafkaOptions) Enabled() bool {
	return len(k.Brokers) > 0
}

func (k *KafkaOptions) Validate() []error {
	if !k.Enabled() {
		return nil
	}

	errs := field.ErrorList{}
	path := field.NewPath("kafka")

	if k.Topic == "" {
		errs = append(errs, field.Required(path.Child("topic"), "配置brokers时必须指定topic"))
	}
	if k.RequiredAcks < -1 || k.RequiredAcks > 1 {
		errs = append(errs, field.Invalid(path.Child("required-acks"), k.RequiredAcks, "必须是-1、0或1"))
	}
	if k.BatchSize < 1 {
		errs = append(errs, field.Invalid(path.Child("batch-size"), k.BatchSize, "必须大于0"))
	}
	if k.BatchTimeout < time.Millisecond {
		errs = append(errs, field.Invalid(path.Child("batch-timeout"), k.BatchTimeout, "不能小于1ms"))
	}
	if k.MaxAttempts < 1 {
		errs = append(errs, field.Invalid(path.Child("max-attempts"), k.MaxAttempts, "必须大于0"))
	}

	agg := errs.ToAggregate()
	if agg == nil {
		return nil
	}

	return agg.Errors()
}

func (k *KafkaOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&k.Brokers, "kafka.brokers", k.Brokers, ""+
		"Kafka broker addresses. When set, document writes are published as change events.")
	fs.StringVar(&k.Topic, "kafka.topic", k.Topic, "Topic of document change events.")
	fs.IntVar(&k.RequiredAcks, "kafka.required-acks", k.RequiredAcks, "Acks required from brokers: -1 all, 0 none, 1 leader.")
	fs.BoolVar(&k.Async, "kafka.async", k.Async, "Publish without waiting for broker acknowledgement.")
	fs.IntVar(&k.BatchSize, "kafka.batch-size", k.BatchSize, "Maximum messages per batch.")
	fs.DurationVar(&k.BatchTimeout, "kafka.batch-timeout", k.BatchTimeout, "Maximum time before an incomplete batch is flushed.")
	fs.IntVar(&k.MaxAttempts, "kafka.max-attempts", k.MaxAttempts, "Delivery attempts per message.")
	fs.DurationVar(&k.WriteTimeout, "kafka.write-timeout", k.WriteTimeout, "Timeout of a single write.")
}
