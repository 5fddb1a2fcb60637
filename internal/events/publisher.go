package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/orders-dashboard/internal/metrics"
	"github.com/orders-dashboard/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

const (
	channelPrefix = "dashboard."
	// ChannelPattern matches every activity channel.
	ChannelPattern = channelPrefix + "order.*"
)

func Channel(action model.ActivityAction) string {
	return channelPrefix + string(action)
}

// Publisher announces admin activity to other systems.
type Publisher interface {
	Publish(ctx context.Context, activity model.Activity) error
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, activity model.Activity) error {
	data, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, Channel(activity.Action), data).Err()
}

// MessageWriter is the subset of *kafka.Writer used for publishing.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish keys messages by order id so one order's history stays on one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, activity model.Activity) error {
	data, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(activity.OrderID, 10)),
		Value: data,
		Time:  activity.CreatedAt,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(activity.Action)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write activity to kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// ActivityRecorder persists activity for the audit log.
type ActivityRecorder interface {
	Record(ctx context.Context, activity *model.Activity) error
}

type AuditPublisher struct {
	recorder ActivityRecorder
}

func NewAuditPublisher(recorder ActivityRecorder) *AuditPublisher {
	return &AuditPublisher{recorder: recorder}
}

func (p *AuditPublisher) Publish(ctx context.Context, activity model.Activity) error {
	return p.recorder.Record(ctx, &activity)
}

type namedPublisher struct {
	name string
	pub  Publisher
}

// FanOut publishes to every added sink. One failing sink does not stop the others.
type FanOut struct {
	sinks []namedPublisher
}

func NewFanOut() *FanOut {
	return &FanOut{}
}

func (f *FanOut) Add(name string, p Publisher) {
	f.sinks = append(f.sinks, namedPublisher{name: name, pub: p})
}

func (f *FanOut) Len() int {
	return len(f.sinks)
}

func (f *FanOut) Publish(ctx context.Context, activity model.Activity) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.pub.Publish(ctx, activity); err != nil {
			metrics.ActivityPublishErrors.WithLabelValues(s.name).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
