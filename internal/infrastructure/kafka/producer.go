package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/catalog-sync/internal/cfg"
	"github.com/DRSN-tech/catalog-sync/internal/usecase"
	"github.com/DRSN-tech/catalog-sync/pkg/e"
	"github.com/DRSN-tech/catalog-sync/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	EventSyncFinished = "catalog.sync.finished"
	EventItemApproved = "catalog.item.approved"

	eventTypeHeader = "event_type"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует события каталога. Полезная нагрузка — google.protobuf.Struct.
type Producer struct {
	writer messageWriter
	logger logger.Logger
	cfg    *cfg.KafkaCfg
	now    func() time.Time
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// PublishSyncFinished отправляет итог запуска синхронизации, ключ — id запуска.
func (p *Producer) PublishSyncFinished(ctx context.Context, report *usecase.SyncReport) error {
	failed := make([]interface{}, 0, len(report.Failed))
	for _, f := range report.Failed {
		failed = append(failed, map[string]interface{}{
			"external_id": f.ExternalID,
			"code":        f.Code,
			"page":        f.Page,
			"reason":      f.Reason,
		})
	}

	return p.publish(ctx, EventSyncFinished, report.RunID, map[string]interface{}{
		"run_id":      report.RunID,
		"status":      string(report.Status),
		"count":       report.Count,
		"pages":       report.Pages,
		"failed":      failed,
		"error":       report.Error,
		"started_at":  report.StartedAt.UTC().Format(time.RFC3339Nano),
		"finished_at": report.FinishedAt.UTC().Format(time.RFC3339Nano),
	})
}

// PublishItemApproved отправляет событие согласования, ключ — код товара.
func (p *Producer) PublishItemApproved(ctx context.Context, event *usecase.ItemApprovedEvent) error {
	return p.publish(ctx, EventItemApproved, event.Code, map[string]interface{}{
		"code":        event.Code,
		"approved_at": event.ApprovedAt.UTC().Format(time.RFC3339Nano),
	})
}

func (p *Producer) publish(ctx context.Context, eventType, key string, payload map[string]interface{}) error {
	value, err := p.GetPayloadBytes(eventType, payload)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: eventTypeHeader, Value: []byte(eventType)}},
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetPayloadBytes оборачивает payload в конверт события и сериализует в protobuf.
func (p *Producer) GetPayloadBytes(eventType string, payload map[string]interface{}) ([]byte, error) {
	event, err := structpb.NewStruct(map[string]interface{}{
		"event_id":        uuid.NewString(),
		"event_type":      eventType,
		"event_timestamp": p.now().UnixNano(),
		"payload":         payload,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return proto.Marshal(event)
}

func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		err := conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoopPublisher используется, когда брокеры Kafka не настроены.
type NoopPublisher struct{}

func (NoopPublisher) PublishSyncFinished(context.Context, *usecase.SyncReport) error {
	return nil
}

func (NoopPublisher) PublishItemApproved(context.Context, *usecase.ItemApprovedEvent) error {
	return nil
}
