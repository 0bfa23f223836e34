package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	skafka "github.com/segmentio/kafka-go"
)

// fakeWriter records the messages written.
type fakeWriter struct {
	msgs []skafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw, nil)
	err := p.Publish(context.Background(), "SHIP-42", map[string]string{"shipmentId": "42"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "SHIP-42" {
		t.Errorf("Expected key SHIP-42, got %s", fw.msgs[0].Key)
	}
	var body map[string]string
	if err := json.Unmarshal(fw.msgs[0].Value, &body); err != nil || body["shipmentId"] != "42" {
		t.Errorf("Unexpected body %s", fw.msgs[0].Value)
	}
}

func TestPublishWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewKafkaProducerWithWriter(&fakeWriter{err: boom}, nil)
	if err := p.Publish(context.Background(), "k", 1); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped broker error, got %v", err)
	}
}

func TestPublishMarshalError(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw, nil)
	if err := p.Publish(context.Background(), "k", make(chan int)); err == nil {
		t.Error("Expected a marshal error")
	}
	if len(fw.msgs) != 0 {
		t.Error("Expected nothing written")
	}
}
