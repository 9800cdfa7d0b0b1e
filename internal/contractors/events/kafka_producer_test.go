package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/contractors/internal/contractors/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testProducer(w KafkaWriter, logger *zap.Logger) *Producer {
	p := newProducer(w, logger)
	p.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return p
}

func onboardActivity() models.ActivityItem {
	return models.ActivityItem{
		ID:             "a-1",
		Title:          "Contractor onboarded",
		Description:    "John Smith added to the system",
		ContractorID:   "c1",
		ContractorName: "John Smith",
		Timestamp:      time.Date(2024, 10, 2, 9, 0, 0, 0, time.UTC),
		Detail:         models.OnboardDetail{},
	}
}

func TestNewProducer(t *testing.T) {
	producer := NewProducer([]string{"localhost:9092"}, "contractor-events", zaptest.NewLogger(t))

	assert.NotNil(t, producer.writer)
	assert.NotNil(t, producer.events)
	assert.NotNil(t, producer.closeChan)
	assert.Equal(t, "kafka_producer", producer.logger.Check(zap.InfoLevel, "").LoggerName)

	w, ok := producer.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "contractor-events", w.Topic)
}

func TestNewEvents(t *testing.T) {
	activity := NewActivityEvent(onboardActivity())
	assert.Equal(t, ActivityRecorded, activity.Type)
	assert.Equal(t, "c1", activity.ContractorID)
	assert.Nil(t, activity.Tickets)

	batch := models.TicketBatch{Parent: models.ParentTicket{TicketHeader: models.TicketHeader{ID: "zd-1", ContractorID: "c2"}}}
	tickets := NewTicketsEvent(batch)
	assert.Equal(t, TicketsCreated, tickets.Type)
	assert.Equal(t, "c2", tickets.ContractorID)
	assert.Nil(t, tickets.Activity)
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		producer := testProducer(new(MockKafkaWriter), zaptest.NewLogger(t))

		producer.Produce(NewActivityEvent(onboardActivity()))

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := testProducer(new(MockKafkaWriter), zap.New(core))
		producer.events = make(chan Event, 1)

		producer.Produce(NewActivityEvent(onboardActivity()))
		producer.Produce(NewActivityEvent(onboardActivity()))

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("contractor_id", "c1")).Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	event := NewActivityEvent(onboardActivity())

	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
		producer := testProducer(mockWriter, zaptest.NewLogger(t))

		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:     []byte("c1"),
				Value:   mustMarshal(t, event),
				Headers: []kafka.Header{{Key: "event_type", Value: []byte(ActivityRecorded)}},
			},
		})
	})

	t.Run("payload carries the tagged activity", func(t *testing.T) {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(mustMarshal(t, event), &decoded))

		assert.Equal(t, "activity_recorded", decoded["type"])
		activity, ok := decoded["activity"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "onboard", activity["type"])
		assert.NotContains(t, decoded, "tickets")
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		producer := testProducer(mockWriter, zap.New(core))

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("contractor_id", "c1")).Len())
		mockWriter.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})

	t.Run("transient write error is retried", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil).Once()
		producer := testProducer(mockWriter, zap.New(core))

		producer.sendEvent(context.Background(), event)

		mockWriter.AssertNumberOfCalls(t, "WriteMessages", 2)
		assert.Equal(t, 1, recorded.FilterMessage("Retrying event write").Len())
		assert.Equal(t, 0, recorded.FilterMessage("Failed to produce event").Len())
	})

	t.Run("write error after retries", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))
		producer := testProducer(mockWriter, zap.New(core))
		producer.maxRetries = 2

		producer.sendEvent(context.Background(), event)

		mockWriter.AssertNumberOfCalls(t, "WriteMessages", 3)
		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_EventLoop(t *testing.T) {
	written := make(chan []kafka.Message, 1)
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		written <- args.Get(1).([]kafka.Message)
	})
	mockWriter.On("Close").Return(nil)

	producer := testProducer(mockWriter, zaptest.NewLogger(t))
	go producer.eventLoop()

	producer.Produce(NewActivityEvent(onboardActivity()))

	select {
	case msgs := <-written:
		require.Len(t, msgs, 1)
		assert.Equal(t, []byte("c1"), msgs[0].Key)
	case <-time.After(time.Second):
		t.Fatal("event was not written")
	}

	producer.Close()
}

func TestProducer_CloseFlushesQueue(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	mockWriter.On("Close").Return(nil)

	producer := testProducer(mockWriter, zaptest.NewLogger(t))
	producer.Produce(NewActivityEvent(onboardActivity()))
	producer.Produce(NewTicketsEvent(models.TicketBatch{}))
	go producer.eventLoop()

	producer.Close()

	mockWriter.AssertNumberOfCalls(t, "WriteMessages", 2)
	mockWriter.AssertCalled(t, "Close")
	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}
}

func TestNopProducer(t *testing.T) {
	var p NopProducer
	assert.NotPanics(t, func() {
		p.Produce(NewActivityEvent(onboardActivity()))
		p.Close()
	})
}

func mustMarshal(t *testing.T, ev Event) []byte {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return data
}
