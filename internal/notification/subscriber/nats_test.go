package subscriber

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/viniduminsara/ClearLens-Backend/pkg/messaging"
	"github.com/viniduminsara/ClearLens-Backend/pkg/messaging/events"
)

// stubMsg is a minimal jetstream.Msg for exercising handleMessage.
type stubMsg struct {
	subject string
	data    []byte
	acked   int
	naked   int
}

func (m *stubMsg) Metadata() (*jetstream.MsgMetadata, error) { return nil, nil }
func (m *stubMsg) Data() []byte                              { return m.data }
func (m *stubMsg) Headers() nats.Header                      { return nil }
func (m *stubMsg) Subject() string                           { return m.subject }
func (m *stubMsg) Reply() string                             { return "" }
func (m *stubMsg) Ack() error                                { m.acked++; return nil }
func (m *stubMsg) DoubleAck(_ context.Context) error         { m.acked++; return nil }
func (m *stubMsg) Nak() error                                { m.naked++; return nil }
func (m *stubMsg) NakWithDelay(_ time.Duration) error        { m.naked++; return nil }
func (m *stubMsg) InProgress() error                         { return nil }
func (m *stubMsg) Term() error                               { return nil }
func (m *stubMsg) TermWithReason(_ string) error             { return nil }

func Test_handleMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	createdPayload, _ := json.Marshal(&events.OrderCreatedEvent{
		OrderID:   uuid.New(),
		UserID:    uuid.New(),
		Amount:    1500.50,
		CreatedAt: time.Now(),
	})
	paidPayload, _ := json.Marshal(&events.OrderPaidEvent{
		OrderID: uuid.New(),
		UserID:  uuid.New(),
		Amount:  1500.50,
		PaidAt:  time.Now(),
	})

	testCases := []struct {
		name      string
		msg       *stubMsg
		expectAck int
		expectNak int
	}{
		{
			name:      "order created event is acked",
			msg:       &stubMsg{subject: messaging.OrderCreatedSubject, data: createdPayload},
			expectAck: 1,
		},
		{
			name:      "order paid event is acked",
			msg:       &stubMsg{subject: messaging.OrderPaidSubject, data: paidPayload},
			expectAck: 1,
		},
		{
			name:      "malformed payload is naked",
			msg:       &stubMsg{subject: messaging.OrderCreatedSubject, data: []byte("invalid data")},
			expectNak: 1,
		},
		{
			name:      "unknown subject is dropped with an ack",
			msg:       &stubMsg{subject: "order.refunded", data: []byte("{}")},
			expectAck: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			handleMessage(tc.msg, logger)

			// then
			if tc.msg.acked != tc.expectAck {
				t.Errorf("expected %d acks, got %d", tc.expectAck, tc.msg.acked)
			}
			if tc.msg.naked != tc.expectNak {
				t.Errorf("expected %d naks, got %d", tc.expectNak, tc.msg.naked)
			}
		})
	}
}
