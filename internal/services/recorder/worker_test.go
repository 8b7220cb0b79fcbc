package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-canteen/internal/logger"
	"digital-canteen/internal/messaging"
	"digital-canteen/internal/models"
)

type stubNotifier struct {
	sent []*models.StatusUpdateMessage
	err  error
}

func (s *stubNotifier) PublishNotification(ctx context.Context, msg *models.StatusUpdateMessage) error {
	s.sent = append(s.sent, msg)
	return s.err
}

type stubSource struct {
	bodies [][]byte
	errs   []error
	closed bool
}

func (s *stubSource) StartConsuming(ctx context.Context, handler messaging.MessageHandler) error {
	for _, b := range s.bodies {
		s.errs = append(s.errs, handler(ctx, b))
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubSource) Close() error {
	s.closed = true
	return nil
}

func placedMessage() models.OrderPlacedMessage {
	return models.OrderPlacedMessage{
		OrderID:         "K3J9X0QPL",
		UserID:          "uid-1",
		CustomerName:    "Asha",
		DeliveryAddress: "Block C, Room 12",
		Items: []models.OrderLine{
			{ItemID: 1, Name: "Classic Burger", Quantity: 2, UnitPrice: decimal.NewFromInt(749)},
		},
		Subtotal:      decimal.NewFromInt(1498),
		Tax:           decimal.RequireFromString("74.9"),
		Total:         decimal.RequireFromString("1572.9"),
		PaymentMethod: models.MethodCard,
		PlacedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func encode(t *testing.T, msg models.OrderPlacedMessage) []byte {
	t.Helper()
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	return b
}

var insertSQL = regexp.QuoteMeta("INSERT INTO order_records")

// insertArgs matches any values for the eleven order record columns.
func insertArgs() []interface{} {
	args := make([]interface{}, 11)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestHandleMessage_RecordsAndNotifies(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(insertSQL).
		WithArgs("K3J9X0QPL", "uid-1", "Asha", "Block C, Room 12", pgxmock.AnyArg(),
			"1498", "74.9", "1572.9", "card", "placed", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	notifier := &stubNotifier{}
	w := NewWorker("recorder-1", mock, nil, notifier, logger.Discard())

	require.NoError(t, w.handleMessage(context.Background(), encode(t, placedMessage())))
	assert.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "K3J9X0QPL", notifier.sent[0].OrderID)
	assert.Equal(t, "placed", notifier.sent[0].NewStatus)
	assert.Equal(t, "1572.90", notifier.sent[0].Total)
	assert.Equal(t, "recorder-1", notifier.sent[0].ChangedBy)
}

func TestHandleMessage_DuplicateDeliveryIsIgnored(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(insertSQL).WithArgs(insertArgs()...).WillReturnResult(pgxmock.NewResult("INSERT", 0))

	notifier := &stubNotifier{}
	w := NewWorker("recorder-1", mock, nil, notifier, logger.Discard())

	require.NoError(t, w.handleMessage(context.Background(), encode(t, placedMessage())))
	assert.Empty(t, notifier.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleMessage_GuestOrderSkipped(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	msg := placedMessage()
	msg.UserID = ""

	w := NewWorker("recorder-1", mock, nil, &stubNotifier{}, logger.Discard())
	require.NoError(t, w.handleMessage(context.Background(), encode(t, msg)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleMessage_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body func(t *testing.T) []byte
	}{
		{"malformed json", func(t *testing.T) []byte { return []byte(`{"order_id":`) }},
		{"missing order id", func(t *testing.T) []byte {
			m := placedMessage()
			m.OrderID = ""
			return encode(t, m)
		}},
		{"no items", func(t *testing.T) []byte {
			m := placedMessage()
			m.Items = nil
			return encode(t, m)
		}},
		{"unknown payment method", func(t *testing.T) []byte {
			m := placedMessage()
			m.PaymentMethod = "cheque"
			return encode(t, m)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			w := NewWorker("recorder-1", mock, nil, &stubNotifier{}, logger.Discard())
			err = w.handleMessage(context.Background(), tt.body(t))
			assert.ErrorIs(t, err, messaging.ErrDiscard)
		})
	}
}

func TestHandleMessage_DatabaseErrorIsRetryable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(insertSQL).WithArgs(insertArgs()...).WillReturnError(errors.New("connection reset"))

	w := NewWorker("recorder-1", mock, nil, &stubNotifier{}, logger.Discard())
	err = w.handleMessage(context.Background(), encode(t, placedMessage()))
	require.Error(t, err)
	assert.NotErrorIs(t, err, messaging.ErrDiscard)
}

func TestHandleMessage_NotificationFailureStillAcks(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(insertSQL).WithArgs(insertArgs()...).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	notifier := &stubNotifier{err: errors.New("broker down")}
	w := NewWorker("recorder-1", mock, nil, notifier, logger.Discard())
	assert.NoError(t, w.handleMessage(context.Background(), encode(t, placedMessage())))
	assert.Len(t, notifier.sent, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStart_StopsOnCancel(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(insertSQL).WithArgs(insertArgs()...).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	src := &stubSource{bodies: [][]byte{encode(t, placedMessage())}}
	w := NewWorker("recorder-1", mock, src, &stubNotifier{}, logger.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = w.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, src.closed)
	require.Len(t, src.errs, 1)
	assert.NoError(t, src.errs[0])
}
