package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	sent     []published
	drainErr error
	closed   bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	c.sent = append(c.sent, published{subject, data})
	return nil
}

func (c *fakeConn) Drain() error { return c.drainErr }
func (c *fakeConn) Close()       { c.closed = true }

func TestSubject(t *testing.T) {
	assert.Equal(t, "rs1500.hotel.approval.requested", Subject("rs1500", SubjectHotelApprovalRequested))
	assert.Equal(t, "reservation.created", Subject("", SubjectReservationCreated))
}

func TestNATSPublisherEncodesEvents(t *testing.T) {
	conn := &fakeConn{}
	p := newNATSPublisher(conn, ".rs1500.", nil)
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	err := p.Publish(context.Background(), SubjectHotelApproved, HotelEvent{HotelID: 7, Name: "Fishtail Lodge", OccurredAt: at})
	require.NoError(t, err)
	require.Len(t, conn.sent, 1)
	assert.Equal(t, "rs1500.hotel.approval.approved", conn.sent[0].subject)
	assert.JSONEq(t, `{"hotel_id":7,"name":"Fishtail Lodge","occurred_at":"2024-05-01T09:30:00Z"}`, string(conn.sent[0].data))

	var got ReservationEvent
	require.NoError(t, p.Publish(context.Background(), SubjectReservationCreated, ReservationEvent{ReservationID: 3, HotelID: 7, GuestEmail: "guest@mail.test"}))
	require.NoError(t, json.Unmarshal(conn.sent[1].data, &got))
	assert.Equal(t, "rs1500.reservation.created", conn.sent[1].subject)
	assert.Equal(t, int64(3), got.ReservationID)
}

func TestNATSPublisherRejectsBadInput(t *testing.T) {
	conn := &fakeConn{}
	p := newNATSPublisher(conn, "", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, SubjectHotelApproved, HotelEvent{}), context.Canceled)

	assert.Error(t, p.Publish(context.Background(), SubjectHotelApproved, make(chan int)))
	assert.Empty(t, conn.sent)
}

func TestNATSPublisherClose(t *testing.T) {
	conn := &fakeConn{}
	require.NoError(t, newNATSPublisher(conn, "", nil).Close())
	assert.False(t, conn.closed)

	conn = &fakeConn{drainErr: errors.New("drain timeout")}
	assert.EqualError(t, newNATSPublisher(conn, "", nil).Close(), "drain timeout")
	assert.True(t, conn.closed)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), SubjectHotelApproved, HotelEvent{HotelID: 1}))
	assert.NoError(t, p.Close())
}
