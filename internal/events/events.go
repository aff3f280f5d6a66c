package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects, relative to the configured prefix.
const (
	SubjectHotelApprovalRequested = "hotel.approval.requested"
	SubjectHotelApproved          = "hotel.approval.approved"
	SubjectHotelRejected          = "hotel.approval.rejected"
	SubjectReservationCreated     = "reservation.created"
	SubjectPartnerRequestCreated  = "partner_request.created"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
	Close() error
}

// HotelEvent is the payload of every hotel.approval.* subject.
type HotelEvent struct {
	HotelID    int64     `json:"hotel_id"`
	Name       string    `json:"name"`
	OwnerEmail string    `json:"owner_email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ReservationEvent struct {
	ReservationID int64     `json:"reservation_id"`
	HotelID       int64     `json:"hotel_id"`
	GuestEmail    string    `json:"guest_email"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type PartnerRequestEvent struct {
	RequestID  int64     `json:"request_id"`
	HotelName  string    `json:"hotel_name"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// natsConn is the part of *nats.Conn the publisher uses.
type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
	Close()
}

type NATSPublisher struct {
	conn   natsConn
	prefix string
	logger *zap.Logger
}

func NewNATSPublisher(url, prefix string, logger *zap.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("rs1500-api"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return newNATSPublisher(conn, prefix, logger), nil
}

func newNATSPublisher(conn natsConn, prefix string, logger *zap.Logger) *NATSPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSPublisher{conn: conn, prefix: strings.Trim(prefix, "."), logger: logger}
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	full := Subject(p.prefix, subject)
	p.logger.Debug("publishing event", zap.String("subject", full), zap.Int("bytes", len(payload)))
	return p.conn.Publish(full, payload)
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// Subject joins prefix and subject with a dot, skipping an empty prefix.
func Subject(prefix, subject string) string {
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

// Noop discards events; used when NATS_URL is not configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close() error                               { return nil }
