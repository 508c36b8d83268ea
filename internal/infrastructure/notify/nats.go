package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/meetsched-team/meetsched/internal/domain/entities"
)

// Subjects for meeting lifecycle events. Consumers (mailer, chat bridge)
// subscribe to meetsched.meetings.> and dispatch on the suffix.
const (
	SubjectMeetingReminder  = "meetsched.meetings.reminder"
	SubjectMeetingCancelled = "meetsched.meetings.cancelled"
	SubjectMeetingCompleted = "meetsched.meetings.completed"
)

// NATSPublisher publishes meeting lifecycle events to NATS
type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher connects to NATS. The initial connect is retried with
// exponential backoff so the service survives a broker that comes up after
// it does; once connected, the nats client reconnects on its own.
func NewNATSPublisher(url string, logger *zap.Logger) (*NATSPublisher, error) {
	var conn *nats.Conn
	connect := func() error {
		var err error
		conn, err = nats.Connect(url,
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", zap.Error(err))
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
			}),
		)
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	logger.Info("nats connected", zap.String("url", url))
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// meetingEvent is the wire payload shared by all lifecycle subjects
type meetingEvent struct {
	MeetingID     uuid.UUID   `json:"meeting_id"`
	MeetingNumber int         `json:"meeting_number"`
	Name          string      `json:"name"`
	StartTime     time.Time   `json:"start_time"`
	CreatorID     uuid.UUID   `json:"creator_id"`
	AttendeeIDs   []uuid.UUID `json:"attendee_ids,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	EmittedAt     time.Time   `json:"emitted_at"`
}

// MeetingReminder notifies attendees of an upcoming meeting
func (p *NATSPublisher) MeetingReminder(ctx context.Context, meeting *entities.Meeting, attendeeIDs []uuid.UUID) error {
	return p.publish(ctx, SubjectMeetingReminder, meetingEvent{
		MeetingID:     meeting.ID,
		MeetingNumber: meeting.MeetingNumber,
		Name:          meeting.Name,
		StartTime:     meeting.StartTime,
		CreatorID:     meeting.CreatorID,
		AttendeeIDs:   attendeeIDs,
		EmittedAt:     time.Now().UTC(),
	})
}

// MeetingCancelled notifies that a meeting was cancelled
func (p *NATSPublisher) MeetingCancelled(ctx context.Context, meeting *entities.Meeting, reason string) error {
	return p.publish(ctx, SubjectMeetingCancelled, meetingEvent{
		MeetingID:     meeting.ID,
		MeetingNumber: meeting.MeetingNumber,
		Name:          meeting.Name,
		StartTime:     meeting.StartTime,
		CreatorID:     meeting.CreatorID,
		Reason:        reason,
		EmittedAt:     time.Now().UTC(),
	})
}

// MeetingCompleted notifies that a meeting ran to completion
func (p *NATSPublisher) MeetingCompleted(ctx context.Context, meeting *entities.Meeting) error {
	return p.publish(ctx, SubjectMeetingCompleted, meetingEvent{
		MeetingID:     meeting.ID,
		MeetingNumber: meeting.MeetingNumber,
		Name:          meeting.Name,
		StartTime:     meeting.StartTime,
		CreatorID:     meeting.CreatorID,
		EmittedAt:     time.Now().UTC(),
	})
}

func (p *NATSPublisher) publish(_ context.Context, subject string, event meetingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Close drains pending publishes and closes the connection
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("nats drain failed", zap.Error(err))
		p.conn.Close()
	}
}
