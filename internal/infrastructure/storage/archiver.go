package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetsched-team/meetsched/internal/domain/repositories"
)

const archiveURLExpiry = 24 * time.Hour

// MinutesArchive renders a completed meeting's minutes to a plain-text
// document and uploads it to object storage. It backs the archive-url
// endpoint and is invoked best-effort when a meeting completes.
type MinutesArchive struct {
	client      *MinIOClient
	meetingRepo repositories.MeetingRepository
	minuteRepo  repositories.MinuteRepository
	logger      *zap.Logger
}

// NewMinutesArchive creates a new minutes archive
func NewMinutesArchive(
	client *MinIOClient,
	meetingRepo repositories.MeetingRepository,
	minuteRepo repositories.MinuteRepository,
	logger *zap.Logger,
) *MinutesArchive {
	return &MinutesArchive{
		client:      client,
		meetingRepo: meetingRepo,
		minuteRepo:  minuteRepo,
		logger:      logger,
	}
}

// ArchiveMeeting exports the meeting's minutes to storage. Uploads are
// retried with exponential backoff; object storage outages should not
// surface as lifecycle failures.
func (a *MinutesArchive) ArchiveMeeting(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := a.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to load meeting for archive: %w", err)
	}
	minutes, err := a.minuteRepo.FindByMeetingID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to load minutes for archive: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Meeting #%d: %s\n", meeting.MeetingNumber, meeting.Name)
	fmt.Fprintf(&b, "Scheduled: %s (%d minutes)\n", meeting.StartTime.Format(time.RFC3339), meeting.DurationMinutes)
	if meeting.StartedAt != nil {
		fmt.Fprintf(&b, "Started:   %s\n", meeting.StartedAt.Format(time.RFC3339))
	}
	if meeting.EndedAt != nil {
		fmt.Fprintf(&b, "Ended:     %s\n", meeting.EndedAt.Format(time.RFC3339))
	}
	b.WriteString("\n")
	for _, minute := range minutes {
		author := minute.AuthorID.String()
		if minute.Author != nil {
			author = minute.Author.Name
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", minute.SortOrder, author, minute.Content)
	}

	objectName := objectName(meeting.MeetingNumber)
	operation := func() error {
		return a.client.UploadText(ctx, objectName, b.String())
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		a.logger.Error("minutes archive upload failed",
			zap.String("meeting_id", meetingID.String()),
			zap.String("object", objectName),
			zap.Error(err))
		return fmt.Errorf("failed to upload minutes archive: %w", err)
	}

	a.logger.Info("minutes archived",
		zap.String("meeting_id", meetingID.String()),
		zap.String("object", objectName))
	return nil
}

// ArchiveURL returns a presigned download URL for a meeting's archive
func (a *MinutesArchive) ArchiveURL(ctx context.Context, meetingID uuid.UUID) (string, error) {
	meeting, err := a.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return "", fmt.Errorf("failed to load meeting: %w", err)
	}

	name := objectName(meeting.MeetingNumber)
	if err := a.client.StatFile(ctx, name); err != nil {
		return "", fmt.Errorf("archive not found for meeting %d: %w", meeting.MeetingNumber, err)
	}
	return a.client.GetFileURL(ctx, name, archiveURLExpiry)
}

func objectName(meetingNumber int) string {
	return fmt.Sprintf("minutes/%d.txt", meetingNumber)
}
