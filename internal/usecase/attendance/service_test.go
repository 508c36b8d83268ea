package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/meetsched-team/meetsched/errors"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
)

// stubMeetingRepo serves a fixed set of meetings; everything else panics
// through the embedded nil interface.
type stubMeetingRepo struct {
	repositories.MeetingRepository
	meetings  map[uuid.UUID]*entities.Meeting
	attendees map[uuid.UUID][]uuid.UUID
}

func (r *stubMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMeetingRepo) ListAttendeeIDs(_ context.Context, meetingID uuid.UUID) ([]uuid.UUID, error) {
	return r.attendees[meetingID], nil
}

type memAttendanceRepo struct {
	records map[string]*entities.AttendanceRecord
}

func key(meetingID, userID uuid.UUID) string {
	return meetingID.String() + "/" + userID.String()
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: make(map[string]*entities.AttendanceRecord)}
}

func (r *memAttendanceRepo) Create(_ context.Context, record *entities.AttendanceRecord) error {
	record.ID = uuid.New()
	cp := *record
	r.records[key(record.MeetingID, record.UserID)] = &cp
	return nil
}

func (r *memAttendanceRepo) FindByMeetingAndUser(_ context.Context, meetingID, userID uuid.UUID) (*entities.AttendanceRecord, error) {
	rec, ok := r.records[key(meetingID, userID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	cp.Sessions = append(cp.Sessions[:0:0], rec.Sessions...)
	return &cp, nil
}

func (r *memAttendanceRepo) Update(_ context.Context, record *entities.AttendanceRecord) error {
	cp := *record
	r.records[key(record.MeetingID, record.UserID)] = &cp
	return nil
}

func (r *memAttendanceRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) ([]*entities.AttendanceRecord, error) {
	var out []*entities.AttendanceRecord
	for _, rec := range r.records {
		if rec.MeetingID == meetingID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memAttendanceRepo) FindStale(_ context.Context, cutoff time.Time) ([]*entities.AttendanceRecord, error) {
	var out []*entities.AttendanceRecord
	for _, rec := range r.records {
		if rec.IsOnline && rec.LastHeartbeatAt != nil && rec.LastHeartbeatAt.Before(cutoff) {
			cp := *rec
			cp.Sessions = append(cp.Sessions[:0:0], rec.Sessions...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

var meetingStart = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type presenceFixture struct {
	svc       *Service
	records   *memAttendanceRepo
	meetings  *stubMeetingRepo
	meetingID uuid.UUID
	userID    uuid.UUID
}

// newPresenceFixture builds a running meeting with one attendee
func newPresenceFixture(t *testing.T) *presenceFixture {
	t.Helper()

	meetingID := uuid.New()
	userID := uuid.New()
	startedAt := meetingStart
	meetings := &stubMeetingRepo{
		meetings: map[uuid.UUID]*entities.Meeting{
			meetingID: {
				ID:              meetingID,
				Name:            "Running meeting",
				StartTime:       meetingStart,
				DurationMinutes: 60,
				CreatorID:       uuid.New(),
				Status:          entities.MeetingStatusApproved,
				Started:         true,
				StartedAt:       &startedAt,
			},
		},
		attendees: map[uuid.UUID][]uuid.UUID{
			meetingID: {userID},
		},
	}
	records := newMemAttendanceRepo()

	return &presenceFixture{
		svc:       NewService(records, meetings, DefaultThresholds(), zap.NewNop()),
		records:   records,
		meetings:  meetings,
		meetingID: meetingID,
		userID:    userID,
	}
}

func TestHeartbeat_FirstOpensSession(t *testing.T) {
	f := newPresenceFixture(t)

	now := meetingStart.Add(5 * time.Minute)
	rec, err := f.svc.Heartbeat(context.Background(), f.meetingID, f.userID, now)
	if err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}
	if len(rec.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(rec.Sessions))
	}
	if !rec.Sessions[0].JoinedAt.Equal(now) || rec.Sessions[0].LeftAt != nil {
		t.Fatalf("expected one open session joined at %v, got %+v", now, rec.Sessions[0])
	}
	if !rec.IsOnline || rec.LastHeartbeatAt == nil {
		t.Fatal("record not marked online")
	}
}

func TestHeartbeat_WithinLivenessKeepsSession(t *testing.T) {
	f := newPresenceFixture(t)
	ctx := context.Background()

	t0 := meetingStart.Add(5 * time.Minute)
	if _, err := f.svc.Heartbeat(ctx, f.meetingID, f.userID, t0); err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}

	// Heartbeats every 10 seconds stay inside the 15s liveness threshold.
	var rec *entities.AttendanceRecord
	var err error
	for i := 1; i <= 6; i++ {
		rec, err = f.svc.Heartbeat(ctx, f.meetingID, f.userID, t0.Add(time.Duration(i)*10*time.Second))
		if err != nil {
			t.Fatalf("heartbeat %d failed: %v", i, err)
		}
	}
	if len(rec.Sessions) != 1 {
		t.Fatalf("repeated heartbeats must not open new sessions, got %d", len(rec.Sessions))
	}
	if rec.TotalDurationSeconds != 60 {
		t.Fatalf("expected 60s of presence, got %d", rec.TotalDurationSeconds)
	}
}

func TestHeartbeat_GapSplitsSessions(t *testing.T) {
	f := newPresenceFixture(t)
	ctx := context.Background()

	t0 := meetingStart.Add(5 * time.Minute)
	f.svc.Heartbeat(ctx, f.meetingID, f.userID, t0)
	t1 := t0.Add(10 * time.Second)
	f.svc.Heartbeat(ctx, f.meetingID, f.userID, t1)

	// Silence for 2 minutes, then the client comes back.
	t2 := t1.Add(2 * time.Minute)
	rec, err := f.svc.Heartbeat(ctx, f.meetingID, f.userID, t2)
	if err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}
	if len(rec.Sessions) != 2 {
		t.Fatalf("expected the gap to split into 2 sessions, got %d", len(rec.Sessions))
	}
	first := rec.Sessions[0]
	if first.LeftAt == nil || !first.LeftAt.Equal(t1) {
		t.Fatalf("first session must close at the last heartbeat %v, got %+v", t1, first)
	}
	if first.DurationSeconds == nil || *first.DurationSeconds != 10 {
		t.Fatalf("first session duration = %v, want 10s", first.DurationSeconds)
	}
	second := rec.Sessions[1]
	if !second.JoinedAt.Equal(t2) || second.LeftAt != nil {
		t.Fatalf("second session must open at %v, got %+v", t2, second)
	}
	// The 2 silent minutes never count toward the total.
	if rec.TotalDurationSeconds != 10 {
		t.Fatalf("total = %d, want 10", rec.TotalDurationSeconds)
	}
}

func TestHeartbeat_NotRunning(t *testing.T) {
	f := newPresenceFixture(t)
	f.meetings.meetings[f.meetingID].Started = false

	_, err := f.svc.Heartbeat(context.Background(), f.meetingID, f.userID, meetingStart)
	appErr, ok := err.(apperrors.AppError)
	if !ok || appErr.Code != apperrors.ErrorCode_INVALID_STATE {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestHeartbeat_NotAMember(t *testing.T) {
	f := newPresenceFixture(t)

	_, err := f.svc.Heartbeat(context.Background(), f.meetingID, uuid.New(), meetingStart.Add(time.Minute))
	appErr, ok := err.(apperrors.AppError)
	if !ok || appErr.Code != apperrors.ErrorCode_PERMISSION_DENIED {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestHeartbeat_CreatorAndScribeAllowed(t *testing.T) {
	f := newPresenceFixture(t)
	ctx := context.Background()
	m := f.meetings.meetings[f.meetingID]
	scribeID := uuid.New()
	m.CurrentScribeID = &scribeID

	now := meetingStart.Add(time.Minute)
	if _, err := f.svc.Heartbeat(ctx, f.meetingID, m.CreatorID, now); err != nil {
		t.Fatalf("creator heartbeat failed: %v", err)
	}
	if _, err := f.svc.Heartbeat(ctx, f.meetingID, scribeID, now); err != nil {
		t.Fatalf("scribe heartbeat failed: %v", err)
	}
}

func TestLeave(t *testing.T) {
	f := newPresenceFixture(t)
	ctx := context.Background()

	t0 := meetingStart.Add(5 * time.Minute)
	f.svc.Heartbeat(ctx, f.meetingID, f.userID, t0)

	now := t0.Add(20 * time.Minute)
	rec, err := f.svc.Leave(ctx, f.meetingID, f.userID, now)
	if err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if rec.IsOnline || rec.LastHeartbeatAt != nil {
		t.Fatal("record still online after leave")
	}
	if rec.Sessions[0].LeftAt == nil || !rec.Sessions[0].LeftAt.Equal(now) {
		t.Fatalf("session must close at leave time, got %+v", rec.Sessions[0])
	}
	if rec.TotalDurationSeconds != 20*60 {
		t.Fatalf("total = %d, want %d", rec.TotalDurationSeconds, 20*60)
	}
}

func TestLeave_NoRecord(t *testing.T) {
	f := newPresenceFixture(t)

	_, err := f.svc.Leave(context.Background(), f.meetingID, f.userID, meetingStart)
	appErr, ok := err.(apperrors.AppError)
	if !ok || appErr.Code != apperrors.ErrorCode_NOT_FOUND {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRejoinAfterLeave(t *testing.T) {
	f := newPresenceFixture(t)
	ctx := context.Background()

	t0 := meetingStart.Add(5 * time.Minute)
	f.svc.Heartbeat(ctx, f.meetingID, f.userID, t0)
	f.svc.Leave(ctx, f.meetingID, f.userID, t0.Add(time.Minute))

	rec, err := f.svc.Heartbeat(ctx, f.meetingID, f.userID, t0.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("rejoin heartbeat failed: %v", err)
	}
	if len(rec.Sessions) != 2 {
		t.Fatalf("rejoin must open a fresh session, got %d", len(rec.Sessions))
	}
	if !rec.IsOnline {
		t.Fatal("record not back online")
	}
}

func TestSweepStaleSessions(t *testing.T) {
	f := newPresenceFixture(t)
	ctx := context.Background()

	t0 := meetingStart.Add(5 * time.Minute)
	f.svc.Heartbeat(ctx, f.meetingID, f.userID, t0)
	t1 := t0.Add(10 * time.Second)
	f.svc.Heartbeat(ctx, f.meetingID, f.userID, t1)

	// Beyond the 30s staleness threshold.
	now := t1.Add(45 * time.Second)
	if got := f.svc.SweepStaleSessions(ctx, now); got != 1 {
		t.Fatalf("expected 1 closed record, got %d", got)
	}

	rec, _ := f.records.FindByMeetingAndUser(ctx, f.meetingID, f.userID)
	if rec.IsOnline || rec.LastHeartbeatAt != nil {
		t.Fatal("stale record still online")
	}
	// The session closes at the last heartbeat, not at sweep time.
	if rec.Sessions[0].LeftAt == nil || !rec.Sessions[0].LeftAt.Equal(t1) {
		t.Fatalf("session must close at the last heartbeat %v, got %+v", t1, rec.Sessions[0])
	}

	if got := f.svc.SweepStaleSessions(ctx, now); got != 0 {
		t.Fatalf("sweep is not idempotent, second run closed %d", got)
	}
}

func TestSweepStaleSessions_SkipsFresh(t *testing.T) {
	f := newPresenceFixture(t)
	ctx := context.Background()

	t0 := meetingStart.Add(5 * time.Minute)
	f.svc.Heartbeat(ctx, f.meetingID, f.userID, t0)

	if got := f.svc.SweepStaleSessions(ctx, t0.Add(10*time.Second)); got != 0 {
		t.Fatalf("fresh record swept, closed %d", got)
	}
}

func TestAttendancePercentage_Clamped(t *testing.T) {
	f := newPresenceFixture(t)
	ctx := context.Background()

	// Present from the very start; percentage tracks the running meeting
	// duration and never exceeds 100.
	f.svc.Heartbeat(ctx, f.meetingID, f.userID, meetingStart)
	rec, err := f.svc.Heartbeat(ctx, f.meetingID, f.userID, meetingStart.Add(10*time.Second))
	if err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}
	if rec.AttendancePercentage != 100 {
		t.Fatalf("full presence should be 100%%, got %d", rec.AttendancePercentage)
	}
}

func TestAttendancePercentage_PartialPresence(t *testing.T) {
	f := newPresenceFixture(t)
	ctx := context.Background()

	// Join half way into a 20 minute run and stay until the end.
	joined := meetingStart.Add(10 * time.Minute)
	var rec *entities.AttendanceRecord
	var err error
	for at := joined; !at.After(meetingStart.Add(20 * time.Minute)); at = at.Add(10 * time.Second) {
		rec, err = f.svc.Heartbeat(ctx, f.meetingID, f.userID, at)
		if err != nil {
			t.Fatalf("heartbeat at %v failed: %v", at, err)
		}
	}
	if rec.AttendancePercentage != 50 {
		t.Fatalf("expected 50%%, got %d", rec.AttendancePercentage)
	}
}

func TestGetAttendance_UnknownMeeting(t *testing.T) {
	f := newPresenceFixture(t)

	_, err := f.svc.GetAttendance(context.Background(), uuid.New())
	appErr, ok := err.(apperrors.AppError)
	if !ok || appErr.Code != apperrors.ErrorCode_NOT_FOUND {
		t.Fatalf("expected not found, got %v", err)
	}
}
