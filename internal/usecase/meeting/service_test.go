package meeting

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/meetsched-team/meetsched/errors"
	"github.com/meetsched-team/meetsched/internal/domain/entities"
	"github.com/meetsched-team/meetsched/internal/domain/repositories"
	"github.com/meetsched-team/meetsched/internal/usecase/conflict"
)

// memMeetingRepo is an in-memory MeetingRepository with the same guard
// semantics as the SQL implementation.
type memMeetingRepo struct {
	mu        sync.Mutex
	meetings  map[uuid.UUID]*entities.Meeting
	attendees map[uuid.UUID][]*entities.MeetingAttendee
	nextNum   int
}

func newMemMeetingRepo() *memMeetingRepo {
	return &memMeetingRepo{
		meetings:  make(map[uuid.UUID]*entities.Meeting),
		attendees: make(map[uuid.UUID][]*entities.MeetingAttendee),
		nextNum:   1,
	}
}

// put seeds a meeting directly, bypassing the service
func (r *memMeetingRepo) put(m *entities.Meeting, attendeeIDs ...uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.MeetingNumber == 0 {
		m.MeetingNumber = r.nextNum
		r.nextNum++
	}
	cp := *m
	r.meetings[m.ID] = &cp
	for _, id := range attendeeIDs {
		r.attendees[m.ID] = append(r.attendees[m.ID], &entities.MeetingAttendee{
			MeetingID: m.ID,
			UserID:    id,
		})
	}
}

func (r *memMeetingRepo) get(id uuid.UUID) *entities.Meeting {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meetings[id]
}

func (r *memMeetingRepo) Create(_ context.Context, meeting *entities.Meeting, attendees []*entities.MeetingAttendee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	meeting.ID = uuid.New()
	meeting.MeetingNumber = r.nextNum
	r.nextNum++
	cp := *meeting
	r.meetings[meeting.ID] = &cp
	for _, a := range attendees {
		a.MeetingID = meeting.ID
		r.attendees[meeting.ID] = append(r.attendees[meeting.ID], a)
	}
	return nil
}

func (r *memMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMeetingRepo) FindByIDWithAttendees(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	m, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	m.Attendees = append([]*entities.MeetingAttendee(nil), r.attendees[id]...)
	r.mu.Unlock()
	return m, nil
}

func (r *memMeetingRepo) Update(_ context.Context, meeting *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meetings[meeting.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *meeting
	r.meetings[meeting.ID] = &cp
	return nil
}

func (r *memMeetingRepo) ReplaceAttendees(_ context.Context, meetingID uuid.UUID, attendees []*entities.MeetingAttendee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range attendees {
		a.MeetingID = meetingID
	}
	r.attendees[meetingID] = attendees
	return nil
}

func (r *memMeetingRepo) ListAttendeeIDs(_ context.Context, meetingID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for _, a := range r.attendees[meetingID] {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

func (r *memMeetingRepo) List(_ context.Context, _ repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range r.meetings {
		cp := *m
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *memMeetingRepo) FindVenueConflicts(_ context.Context, venueID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range r.meetings {
		if excludeID != nil && m.ID == *excludeID {
			continue
		}
		if m.VenueID != venueID || !m.OccupiesResources() {
			continue
		}
		if conflict.Overlaps(start, end, m.StartTime, m.EndTime()) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMeetingRepo) FindAttendeeConflicts(_ context.Context, userIDs []uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (map[uuid.UUID][]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID][]*entities.Meeting)
	for _, m := range r.meetings {
		if excludeID != nil && m.ID == *excludeID {
			continue
		}
		if !m.OccupiesResources() || !conflict.Overlaps(start, end, m.StartTime, m.EndTime()) {
			continue
		}
		for _, a := range r.attendees[m.ID] {
			for _, uid := range userIDs {
				if a.UserID == uid {
					cp := *m
					out[uid] = append(out[uid], &cp)
				}
			}
		}
	}
	return out, nil
}

func (r *memMeetingRepo) UpdateStatusIf(_ context.Context, id uuid.UUID, expected, next entities.MeetingStatus, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if m.Status != expected {
		return false, nil
	}
	m.Status = next
	for k, v := range updates {
		switch k {
		case "approved_at":
			t := v.(time.Time)
			m.ApprovedAt = &t
		case "approval_comment":
			s := v.(string)
			m.ApprovalComment = &s
		case "reject_reason":
			s := v.(string)
			m.RejectReason = &s
		case "rejected_at":
			t := v.(time.Time)
			m.RejectedAt = &t
		case "cancel_reason":
			s := v.(string)
			m.CancelReason = &s
		case "cancelled_at":
			t := v.(time.Time)
			m.CancelledAt = &t
		}
	}
	return true, nil
}

func (r *memMeetingRepo) MarkStartedIf(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if m.Status != entities.MeetingStatusApproved || m.Started {
		return false, nil
	}
	m.Started = true
	m.StartedAt = &at
	return true, nil
}

func (r *memMeetingRepo) MarkEndedIf(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if m.Status != entities.MeetingStatusApproved || !m.Started || m.Ended {
		return false, nil
	}
	m.Ended = true
	m.EndedAt = &at
	m.Status = entities.MeetingStatusCompleted
	return true, nil
}

func (r *memMeetingRepo) UpdateScribe(_ context.Context, id uuid.UUID, scribeID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.CurrentScribeID = scribeID
	return nil
}

func (r *memMeetingRepo) FindOverdueUnstarted(_ context.Context, now time.Time, grace time.Duration) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range r.meetings {
		if m.Status == entities.MeetingStatusApproved && !m.Started && m.EndTime().Add(grace).Before(now) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMeetingRepo) FindElapsedStarted(_ context.Context, now time.Time) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range r.meetings {
		if m.Status == entities.MeetingStatusApproved && m.Started && !m.Ended && m.EndTime().Before(now) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMeetingRepo) FindNeedingReminder(_ context.Context, from, to time.Time) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range r.meetings {
		if m.Status != entities.MeetingStatusApproved || m.Ended || m.ReminderSentAt != nil {
			continue
		}
		if m.StartTime.After(from) && !m.StartTime.After(to) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMeetingRepo) MarkReminderSentIf(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if m.ReminderSentAt != nil {
		return false, nil
	}
	m.ReminderSentAt = &at
	return true, nil
}

type memUserRepo struct {
	users  map[uuid.UUID]*entities.User
	byDept map[uuid.UUID][]uuid.UUID
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entities.User, error) {
	var out []*entities.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) FindIDsByDepartmentIDs(_ context.Context, departmentIDs []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, d := range departmentIDs {
		out = append(out, r.byDept[d]...)
	}
	return out, nil
}

type memVenueRepo struct {
	venues map[uuid.UUID]*entities.Venue
}

func (r *memVenueRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Venue, error) {
	v, ok := r.venues[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

type memDepartmentRepo struct {
	departments map[uuid.UUID]*entities.Department
}

func (r *memDepartmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

// recordingPublisher captures lifecycle events for assertions
type recordingPublisher struct {
	mu        sync.Mutex
	reminders []uuid.UUID
	cancelled map[uuid.UUID]string
	completed []uuid.UUID
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{cancelled: make(map[uuid.UUID]string)}
}

func (p *recordingPublisher) MeetingReminder(_ context.Context, m *entities.Meeting, _ []uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reminders = append(p.reminders, m.ID)
	return nil
}

func (p *recordingPublisher) MeetingCancelled(_ context.Context, m *entities.Meeting, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled[m.ID] = reason
	return nil
}

func (p *recordingPublisher) MeetingCompleted(_ context.Context, m *entities.Meeting) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, m.ID)
	return nil
}

type recordingArchiver struct {
	mu       sync.Mutex
	archived []uuid.UUID
}

func (a *recordingArchiver) ArchiveMeeting(_ context.Context, meetingID uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.archived = append(a.archived, meetingID)
	return nil
}

// fixture wires a service over in-memory repositories with a mock clock
type fixture struct {
	repo   *memMeetingRepo
	users  *memUserRepo
	venues *memVenueRepo
	depts  *memDepartmentRepo
	pub    *recordingPublisher
	arch   *recordingArchiver
	clk    *clock.Mock
	svc    *Service

	venueID    uuid.UUID
	creatorID  uuid.UUID
	approverID uuid.UUID
	attendeeID uuid.UUID
}

var testBase = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:   newMemMeetingRepo(),
		users:  &memUserRepo{users: make(map[uuid.UUID]*entities.User), byDept: make(map[uuid.UUID][]uuid.UUID)},
		venues: &memVenueRepo{venues: make(map[uuid.UUID]*entities.Venue)},
		depts:  &memDepartmentRepo{departments: make(map[uuid.UUID]*entities.Department)},
		pub:    newRecordingPublisher(),
		arch:   &recordingArchiver{},
		clk:    clock.NewMock(),
	}
	f.clk.Set(testBase)

	deptID := uuid.New()
	f.approverID = uuid.New()
	f.creatorID = uuid.New()
	f.attendeeID = uuid.New()
	f.venueID = uuid.New()

	f.users.users[f.approverID] = &entities.User{
		ID: f.approverID, Name: "Approver", Email: "approver@example.com",
		Role: entities.RoleManager, DepartmentID: &deptID, IsActive: true,
	}
	f.users.users[f.creatorID] = &entities.User{
		ID: f.creatorID, Name: "Creator", Email: "creator@example.com",
		Role: entities.RoleEmployee, DepartmentID: &deptID, IsActive: true,
	}
	f.users.users[f.attendeeID] = &entities.User{
		ID: f.attendeeID, Name: "Attendee", Email: "attendee@example.com",
		Role: entities.RoleEmployee, DepartmentID: &deptID, IsActive: true,
	}
	f.depts.departments[deptID] = &entities.Department{ID: deptID, Name: "Engineering", ApproverID: &f.approverID}
	f.users.byDept[deptID] = []uuid.UUID{f.approverID, f.creatorID, f.attendeeID}
	f.venues.venues[f.venueID] = &entities.Venue{ID: f.venueID, Name: "Room A", IsActive: true}

	f.svc = NewService(
		f.repo, f.users, f.venues, f.depts,
		conflict.NewService(f.repo),
		f.pub, f.arch,
		DefaultWindows(), f.clk, zap.NewNop(),
	)
	return f
}

func (f *fixture) createInput() CreateMeetingInput {
	return CreateMeetingInput{
		Name:            "Sprint planning",
		StartTime:       testBase.Add(24 * time.Hour),
		DurationMinutes: 60,
		VenueID:         f.venueID,
		CreatorID:       f.creatorID,
		AttendeeIDs:     []uuid.UUID{f.attendeeID},
	}
}

// seedApproved plants an approved meeting starting one day out
func (f *fixture) seedApproved(t *testing.T) *entities.Meeting {
	t.Helper()
	now := testBase
	m := &entities.Meeting{
		ID:              uuid.New(),
		Name:            "Seeded meeting",
		StartTime:       testBase.Add(24 * time.Hour),
		DurationMinutes: 60,
		VenueID:         f.venueID,
		CreatorID:       f.creatorID,
		Status:          entities.MeetingStatusApproved,
		ApproverID:      &f.approverID,
		ApprovedAt:      &now,
		Priority:        entities.MeetingPriorityNormal,
		MeetingType:     entities.MeetingTypeRegular,
	}
	f.repo.put(m, f.attendeeID)
	return m
}

func wantAppErr(t *testing.T, err error, code apperrors.ErrorCode) apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr, ok := err.(apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %v, got %v (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

func TestCreateMeeting_ApproverRequired(t *testing.T) {
	f := newFixture(t)

	m, err := f.svc.CreateMeeting(context.Background(), f.createInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.Status != entities.MeetingStatusPendingApproval {
		t.Fatalf("expected pending_approval, got %s", m.Status)
	}
	if m.ApproverID == nil || *m.ApproverID != f.approverID {
		t.Fatal("department approver not assigned")
	}
	if m.MeetingNumber == 0 {
		t.Fatal("meeting number not assigned")
	}
}

func TestCreateMeeting_SelfApproval(t *testing.T) {
	f := newFixture(t)
	f.users.users[f.creatorID].CanApprove = true

	m, err := f.svc.CreateMeeting(context.Background(), f.createInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.Status != entities.MeetingStatusApproved {
		t.Fatalf("expected approved, got %s", m.Status)
	}
	if m.ApproverID == nil || *m.ApproverID != f.creatorID {
		t.Fatal("self-approval should record the creator as approver")
	}
	if m.ApprovedAt == nil {
		t.Fatal("approved_at not set")
	}
}

func TestCreateMeeting_DeptApproverSkipsQueue(t *testing.T) {
	f := newFixture(t)

	input := f.createInput()
	input.CreatorID = f.approverID
	m, err := f.svc.CreateMeeting(context.Background(), input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.Status != entities.MeetingStatusApproved {
		t.Fatalf("the designated approver's own meeting should be approved, got %s", m.Status)
	}
}

func TestCreateMeeting_NoApprover(t *testing.T) {
	f := newFixture(t)
	for _, d := range f.depts.departments {
		d.ApproverID = nil
	}

	_, err := f.svc.CreateMeeting(context.Background(), f.createInput())
	wantAppErr(t, err, apperrors.ErrorCode_VALIDATION_FAILED)
}

func TestCreateMeeting_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		mut  func(*CreateMeetingInput)
	}{
		{"empty name", func(in *CreateMeetingInput) { in.Name = "   " }},
		{"too short", func(in *CreateMeetingInput) { in.DurationMinutes = 10 }},
		{"start in the past", func(in *CreateMeetingInput) { in.StartTime = testBase.Add(-time.Hour) }},
		{"start exactly now", func(in *CreateMeetingInput) { in.StartTime = testBase }},
		{"no attendees", func(in *CreateMeetingInput) { in.AttendeeIDs = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := f.createInput()
			tt.mut(&input)
			_, err := f.svc.CreateMeeting(context.Background(), input)
			wantAppErr(t, err, apperrors.ErrorCode_VALIDATION_FAILED)
		})
	}
}

func TestCreateMeeting_InactiveVenue(t *testing.T) {
	f := newFixture(t)
	f.venues.venues[f.venueID].IsActive = false

	_, err := f.svc.CreateMeeting(context.Background(), f.createInput())
	wantAppErr(t, err, apperrors.ErrorCode_VALIDATION_FAILED)
}

func TestCreateMeeting_VenueConflict(t *testing.T) {
	f := newFixture(t)
	existing := f.seedApproved(t)

	input := f.createInput()
	input.StartTime = existing.StartTime.Add(30 * time.Minute)
	// Different attendee so only the venue collides.
	other := uuid.New()
	f.users.users[other] = &entities.User{ID: other, Name: "Other", IsActive: true}
	input.AttendeeIDs = []uuid.UUID{other}

	_, err := f.svc.CreateMeeting(context.Background(), input)
	appErr := wantAppErr(t, err, apperrors.ErrorCode_BOOKING_CONFLICT)
	if len(appErr.Conflicts) != 1 || appErr.Conflicts[0].MeetingID != existing.ID.String() {
		t.Fatalf("expected the seeded meeting in the conflict set, got %+v", appErr.Conflicts)
	}
}

func TestCreateMeeting_AttendeeConflict(t *testing.T) {
	f := newFixture(t)
	existing := f.seedApproved(t)

	otherVenue := uuid.New()
	f.venues.venues[otherVenue] = &entities.Venue{ID: otherVenue, Name: "Room B", IsActive: true}

	input := f.createInput()
	input.VenueID = otherVenue
	input.StartTime = existing.StartTime.Add(30 * time.Minute)

	_, err := f.svc.CreateMeeting(context.Background(), input)
	appErr := wantAppErr(t, err, apperrors.ErrorCode_BOOKING_CONFLICT)
	if len(appErr.Conflicts) == 0 || appErr.Conflicts[0].UserID != f.attendeeID.String() {
		t.Fatalf("expected the busy attendee in the conflict set, got %+v", appErr.Conflicts)
	}
}

func TestCreateMeeting_BackToBackIsNotAConflict(t *testing.T) {
	f := newFixture(t)
	existing := f.seedApproved(t)

	input := f.createInput()
	input.StartTime = existing.EndTime()

	if _, err := f.svc.CreateMeeting(context.Background(), input); err != nil {
		t.Fatalf("back-to-back bookings must not conflict: %v", err)
	}
}

func TestCreateMeeting_CancelledMeetingDoesNotConflict(t *testing.T) {
	f := newFixture(t)
	existing := f.seedApproved(t)
	f.repo.get(existing.ID).Status = entities.MeetingStatusCancelled

	input := f.createInput()
	input.StartTime = existing.StartTime

	if _, err := f.svc.CreateMeeting(context.Background(), input); err != nil {
		t.Fatalf("cancelled meetings must not occupy resources: %v", err)
	}
}

func TestCreateMeeting_DepartmentExpansionDeduplicates(t *testing.T) {
	f := newFixture(t)

	input := f.createInput()
	var deptID uuid.UUID
	for id := range f.depts.departments {
		deptID = id
	}
	input.AttendeeIDs = []uuid.UUID{f.attendeeID}
	input.DepartmentIDs = []uuid.UUID{deptID}

	m, err := f.svc.CreateMeeting(context.Background(), input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ids, _ := f.repo.ListAttendeeIDs(context.Background(), m.ID)
	seen := make(map[uuid.UUID]int)
	for _, id := range ids {
		seen[id]++
	}
	if seen[f.attendeeID] != 1 {
		t.Fatalf("explicit attendee duplicated by department expansion: %v", seen)
	}
	// Department has three members; the union is exactly those three.
	if len(ids) != 3 {
		t.Fatalf("expected 3 attendees after expansion, got %d", len(ids))
	}
}

func TestCreateMeeting_FollowupInheritsAttendees(t *testing.T) {
	f := newFixture(t)
	parent := f.seedApproved(t)

	input := f.createInput()
	input.AttendeeIDs = nil
	input.FollowupOf = &parent.ID
	input.MeetingType = entities.MeetingTypeFollowup
	input.StartTime = parent.EndTime().Add(time.Hour)

	m, err := f.svc.CreateMeeting(context.Background(), input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	ids, _ := f.repo.ListAttendeeIDs(context.Background(), m.ID)
	if len(ids) != 1 || ids[0] != f.attendeeID {
		t.Fatalf("follow-up should inherit the parent snapshot, got %v", ids)
	}
}

func TestUpdateMeeting_SelfExclusion(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	// Shift the start 30 minutes inside the meeting's own current booking.
	newStart := m.StartTime.Add(30 * time.Minute)
	updated, err := f.svc.UpdateMeeting(context.Background(), m.ID, f.creatorID, UpdateMeetingInput{
		StartTime: &newStart,
	})
	if err != nil {
		t.Fatalf("an edit overlapping only the meeting itself must pass: %v", err)
	}
	if !updated.StartTime.Equal(newStart) {
		t.Fatalf("start time not updated")
	}
}

func TestUpdateMeeting_ConflictWithOther(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	other := &entities.Meeting{
		Name:            "Occupies the slot",
		StartTime:       m.EndTime().Add(time.Hour),
		DurationMinutes: 60,
		VenueID:         f.venueID,
		CreatorID:       f.approverID,
		Status:          entities.MeetingStatusApproved,
	}
	f.repo.put(other)

	newStart := other.StartTime.Add(15 * time.Minute)
	_, err := f.svc.UpdateMeeting(context.Background(), m.ID, f.creatorID, UpdateMeetingInput{
		StartTime: &newStart,
	})
	wantAppErr(t, err, apperrors.ErrorCode_BOOKING_CONFLICT)
}

func TestUpdateMeeting_OnlyCreator(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	name := "Renamed"
	_, err := f.svc.UpdateMeeting(context.Background(), m.ID, f.attendeeID, UpdateMeetingInput{Name: &name})
	wantAppErr(t, err, apperrors.ErrorCode_PERMISSION_DENIED)
}

func TestUpdateMeeting_BlockedAfterStart(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)
	stored := f.repo.get(m.ID)
	stored.Started = true
	at := m.StartTime
	stored.StartedAt = &at

	name := "Renamed"
	_, err := f.svc.UpdateMeeting(context.Background(), m.ID, f.creatorID, UpdateMeetingInput{Name: &name})
	wantAppErr(t, err, apperrors.ErrorCode_INVALID_STATE)
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	m, err := f.svc.CreateMeeting(context.Background(), f.createInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	approved, err := f.svc.Approve(context.Background(), m.ID, f.approverID, "looks good")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != entities.MeetingStatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.ApprovalComment == nil || *approved.ApprovalComment != "looks good" {
		t.Fatal("approval comment not recorded")
	}
}

func TestApprove_NotApprover(t *testing.T) {
	f := newFixture(t)
	m, _ := f.svc.CreateMeeting(context.Background(), f.createInput())

	_, err := f.svc.Approve(context.Background(), m.ID, f.creatorID, "")
	wantAppErr(t, err, apperrors.ErrorCode_PERMISSION_DENIED)
}

func TestApprove_NotPending(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	_, err := f.svc.Approve(context.Background(), m.ID, f.approverID, "")
	wantAppErr(t, err, apperrors.ErrorCode_INVALID_STATE)
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	m, _ := f.svc.CreateMeeting(context.Background(), f.createInput())

	rejected, err := f.svc.Reject(context.Background(), m.ID, f.approverID, "room is being renovated")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != entities.MeetingStatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	if rejected.RejectReason == nil || *rejected.RejectReason != "room is being renovated" {
		t.Fatal("reject reason not recorded")
	}
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(t)
	m, _ := f.svc.CreateMeeting(context.Background(), f.createInput())

	_, err := f.svc.Reject(context.Background(), m.ID, f.approverID, "  ")
	wantAppErr(t, err, apperrors.ErrorCode_VALIDATION_FAILED)

	// The failed attempt must not have touched the meeting.
	if got := f.repo.get(m.ID).Status; got != entities.MeetingStatusPendingApproval {
		t.Fatalf("meeting status changed to %s", got)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	cancelled, err := f.svc.Cancel(context.Background(), m.ID, f.creatorID, "priorities changed")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != entities.MeetingStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if f.pub.cancelled[m.ID] != "priorities changed" {
		t.Fatal("cancellation event not published with its reason")
	}
}

func TestCancel_OnlyCreator(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	_, err := f.svc.Cancel(context.Background(), m.ID, f.approverID, "")
	wantAppErr(t, err, apperrors.ErrorCode_PERMISSION_DENIED)
}

func TestCancel_StartedMeeting(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)
	f.repo.MarkStartedIf(context.Background(), m.ID, m.StartTime)

	_, err := f.svc.Cancel(context.Background(), m.ID, f.creatorID, "")
	wantAppErr(t, err, apperrors.ErrorCode_INVALID_STATE)
}

func TestCancel_TerminalMeeting(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)
	f.repo.get(m.ID).Status = entities.MeetingStatusRejected

	_, err := f.svc.Cancel(context.Background(), m.ID, f.creatorID, "")
	wantAppErr(t, err, apperrors.ErrorCode_INVALID_STATE)
}

func TestStart_TooEarly(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	// 20 minutes before start, window opens at -15.
	now := m.StartTime.Add(-20 * time.Minute)
	_, err := f.svc.Start(context.Background(), m.ID, f.creatorID, now)
	appErr := wantAppErr(t, err, apperrors.ErrorCode_TIMING_VIOLATION)
	if appErr.Details["window_opens_at"] == "" {
		t.Fatal("timing error should say when the window opens")
	}
	if !strings.Contains(appErr.Message, "5 minute") {
		t.Fatalf("expected a 5 minute wait in the message, got %q", appErr.Message)
	}
}

func TestStart_WithinWindow(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	now := m.StartTime.Add(-10 * time.Minute)
	started, err := f.svc.Start(context.Background(), m.ID, f.creatorID, now)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !started.Started || started.StartedAt == nil || !started.StartedAt.Equal(now) {
		t.Fatalf("meeting not marked started at %v: %+v", now, started)
	}
	if started.Status != entities.MeetingStatusApproved {
		t.Fatalf("starting must not change the workflow status, got %s", started.Status)
	}
}

func TestStart_AtLateBoundary(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	// Exactly scheduled end + grace: still inside the window.
	now := m.EndTime().Add(60 * time.Minute)
	if _, err := f.svc.Start(context.Background(), m.ID, f.creatorID, now); err != nil {
		t.Fatalf("the boundary instant is still startable: %v", err)
	}
}

func TestStart_TooLateAutoCancels(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	now := m.EndTime().Add(61 * time.Minute)
	_, err := f.svc.Start(context.Background(), m.ID, f.creatorID, now)
	wantAppErr(t, err, apperrors.ErrorCode_TIMING_VIOLATION)

	stored := f.repo.get(m.ID)
	if stored.Status != entities.MeetingStatusCancelled {
		t.Fatalf("expected auto-cancel, got %s", stored.Status)
	}
	if stored.CancelReason == nil || *stored.CancelReason != entities.AutoCancelReason {
		t.Fatalf("wrong cancel reason: %v", stored.CancelReason)
	}
	if f.pub.cancelled[m.ID] != entities.AutoCancelReason {
		t.Fatal("auto-cancel event not published")
	}
}

func TestStart_OnlyCreator(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	_, err := f.svc.Start(context.Background(), m.ID, f.attendeeID, m.StartTime)
	wantAppErr(t, err, apperrors.ErrorCode_PERMISSION_DENIED)
}

func TestStart_NotApproved(t *testing.T) {
	f := newFixture(t)
	m, _ := f.svc.CreateMeeting(context.Background(), f.createInput())

	_, err := f.svc.Start(context.Background(), m.ID, f.creatorID, m.StartTime)
	wantAppErr(t, err, apperrors.ErrorCode_INVALID_STATE)
}

func TestStart_Twice(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	if _, err := f.svc.Start(context.Background(), m.ID, f.creatorID, m.StartTime); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	_, err := f.svc.Start(context.Background(), m.ID, f.creatorID, m.StartTime.Add(time.Minute))
	wantAppErr(t, err, apperrors.ErrorCode_INVALID_STATE)
}

func TestEnd(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)
	f.repo.MarkStartedIf(context.Background(), m.ID, m.StartTime)

	now := m.StartTime.Add(45 * time.Minute)
	ended, err := f.svc.End(context.Background(), m.ID, f.creatorID, now)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if !ended.Ended || ended.Status != entities.MeetingStatusCompleted {
		t.Fatalf("expected completed, got status=%s ended=%v", ended.Status, ended.Ended)
	}
	if len(f.pub.completed) != 1 || f.pub.completed[0] != m.ID {
		t.Fatal("completed event not published")
	}
	if len(f.arch.archived) != 1 || f.arch.archived[0] != m.ID {
		t.Fatal("minutes not archived on completion")
	}
}

func TestEnd_NotStarted(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	_, err := f.svc.End(context.Background(), m.ID, f.creatorID, m.StartTime)
	wantAppErr(t, err, apperrors.ErrorCode_INVALID_STATE)
}

func TestAssignScribe(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	updated, err := f.svc.AssignScribe(context.Background(), m.ID, f.creatorID, f.attendeeID)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if updated.CurrentScribeID == nil || *updated.CurrentScribeID != f.attendeeID {
		t.Fatal("scribe not assigned")
	}

	cleared, err := f.svc.RemoveScribe(context.Background(), m.ID, f.creatorID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if cleared.CurrentScribeID != nil {
		t.Fatal("scribe not cleared")
	}
}

func TestAssignScribe_CreatorForbidden(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	_, err := f.svc.AssignScribe(context.Background(), m.ID, f.creatorID, f.creatorID)
	wantAppErr(t, err, apperrors.ErrorCode_VALIDATION_FAILED)
}

func TestAssignScribe_MustBeAttendee(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	_, err := f.svc.AssignScribe(context.Background(), m.ID, f.creatorID, f.approverID)
	wantAppErr(t, err, apperrors.ErrorCode_VALIDATION_FAILED)
}

func TestSweepOverdueUnstarted(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	now := m.EndTime().Add(61 * time.Minute)
	if got := f.svc.SweepOverdueUnstarted(context.Background(), now); got != 1 {
		t.Fatalf("expected 1 cancellation, got %d", got)
	}
	stored := f.repo.get(m.ID)
	if stored.Status != entities.MeetingStatusCancelled || *stored.CancelReason != entities.AutoCancelReason {
		t.Fatalf("meeting not auto-cancelled: %+v", stored)
	}

	// A second run finds nothing to do.
	if got := f.svc.SweepOverdueUnstarted(context.Background(), now); got != 0 {
		t.Fatalf("sweep is not idempotent, second run cancelled %d", got)
	}
}

func TestSweepOverdueUnstarted_SkipsStarted(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)
	f.repo.MarkStartedIf(context.Background(), m.ID, m.StartTime)

	now := m.EndTime().Add(2 * time.Hour)
	if got := f.svc.SweepOverdueUnstarted(context.Background(), now); got != 0 {
		t.Fatalf("a started meeting must never be auto-cancelled, got %d", got)
	}
}

func TestSweepElapsed(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)
	f.repo.MarkStartedIf(context.Background(), m.ID, m.StartTime)

	now := m.EndTime().Add(time.Minute)
	if got := f.svc.SweepElapsed(context.Background(), now); got != 1 {
		t.Fatalf("expected 1 completion, got %d", got)
	}
	stored := f.repo.get(m.ID)
	if stored.Status != entities.MeetingStatusCompleted || !stored.Ended {
		t.Fatalf("meeting not completed: %+v", stored)
	}
	if len(f.arch.archived) != 1 {
		t.Fatal("sweep completion should archive the minutes")
	}

	if got := f.svc.SweepElapsed(context.Background(), now); got != 0 {
		t.Fatalf("sweep is not idempotent, second run completed %d", got)
	}
}

func TestSweepReminders(t *testing.T) {
	f := newFixture(t)
	m := f.seedApproved(t)

	// The meeting starts 24h out; walk now to 3h before it.
	now := m.StartTime.Add(-3*time.Hour + -10*time.Minute)
	if got := f.svc.SweepReminders(context.Background(), now); got != 1 {
		t.Fatalf("expected 1 reminder, got %d", got)
	}
	if len(f.pub.reminders) != 1 || f.pub.reminders[0] != m.ID {
		t.Fatal("reminder event not published")
	}

	if got := f.svc.SweepReminders(context.Background(), now); got != 0 {
		t.Fatalf("reminder sent twice")
	}
}
