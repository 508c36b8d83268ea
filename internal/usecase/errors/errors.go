package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// Meeting errors
var (
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrMeetingTerminal     = errors.New("meeting is in a terminal state")
	ErrMeetingNotApproved  = errors.New("meeting is not approved")
	ErrMeetingNotStarted   = errors.New("meeting has not started")
	ErrMeetingEnded        = errors.New("meeting has ended")
	ErrAlreadyStarted      = errors.New("meeting already started")
	ErrNotCreator          = errors.New("user is not the meeting creator")
	ErrNotApprover         = errors.New("user is not the designated approver")
	ErrNoApprover          = errors.New("department has no designated approver")
	ErrRejectReasonMissing = errors.New("rejection requires a reason")
	ErrNoAttendees         = errors.New("meeting needs at least one attendee")
	ErrScribeNotAttendee   = errors.New("scribe must be a meeting attendee")
	ErrScribeIsCreator     = errors.New("creator cannot be assigned as scribe")
)

// Minutes errors
var (
	ErrMinuteNotFound    = errors.New("minute not found")
	ErrNotMinuteAuthor   = errors.New("user is not the minute author")
	ErrNotMinuteScribe   = errors.New("minutes can only be authored by the assigned scribe")
	ErrEmptyContent      = errors.New("minute content is empty")
	ErrMinutesLocked     = errors.New("minutes are locked once the meeting ends")
	ErrMeetingNotRunning = errors.New("minutes can only be added while the meeting is running")
)

// Attendance errors
var (
	ErrNotAttendee        = errors.New("user is not an attendee of this meeting")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
