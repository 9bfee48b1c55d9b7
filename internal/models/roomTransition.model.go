package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrTransitionRejected = errors.New("room transition rejected")

// RoomEvent is one of ScheduledCheck, CleaningRegistered, IncidentOpened,
// IncidentResolved or ManualOverride.
type RoomEvent interface {
	EventName() string
}

// ScheduledCheck is raised by the cleanliness scheduler. Now must already be
// expressed in the hotel's location.
type ScheduledCheck struct {
	Now           time.Time
	ScheduledTime time.Duration
	LastChange    *time.Time
}

type CleaningRegistered struct{}

type IncidentOpened struct{}

type IncidentResolved struct{}

type ManualOverride struct {
	Target RoomStatus
}

func (ScheduledCheck) EventName() string     { return "scheduled_check" }
func (CleaningRegistered) EventName() string { return "cleaning_registered" }
func (IncidentOpened) EventName() string     { return "incident_opened" }
func (IncidentResolved) EventName() string   { return "incident_resolved" }
func (ManualOverride) EventName() string     { return "manual_override" }

// Transition is the single source of truth for room status changes. A
// rejected event returns the current status together with ErrTransitionRejected.
func Transition(current RoomStatus, event RoomEvent) (RoomStatus, error) {
	switch e := event.(type) {
	case ScheduledCheck:
		if current != RoomStatusInUse && current != RoomStatusClean {
			return current, rejected(current, event)
		}
		if !IsCleaningDue(e.Now, e.ScheduledTime, e.LastChange) {
			return current, rejected(current, event)
		}
		return RoomStatusPendingCleaning, nil

	case CleaningRegistered:
		return RoomStatusClean, nil

	case IncidentOpened:
		if current == RoomStatusBlockedIncident {
			return current, rejected(current, event)
		}
		return RoomStatusBlockedIncident, nil

	case IncidentResolved:
		if current != RoomStatusBlockedIncident {
			return current, rejected(current, event)
		}
		return RoomStatusPendingCleaning, nil

	case ManualOverride:
		if !e.Target.IsValid() {
			return current, fmt.Errorf("%w: unknown status %q", ErrTransitionRejected, e.Target)
		}
		return e.Target, nil
	}

	return current, fmt.Errorf("%w: unknown event %T", ErrTransitionRejected, event)
}

// IsCleaningDue reports whether today's cleaning time has been reached and the
// room has not changed status since then. scheduled is an offset from
// midnight in now's location.
func IsCleaningDue(now time.Time, scheduled time.Duration, lastChange *time.Time) bool {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueAt := midnight.Add(scheduled)

	if now.Before(dueAt) {
		return false
	}

	return lastChange == nil || lastChange.Before(dueAt)
}

func rejected(current RoomStatus, event RoomEvent) error {
	return fmt.Errorf("%w: %s from %s", ErrTransitionRejected, event.EventName(), current)
}
