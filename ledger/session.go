package ledger

import (
	"strings"
	"time"

	"confdesk-cli/model"
)

// MinSessionDuration is the shortest a session may run.
const MinSessionDuration = 30 * time.Minute

// AddSession validates candidate against the conference date range and
// returns a new session list with it appended. Checks run in a fixed
// order; the signed duration check fires before the inverted-range check,
// so an inverted range always reports the session as too short.
func AddSession(sessions []model.Record[model.Session], candidate model.Session, confStart, confEnd time.Time) ([]model.Record[model.Session], error) {
	if strings.TrimSpace(candidate.Title) == "" || len(candidate.Speakers) == 0 {
		return sessions, ErrMissingTitleOrSpeaker
	}
	if candidate.Date.IsZero() || candidate.StartTime.IsZero() || candidate.EndTime.IsZero() {
		return sessions, ErrMissingSchedule
	}
	day := TruncateDate(candidate.Date)
	if day.Before(TruncateDate(confStart)) || day.After(TruncateDate(confEnd)) {
		return sessions, ErrSessionOutsideConference
	}
	if candidate.EndTime.Sub(candidate.StartTime) < MinSessionDuration {
		return sessions, ErrSessionTooShort
	}
	if !candidate.EndTime.After(candidate.StartTime) {
		return sessions, ErrInvertedTimeRange
	}

	next := append([]model.Record[model.Session]{}, sessions...)
	return append(next, model.NewRecord(candidate)), nil
}

// UpdateSession revalidates candidate and replaces the record at index,
// keeping its identity.
func UpdateSession(sessions []model.Record[model.Session], candidate model.Session, index int, confStart, confEnd time.Time) ([]model.Record[model.Session], error) {
	if index < 0 || index >= len(sessions) {
		return sessions, ErrMissingSchedule
	}
	checked, err := AddSession(sessions[:0:0], candidate, confStart, confEnd)
	if err != nil {
		return sessions, err
	}
	next := append([]model.Record[model.Session]{}, sessions...)
	next[index].Value = checked[0].Value
	return next, nil
}

// FinalizeSessionSet gates leaving the sessions step: the schedule must
// cover both boundary days of the conference.
func FinalizeSessionSet(sessions []model.Record[model.Session], confStart, confEnd time.Time) error {
	onFirst, onLast := false, false
	for _, session := range sessions {
		if SameDay(session.Value.Date, confStart) {
			onFirst = true
		}
		if SameDay(session.Value.Date, confEnd) {
			onLast = true
		}
	}
	if !onFirst || !onLast {
		return ErrMissingBoundarySession
	}
	return nil
}

// RemoveSession drops the session at index and returns the removed record.
// Owned speakers and media go with it; the caller queues persisted ids.
func RemoveSession(sessions []model.Record[model.Session], index int) ([]model.Record[model.Session], model.Record[model.Session]) {
	if index < 0 || index >= len(sessions) {
		return sessions, model.Record[model.Session]{}
	}
	removed := sessions[index]
	next := append([]model.Record[model.Session]{}, sessions[:index]...)
	next = append(next, sessions[index+1:]...)
	return next, removed
}
