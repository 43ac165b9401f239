package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confdesk-cli/model"
)

var (
	confStart = date(2026, 3, 1)
	confEnd   = date(2026, 3, 10)
)

func session(title string, day time.Time, startHour, minutes int) model.Session {
	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.UTC)
	return model.Session{
		Kind:      model.SessionTech,
		Title:     title,
		Date:      day,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		RoomId:    "room-1",
		Speakers:  []model.Speaker{{Name: "Ada"}},
	}
}

func TestAddSession_ValidationOrder(t *testing.T) {
	noSpeakers := session("Keynote", date(2026, 3, 5), 9, 60)
	noSpeakers.Speakers = nil

	noSchedule := session("Keynote", date(2026, 3, 5), 9, 60)
	noSchedule.EndTime = time.Time{}

	tests := []struct {
		name      string
		candidate model.Session
		want      error
	}{
		{"no title", session("", date(2026, 3, 5), 9, 60), ErrMissingTitleOrSpeaker},
		{"no speakers", noSpeakers, ErrMissingTitleOrSpeaker},
		{"missing schedule", noSchedule, ErrMissingSchedule},
		{"before conference", session("Keynote", date(2026, 2, 27), 9, 60), ErrSessionOutsideConference},
		{"after conference", session("Keynote", date(2026, 3, 11), 9, 60), ErrSessionOutsideConference},
		{"twenty minutes", session("Lightning", date(2026, 3, 5), 9, 20), ErrSessionTooShort},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := AddSession(nil, test.candidate, confStart, confEnd)
			assert.ErrorIs(t, err, test.want)
			assert.Empty(t, got)
		})
	}
}

func TestAddSession_InvertedRangeReportsTooShort(t *testing.T) {
	// A negative duration fails the signed minimum-duration check before
	// the inverted-range check is reached.
	inverted := session("Keynote", date(2026, 3, 5), 9, -60)
	_, err := AddSession(nil, inverted, confStart, confEnd)
	assert.ErrorIs(t, err, ErrSessionTooShort)
}

func TestAddSession_AcceptsBoundaryDaysAndMinimumDuration(t *testing.T) {
	sessions, err := AddSession(nil, session("Opening", confStart, 9, 30), confStart, confEnd)
	require.NoError(t, err)
	sessions, err = AddSession(sessions, session("Closing", confEnd, 16, 45), confStart, confEnd)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.False(t, sessions[0].Persisted())
}

func TestFinalizeSessionSet_BoundaryCoverage(t *testing.T) {
	sessions, err := AddSession(nil, session("Opening", confStart, 9, 60), confStart, confEnd)
	require.NoError(t, err)
	sessions, err = AddSession(sessions, session("Midway", date(2026, 3, 5), 9, 60), confStart, confEnd)
	require.NoError(t, err)

	err = FinalizeSessionSet(sessions, confStart, confEnd)
	assert.ErrorIs(t, err, ErrMissingBoundarySession)

	sessions, err = AddSession(sessions, session("Closing", confEnd, 9, 60), confStart, confEnd)
	require.NoError(t, err)
	assert.NoError(t, FinalizeSessionSet(sessions, confStart, confEnd))
}

func TestUpdateSession(t *testing.T) {
	sessions, err := AddSession(nil, session("Opening", confStart, 9, 60), confStart, confEnd)
	require.NoError(t, err)
	key := sessions[0].LocalKey

	edited := session("Opening Keynote", confStart, 10, 60)
	next, err := UpdateSession(sessions, edited, 0, confStart, confEnd)
	require.NoError(t, err)
	assert.Equal(t, key, next[0].LocalKey)
	assert.Equal(t, "Opening Keynote", next[0].Value.Title)

	bad := session("Opening Keynote", confStart, 10, 10)
	_, err = UpdateSession(sessions, bad, 0, confStart, confEnd)
	assert.ErrorIs(t, err, ErrSessionTooShort)
}

func TestRemoveSession(t *testing.T) {
	sessions := []model.Record[model.Session]{
		model.PersistedRecord("session-1", session("Opening", confStart, 9, 60)),
		model.NewRecord(session("Closing", confEnd, 9, 60)),
	}

	next, removed := RemoveSession(sessions, 0)
	assert.Len(t, next, 1)
	assert.Equal(t, "session-1", removed.RemoteID)
}
