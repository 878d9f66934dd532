package stamp_test

import (
	"testing"
	"time"

	"timeclock/internal/stamp"
	"timeclock/internal/workrule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 3, hour, minute, 0, 0, time.UTC) // a Monday
}

func event(kind string, t time.Time) stamp.StampEvent {
	return stamp.StampEvent{ID: uuid.New(), Type: kind, StampTime: t}
}

func TestSummarize(t *testing.T) {
	t.Run("empty day", func(t *testing.T) {
		s := stamp.Summarize(nil)
		assert.Zero(t, s.Minutes)
		assert.Nil(t, s.OpenSince)
		assert.Zero(t, s.Anomalies)
	})

	t.Run("single closed pair", func(t *testing.T) {
		s := stamp.Summarize([]stamp.StampEvent{
			event(stamp.TypeIn, at(9, 0)),
			event(stamp.TypeOut, at(12, 30)),
		})
		assert.Equal(t, 210, s.Minutes)
		assert.Nil(t, s.OpenSince)
	})

	t.Run("two pairs with a break", func(t *testing.T) {
		s := stamp.Summarize([]stamp.StampEvent{
			event(stamp.TypeIn, at(9, 0)),
			event(stamp.TypeOut, at(12, 0)),
			event(stamp.TypeIn, at(13, 0)),
			event(stamp.TypeOut, at(18, 0)),
		})
		assert.Equal(t, 480, s.Minutes)
	})

	t.Run("pair durations floor to whole minutes", func(t *testing.T) {
		s := stamp.Summarize([]stamp.StampEvent{
			event(stamp.TypeIn, at(9, 0)),
			event(stamp.TypeOut, at(9, 10).Add(59*time.Second)),
		})
		assert.Equal(t, 10, s.Minutes)
	})

	t.Run("trailing in leaves an open session", func(t *testing.T) {
		s := stamp.Summarize([]stamp.StampEvent{
			event(stamp.TypeIn, at(9, 0)),
			event(stamp.TypeOut, at(12, 0)),
			event(stamp.TypeIn, at(13, 0)),
		})
		assert.Equal(t, 180, s.Minutes)
		assert.NotNil(t, s.OpenSince)
		assert.Equal(t, at(13, 0), *s.OpenSince)
		assert.Zero(t, s.Anomalies)
	})

	t.Run("double in counts as anomaly not time", func(t *testing.T) {
		s := stamp.Summarize([]stamp.StampEvent{
			event(stamp.TypeIn, at(9, 0)),
			event(stamp.TypeIn, at(10, 0)),
		})
		assert.Zero(t, s.Minutes)
		assert.Equal(t, 1, s.Anomalies)
	})

	t.Run("lone out is an anomaly", func(t *testing.T) {
		s := stamp.Summarize([]stamp.StampEvent{
			event(stamp.TypeOut, at(17, 0)),
		})
		assert.Zero(t, s.Minutes)
		assert.Nil(t, s.OpenSince)
		assert.Equal(t, 1, s.Anomalies)
	})
}

func TestLiveMinutes(t *testing.T) {
	t.Run("open session counts up to now", func(t *testing.T) {
		s := stamp.Summarize([]stamp.StampEvent{
			event(stamp.TypeIn, at(9, 0)),
			event(stamp.TypeOut, at(12, 0)),
			event(stamp.TypeIn, at(13, 0)),
		})
		assert.Equal(t, 180+90, stamp.LiveMinutes(s, at(14, 30)))
	})

	t.Run("closed day is unchanged", func(t *testing.T) {
		s := stamp.Summarize([]stamp.StampEvent{
			event(stamp.TypeIn, at(9, 0)),
			event(stamp.TypeOut, at(12, 0)),
		})
		assert.Equal(t, 180, stamp.LiveMinutes(s, at(23, 0)))
	})

	t.Run("clock skew never subtracts", func(t *testing.T) {
		s := stamp.Summarize([]stamp.StampEvent{
			event(stamp.TypeIn, at(13, 0)),
		})
		assert.Zero(t, stamp.LiveMinutes(s, at(12, 55)))
	})
}

func TestExpectedMinutes(t *testing.T) {
	userID := uuid.New()
	rules := workrule.DefaultRules(userID)
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	friday := monday.AddDate(0, 0, 4)
	sunday := monday.AddDate(0, 0, 6)
	farFuture := monday.AddDate(1, 0, 0)

	t.Run("full default week expects five workdays", func(t *testing.T) {
		got := stamp.ExpectedMinutes(rules, monday, sunday, farFuture)
		assert.Equal(t, 5*480, got)
	})

	t.Run("weekend days expect nothing", func(t *testing.T) {
		saturday := monday.AddDate(0, 0, 5)
		got := stamp.ExpectedMinutes(rules, saturday, sunday, farFuture)
		assert.Zero(t, got)
	})

	t.Run("future days carry no expectation", func(t *testing.T) {
		wednesday := monday.AddDate(0, 0, 2)
		got := stamp.ExpectedMinutes(rules, monday, friday, wednesday)
		assert.Equal(t, 3*480, got)
	})

	t.Run("today before range start expects nothing", func(t *testing.T) {
		got := stamp.ExpectedMinutes(rules, monday, friday, monday.AddDate(0, 0, -7))
		assert.Zero(t, got)
	})

	t.Run("no rules expect nothing", func(t *testing.T) {
		got := stamp.ExpectedMinutes(nil, monday, friday, farFuture)
		assert.Zero(t, got)
	})
}

func TestFullWorkdayZeroBalance(t *testing.T) {
	// A worker who stamps exactly the daily target lands on zero for the day.
	userID := uuid.New()
	rules := workrule.DefaultRules(userID)
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	worked := stamp.Summarize([]stamp.StampEvent{
		event(stamp.TypeIn, at(9, 0)),
		event(stamp.TypeOut, at(17, 0)),
	}).Minutes
	expected := stamp.ExpectedMinutes(rules, monday, monday, monday)

	assert.Equal(t, 480, worked)
	assert.Zero(t, worked-expected)
}
