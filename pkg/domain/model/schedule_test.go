package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
)

const tolerance = 7 * time.Minute

func TestParseSchedule(t *testing.T) {
	t.Run("daily mode", func(t *testing.T) {
		s, err := model.ParseSchedule(`{"mode":"daily","timezone":"UTC+2","settings":{"dailyTime":"09:00"}}`)
		gt.NoError(t, err).Required()
		gt.Value(t, s.Mode).Equal(types.ScheduleModeDaily)
		gt.Value(t, s.DailyTime).Equal("09:00")

		offset, err := s.Offset()
		gt.NoError(t, err)
		gt.Value(t, offset).Equal(2 * time.Hour)
	})

	t.Run("manual mode", func(t *testing.T) {
		s, err := model.ParseSchedule(`{"mode":"manual","timezone":"UTC-5","settings":{"selectedDates":{"2026-09-01":["14:00","18:30"]}}}`)
		gt.NoError(t, err).Required()
		gt.Value(t, s.Mode).Equal(types.ScheduleModeManual)
		gt.Value(t, len(s.SelectedDates)).Equal(1)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for name, raw := range map[string]string{
			"empty":               "",
			"malformed":           "{nope",
			"unknown mode":        `{"mode":"weekly","timezone":"UTC"}`,
			"bad daily time":      `{"mode":"daily","timezone":"UTC","settings":{"dailyTime":"25:99"}}`,
			"manual without days": `{"mode":"manual","timezone":"UTC","settings":{}}`,
		} {
			t.Run(name, func(t *testing.T) {
				_, err := model.ParseSchedule(raw)
				gt.Error(t, err)
			})
		}
	})

	t.Run("malformed timezone is retained, not fatal", func(t *testing.T) {
		s, err := model.ParseSchedule(`{"mode":"daily","timezone":"Europe/Berlin","settings":{"dailyTime":"09:00"}}`)
		gt.NoError(t, err).Required()

		offset, offErr := s.Offset()
		gt.Error(t, offErr)
		gt.Value(t, offset).Equal(time.Duration(0))
	})
}

func TestMatchSlotDaily(t *testing.T) {
	daily := func(hhmm, tz string) *model.Schedule {
		s, err := model.ParseSchedule(`{"mode":"daily","timezone":"` + tz + `","settings":{"dailyTime":"` + hhmm + `"}}`)
		gt.NoError(t, err).Required()
		return s
	}

	t.Run("matches inside tolerance", func(t *testing.T) {
		s := daily("09:00", "UTC+0")

		for _, minute := range []int{53, 55, 0, 3, 7} {
			hour := 9
			if minute > 30 {
				hour = 8
			}
			now := time.Date(2026, 9, 1, hour, minute, 0, 0, time.UTC)
			slot, due := s.MatchSlot(now, tolerance)
			gt.Bool(t, due).True()
			gt.Value(t, slot.Key()).Equal("2026-09-01T09:00")
		}
	})

	t.Run("rejects outside tolerance", func(t *testing.T) {
		s := daily("09:00", "UTC+0")

		for _, now := range []time.Time{
			time.Date(2026, 9, 1, 8, 52, 0, 0, time.UTC),
			time.Date(2026, 9, 1, 9, 8, 0, 0, time.UTC),
			time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC),
		} {
			_, due := s.MatchSlot(now, tolerance)
			gt.Bool(t, due).False()
		}
	})

	t.Run("applies fixed offset", func(t *testing.T) {
		s := daily("09:00", "UTC+2")

		slot, due := s.MatchSlot(time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-01T09:00")

		_, due = s.MatchSlot(time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).False()
	})

	t.Run("half hour offset", func(t *testing.T) {
		s := daily("09:00", "UTC+05:30")

		slot, due := s.MatchSlot(time.Date(2026, 9, 1, 3, 30, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-01T09:00")
	})

	t.Run("window wraps midnight before the slot", func(t *testing.T) {
		s := daily("00:02", "UTC+0")

		// 23:58 is 4 minutes before 00:02 of the next day
		slot, due := s.MatchSlot(time.Date(2026, 9, 1, 23, 58, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-02T00:02")
	})

	t.Run("window wraps midnight after the slot", func(t *testing.T) {
		s := daily("23:58", "UTC+0")

		// 00:03 is 5 minutes after 23:58 of the previous day
		slot, due := s.MatchSlot(time.Date(2026, 9, 2, 0, 3, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-01T23:58")
	})

	t.Run("negative offset crosses date line", func(t *testing.T) {
		s := daily("22:00", "UTC-5")

		// 03:00 UTC on Sep 2 is 22:00 local on Sep 1
		slot, due := s.MatchSlot(time.Date(2026, 9, 2, 3, 0, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-01T22:00")
	})
}

func TestMatchSlotManual(t *testing.T) {
	manual := func(raw string) *model.Schedule {
		s, err := model.ParseSchedule(raw)
		gt.NoError(t, err).Required()
		return s
	}

	t.Run("matches listed date and time", func(t *testing.T) {
		s := manual(`{"mode":"manual","timezone":"UTC+0","settings":{"selectedDates":{"2026-09-01":["14:00","18:30"]}}}`)

		slot, due := s.MatchSlot(time.Date(2026, 9, 1, 14, 5, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-01T14:00")

		slot, due = s.MatchSlot(time.Date(2026, 9, 1, 18, 26, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-01T18:30")
	})

	t.Run("rejects other dates", func(t *testing.T) {
		s := manual(`{"mode":"manual","timezone":"UTC+0","settings":{"selectedDates":{"2026-09-01":["14:00"]}}}`)

		_, due := s.MatchSlot(time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).False()
	})

	t.Run("slot near midnight matches from the previous day", func(t *testing.T) {
		s := manual(`{"mode":"manual","timezone":"UTC+0","settings":{"selectedDates":{"2026-09-02":["00:03"]}}}`)

		slot, due := s.MatchSlot(time.Date(2026, 9, 1, 23, 57, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-02T00:03")
	})

	t.Run("slot near midnight matches from the next day", func(t *testing.T) {
		s := manual(`{"mode":"manual","timezone":"UTC+0","settings":{"selectedDates":{"2026-09-01":["23:57"]}}}`)

		slot, due := s.MatchSlot(time.Date(2026, 9, 2, 0, 2, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-01T23:57")
	})

	t.Run("ignores malformed times in the list", func(t *testing.T) {
		s := manual(`{"mode":"manual","timezone":"UTC+0","settings":{"selectedDates":{"2026-09-01":["nonsense","14:00"]}}}`)

		slot, due := s.MatchSlot(time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC), tolerance)
		gt.Bool(t, due).True()
		gt.Value(t, slot.Key()).Equal("2026-09-01T14:00")
	})
}
