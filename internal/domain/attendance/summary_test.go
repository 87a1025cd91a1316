package attendance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closed(dayType DayType, hours string, missing string, late int) Attendance {
	h := decimal.RequireFromString(hours)
	return Attendance{
		DayType:      dayType,
		WorkHours:    &h,
		MissingHours: decimal.RequireFromString(missing),
		LateMinutes:  late,
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := DefaultPolicy().Summarize(nil)

	assert.Equal(t, 0, s.RecordCount)
	assert.Equal(t, 0, s.DayCount())
	assert.True(t, s.TotalWorkHours.IsZero())
	assert.True(t, s.OvertimeHours.IsZero())
	assert.True(t, s.TotalMissingHours.IsZero())
}

func TestSummarize_MixedMonth(t *testing.T) {
	records := []Attendance{
		closed(DayTypeFullDay, "8", "0", 0),
		closed(DayTypeFullDay, "8.5", "0", 10),
		closed(DayTypeHalfDay, "5", "0", 45),
		closed(DayTypeOvertime, "10", "0", 0),
		closed(DayTypeNotEnoughHours, "2", "2", 5),
		{DayType: DayTypeAbsent, MissingHours: decimal.NewFromInt(8), NotEnoughHours: true},
		{DayType: DayTypeAbsent},
	}

	s := DefaultPolicy().Summarize(records)

	assert.Equal(t, 7, s.RecordCount)
	assert.Equal(t, 2, s.FullDayWork)
	assert.Equal(t, 1, s.HalfDayWork)
	assert.Equal(t, 1, s.OvertimeDays)
	assert.Equal(t, 1, s.NotEnoughHourDays)
	assert.Equal(t, 2, s.AbsenceDays)
	assert.Equal(t, 3, s.LateDays)
	assert.Equal(t, 60, s.TotalLateMinutes)
	assert.True(t, s.TotalWorkHours.Equal(decimal.RequireFromString("33.5")), "total = %s", s.TotalWorkHours)
	assert.True(t, s.OvertimeHours.Equal(decimal.NewFromInt(2)), "overtime = %s", s.OvertimeHours)
	// swept absences carry missing hours that are not folded in
	assert.True(t, s.TotalMissingHours.Equal(decimal.NewFromInt(2)), "missing = %s", s.TotalMissingHours)
}

func TestSummarize_EveryRecordCountedOnce(t *testing.T) {
	types := []DayType{DayTypeFullDay, DayTypeHalfDay, DayTypeOvertime, DayTypeNotEnoughHours, DayTypeAbsent}

	var records []Attendance
	for i := 0; i < 53; i++ {
		dt := types[i%len(types)]
		if i%3 == 0 && dt != DayTypeAbsent {
			// checked out records without hours still route by day type
			records = append(records, Attendance{DayType: dt})
			continue
		}
		records = append(records, closed(dt, "6", "0", i%2))
	}

	s := DefaultPolicy().Summarize(records)
	require.Equal(t, len(records), s.RecordCount)
	assert.Equal(t, s.RecordCount, s.DayCount())
}

func TestSummarize_OvertimeWithoutHoursAddsNoHours(t *testing.T) {
	s := DefaultPolicy().Summarize([]Attendance{{DayType: DayTypeOvertime}})

	assert.Equal(t, 1, s.OvertimeDays)
	assert.True(t, s.OvertimeHours.IsZero())
}
