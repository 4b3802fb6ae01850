package timetable_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/timetable"
	dummydb "github.com/trezcool/mahudhurio/storage/database/dummy"
)

func newService(t *testing.T) *timetable.Service {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	return timetable.NewService(dummydb.NewTimetableRepository(db))
}

func TestISODay(t *testing.T) {
	assert.Equal(t, 1, timetable.ISODay(time.Monday))
	assert.Equal(t, 6, timetable.ISODay(time.Saturday))
	assert.Equal(t, 7, timetable.ISODay(time.Sunday))
}

func TestSlotFor(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	const sectionID = "f0a3f4c6-9f6f-4f4e-8d52-1f1f0b6a2d10"
	tt, err := svc.Create(ctx, timetable.NewTimetable{Name: "Semester 1", SectionID: sectionID})
	require.NoError(t, err)
	mathSlot, err := svc.AddSlot(ctx, timetable.NewSlot{
		TimetableID: tt.ID,
		DayOfWeek:   1,
		Hour:        3,
		Subject:     "Math",
		Teacher:     "Mr. Juma",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		day     int
		hour    int
		want    timetable.Slot
		wantErr error
	}{
		{name: "scheduled slot", day: 1, hour: 3, want: mathSlot},
		{name: "free period", day: 1, hour: 4, wantErr: timetable.UnscheduledSlotError{DayOfWeek: 1, Hour: 4}},
		{name: "unscheduled day", day: 7, hour: 3, wantErr: timetable.UnscheduledSlotError{DayOfWeek: 7, Hour: 3}},
		{name: "hour below range", day: 1, hour: 0, wantErr: timetable.InvalidHourError{Hour: 0}},
		{name: "hour above range", day: 1, hour: 9, wantErr: timetable.InvalidHourError{Hour: 9}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			slot, err := svc.SlotFor(ctx, tt.ID, tc.day, tc.hour)
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want.ID, slot.ID)
			assert.Equal(t, "Math", slot.Subject)
		})
	}
}

func TestSlotForSection(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	const sectionID = "f0a3f4c6-9f6f-4f4e-8d52-1f1f0b6a2d10"

	// no timetable yet: nothing is scheduled, but a bad hour is still a bad hour
	_, err := svc.SlotForSection(ctx, sectionID, 1, 1)
	assert.Equal(t, timetable.UnscheduledSlotError{DayOfWeek: 1, Hour: 1}, err)
	_, err = svc.SlotForSection(ctx, sectionID, 1, 12)
	assert.Equal(t, timetable.InvalidHourError{Hour: 12}, err)

	tt, err := svc.Create(ctx, timetable.NewTimetable{Name: "Semester 1", SectionID: sectionID})
	require.NoError(t, err)
	slot, err := svc.AddSlot(ctx, timetable.NewSlot{TimetableID: tt.ID, DayOfWeek: 2, Hour: 1, Subject: "Physics"})
	require.NoError(t, err)

	got, err := svc.SlotForSection(ctx, sectionID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, slot.ID, got.ID)
}

func TestAddSlotDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tt, err := svc.Create(ctx, timetable.NewTimetable{Name: "Semester 1", SectionID: "f0a3f4c6-9f6f-4f4e-8d52-1f1f0b6a2d10"})
	require.NoError(t, err)

	ns := timetable.NewSlot{TimetableID: tt.ID, DayOfWeek: 3, Hour: 2, Subject: "Chemistry"}
	_, err = svc.AddSlot(ctx, ns)
	require.NoError(t, err)

	ns.Subject = "Biology"
	_, err = svc.AddSlot(ctx, ns)
	assert.ErrorIs(t, err, timetable.ErrSlotExists)

	slots, err := svc.ListSlots(ctx, tt.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestAddSlotUnknownTimetable(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.AddSlot(ctx, timetable.NewSlot{
		TimetableID: "11111111-2222-4333-8444-555555555555",
		DayOfWeek:   1,
		Hour:        1,
		Subject:     "Math",
	})
	assert.ErrorIs(t, err, timetable.ErrNotFound)
}
