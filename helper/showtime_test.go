package helper

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCheckShowtimeBookable(t *testing.T) {
	now := time.Now()
	future := now.Add(2 * time.Hour)

	bookable := &model.Showtime{StartTime: future, Status: constants.SHOWTIME_SCHEDULED}
	assert.NoError(t, CheckShowtimeBookable(bookable, now))

	deleted := &model.Showtime{StartTime: future, Status: constants.SHOWTIME_SCHEDULED}
	deletedAt := now.Add(-time.Hour)
	deleted.DeletedAt = &deletedAt
	assert.ErrorIs(t, CheckShowtimeBookable(deleted, now), ErrShowtimeDeleted)

	cancelled := &model.Showtime{StartTime: future, Status: constants.SHOWTIME_CANCELLED}
	assert.ErrorIs(t, CheckShowtimeBookable(cancelled, now), ErrShowtimeCancelled)

	completed := &model.Showtime{StartTime: future, Status: constants.SHOWTIME_COMPLETED}
	assert.ErrorIs(t, CheckShowtimeBookable(completed, now), ErrShowtimeCompleted)

	started := &model.Showtime{StartTime: now.Add(-time.Minute), Status: constants.SHOWTIME_SCHEDULED}
	assert.ErrorIs(t, CheckShowtimeBookable(started, now), ErrShowtimeStarted)
}

func TestCheckShowtimeBookableGraceWindow(t *testing.T) {
	t.Setenv("BOOKING_GRACE_MINUTES", "10")

	now := time.Now()
	justStarted := &model.Showtime{StartTime: now.Add(-5 * time.Minute), Status: constants.SHOWTIME_SCHEDULED}
	assert.NoError(t, CheckShowtimeBookable(justStarted, now))

	tooLate := &model.Showtime{StartTime: now.Add(-15 * time.Minute), Status: constants.SHOWTIME_SCHEDULED}
	assert.ErrorIs(t, CheckShowtimeBookable(tooLate, now), ErrShowtimeStarted)
}

func seedShowtime(t *testing.T, db *gorm.DB, hallId uint, start, end time.Time, status string) model.Showtime {
	t.Helper()
	showtime := model.Showtime{
		MovieId:   1,
		HallId:    hallId,
		StartTime: start,
		EndTime:   end,
		Price:     90000,
		Status:    status,
	}
	require.NoError(t, db.Create(&showtime).Error)
	return showtime
}

func TestFindOverlappingShowtimes(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2026, 9, 10, 18, 0, 0, 0, time.Local)
	existing := seedShowtime(t, db, 1, base, base.Add(2*time.Hour), constants.SHOWTIME_SCHEDULED)

	// giao nhau một phần
	overlaps, err := FindOverlappingShowtimes(db, 1, base.Add(time.Hour), base.Add(3*time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, overlaps, 1)
	assert.Equal(t, existing.ID, overlaps[0].ID)

	// khoảng mới bao trùm khoảng cũ
	overlaps, err = FindOverlappingShowtimes(db, 1, base.Add(-time.Hour), base.Add(4*time.Hour), 0)
	require.NoError(t, err)
	assert.Len(t, overlaps, 1)

	// chạm biên: end của suất cũ == start của suất mới thì không trùng
	overlaps, err = FindOverlappingShowtimes(db, 1, base.Add(2*time.Hour), base.Add(4*time.Hour), 0)
	require.NoError(t, err)
	assert.Empty(t, overlaps)

	overlaps, err = FindOverlappingShowtimes(db, 1, base.Add(-2*time.Hour), base, 0)
	require.NoError(t, err)
	assert.Empty(t, overlaps)

	// phòng khác không trùng
	overlaps, err = FindOverlappingShowtimes(db, 2, base, base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.Empty(t, overlaps)

	// loại trừ chính suất đang sửa
	overlaps, err = FindOverlappingShowtimes(db, 1, base, base.Add(2*time.Hour), existing.ID)
	require.NoError(t, err)
	assert.Empty(t, overlaps)
}

func TestFindOverlappingShowtimesIgnoresCancelledAndDeleted(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2026, 9, 10, 18, 0, 0, 0, time.Local)
	seedShowtime(t, db, 1, base, base.Add(2*time.Hour), constants.SHOWTIME_CANCELLED)

	deleted := seedShowtime(t, db, 1, base, base.Add(2*time.Hour), constants.SHOWTIME_SCHEDULED)
	require.NoError(t, db.Model(&deleted).Update("deleted_at", time.Now()).Error)

	overlaps, err := FindOverlappingShowtimes(db, 1, base, base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	assert.Empty(t, overlaps)
}
