package helper

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var showtimeScheduler *cron.Cron

var (
	ErrShowtimeDeleted   = errors.New("suất chiếu đã bị xoá")
	ErrShowtimeCancelled = errors.New("suất chiếu đã bị hủy")
	ErrShowtimeCompleted = errors.New("suất chiếu đã kết thúc")
	ErrShowtimeStarted   = errors.New("suất chiếu đã bắt đầu")
)

// ActiveShowtimes lọc suất chiếu chưa xoá mềm
func ActiveShowtimes(db *gorm.DB) *gorm.DB {
	return db.Where("showtimes.deleted_at IS NULL")
}

// BookingGraceWindow: cho phép đặt vé trễ sau giờ chiếu một khoảng cấu hình được
func BookingGraceWindow() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("BOOKING_GRACE_MINUTES"))
	if err != nil || minutes < 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

// CheckShowtimeBookable trả về nil nếu suất chiếu còn nhận đặt vé,
// ngược lại trả về lý do cụ thể
func CheckShowtimeBookable(showtime *model.Showtime, now time.Time) error {
	if showtime.DeletedAt != nil {
		return ErrShowtimeDeleted
	}
	switch showtime.Status {
	case constants.SHOWTIME_CANCELLED:
		return ErrShowtimeCancelled
	case constants.SHOWTIME_COMPLETED:
		return ErrShowtimeCompleted
	}
	if now.After(showtime.StartTime.Add(BookingGraceWindow())) {
		return ErrShowtimeStarted
	}
	return nil
}

// FindOverlappingShowtimes tìm các suất chiếu còn hiệu lực trong cùng phòng có
// khoảng [start, end) giao với khoảng đưa vào. excludeId dùng khi sửa/khôi phục.
func FindOverlappingShowtimes(tx *gorm.DB, hallId uint, start, end time.Time, excludeId uint) ([]model.Showtime, error) {
	q := ActiveShowtimes(tx.Model(&model.Showtime{})).
		Where("showtimes.hall_id = ?", hallId).
		Where("showtimes.status <> ?", constants.SHOWTIME_CANCELLED).
		Where("showtimes.start_time < ? AND showtimes.end_time > ?", end, start)
	if excludeId > 0 {
		q = q.Where("showtimes.id <> ?", excludeId)
	}

	var overlaps []model.Showtime
	if err := q.Find(&overlaps).Error; err != nil {
		return nil, err
	}
	return overlaps, nil
}

func StartShowtimeScheduler() {
	showtimeScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	// Chạy mỗi 5 phút
	_, err := showtimeScheduler.AddFunc("*/5 * * * *", completeEndedShowtimes)
	if err != nil {
		log.Printf("Lỗi khởi tạo scheduler: %v", err)
		return
	}

	showtimeScheduler.Start()
	log.Println("Scheduler suất chiếu đã khởi động (mỗi 5 phút)")
}

func completeEndedShowtimes() {
	now := time.Now()
	result := database.DB.Model(&model.Showtime{}).
		Where("status = ? AND end_time < ? AND deleted_at IS NULL", constants.SHOWTIME_SCHEDULED, now).
		Update("status", constants.SHOWTIME_COMPLETED)

	if result.Error != nil {
		log.Printf("Lỗi cập nhật suất chiếu: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Đã chuyển %d suất chiếu sang Completed", result.RowsAffected)
	}
}

// Dừng scheduler khi tắt server
func StopShowtimeScheduler() {
	if showtimeScheduler != nil {
		showtimeScheduler.Stop()
		log.Println("Scheduler suất chiếu đã dừng")
	}
}
