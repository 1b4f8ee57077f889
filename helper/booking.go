package helper

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingExpiryCutoff: đơn chưa thanh toán hết hạn trước giờ chiếu 15 phút
const BookingExpiryCutoff = 15 * time.Minute

// ActiveBookings lọc các đơn còn hiệu lực: chưa xoá mềm và chưa hủy.
// Mọi truy vấn xung đột ghế phải đi qua scope này.
func ActiveBookings(db *gorm.DB) *gorm.DB {
	return db.Where("bookings.deleted_at IS NULL AND bookings.booking_status <> ?", constants.BOOKING_CANCELLED)
}

// GenerateBookingCode sinh mã đặt vé ngắn, kiểm tra trùng ngay lúc sinh.
// Trùng khi ghi xuống DB (index unique) được caller xử lý bằng retry.
func GenerateBookingCode(tx *gorm.DB) (string, error) {
	for i := 0; i < 10; i++ {
		code := "BK-" + strings.ToUpper(uuid.New().String()[:8])

		var count int64
		if err := tx.Model(&model.Booking{}).Where("reference_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", gorm.ErrDuplicatedKey
}

// ComputeExpiry: Cash thanh toán tại quầy nên không có hạn; còn lại
// hết hạn trước giờ chiếu đúng BookingExpiryCutoff
func ComputeExpiry(showtime *model.Showtime, paymentMethod string) *time.Time {
	if paymentMethod == constants.PAYMENT_METHOD_CASH {
		return nil
	}
	t := showtime.StartTime.Add(-BookingExpiryCutoff)
	return &t
}

// FindSeatConflicts trả về các ghế trong seatIds đang bị một đơn còn hiệu lực
// khác giữ cho suất chiếu này. excludeBookingId > 0 dùng khi cập nhật: đơn
// không xung đột với chính ghế nó đang giữ.
func FindSeatConflicts(tx *gorm.DB, showtimeId uint, seatIds []uint, excludeBookingId uint) ([]uint, error) {
	if len(seatIds) == 0 {
		return nil, nil
	}

	q := ActiveBookings(tx.Model(&model.BookingSeat{}).
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id")).
		Where("booking_seats.showtime_id = ? AND booking_seats.seat_id IN ?", showtimeId, seatIds).
		Where("booking_seats.released_at IS NULL")
	if excludeBookingId > 0 {
		q = q.Where("booking_seats.booking_id <> ?", excludeBookingId)
	}

	var rows []model.BookingSeat
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	var conflicts []uint
	for _, r := range rows {
		if !seen[r.SeatId] {
			seen[r.SeatId] = true
			conflicts = append(conflicts, r.SeatId)
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i] < conflicts[j] })
	return conflicts, nil
}

// ReserveSeats chuyển ghế active → reserved. Ghế đang ở trạng thái khác
// (maintenance, đã reserved) không bị đụng tới.
func ReserveSeats(tx *gorm.DB, seatIds []uint) error {
	if len(seatIds) == 0 {
		return nil
	}
	return tx.Model(&model.Seat{}).
		Where("id IN ? AND status = ?", seatIds, constants.SEAT_ACTIVE).
		Update("status", constants.SEAT_RESERVED).Error
}

// ReleaseSeats chuyển ghế reserved → active, cũng chỉ khi đang reserved
func ReleaseSeats(tx *gorm.DB, seatIds []uint) error {
	if len(seatIds) == 0 {
		return nil
	}
	return tx.Model(&model.Seat{}).
		Where("id IN ? AND status = ?", seatIds, constants.SEAT_RESERVED).
		Update("status", constants.SEAT_ACTIVE).Error
}

// HeldSeatIds trả về các ghế đơn đang giữ (chưa release)
func HeldSeatIds(tx *gorm.DB, bookingId uint) ([]uint, error) {
	var rows []model.BookingSeat
	if err := tx.Where("booking_id = ? AND released_at IS NULL", bookingId).Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.SeatId)
	}
	return ids, nil
}

// CancelBookingTx thực hiện chuyển trạng thái hủy trong một transaction:
// đơn sang Cancelled + xoá mềm, nhả các dòng giữ ghế, trả ghế về active.
func CancelBookingTx(tx *gorm.DB, booking *model.Booking, reason string) error {
	now := time.Now()

	heldIds, err := HeldSeatIds(tx, booking.ID)
	if err != nil {
		return err
	}

	if err := tx.Model(booking).Updates(map[string]any{
		"booking_status": constants.BOOKING_CANCELLED,
		"cancel_reason":  reason,
		"cancelled_at":   now,
		"deleted_at":     now,
	}).Error; err != nil {
		return err
	}

	if err := tx.Model(&model.BookingSeat{}).
		Where("booking_id = ? AND released_at IS NULL", booking.ID).
		Update("released_at", now).Error; err != nil {
		return err
	}

	return ReleaseSeats(tx, heldIds)
}

// IsBookingExpired: đơn Confirmed chưa thanh toán mà đã qua hạn thì coi như bị bỏ
func IsBookingExpired(booking *model.Booking, now time.Time) bool {
	return booking.BookingStatus == constants.BOOKING_CONFIRMED &&
		booking.PaymentStatus == constants.PAYMENT_PENDING &&
		booking.ExpiredAt != nil &&
		now.After(*booking.ExpiredAt)
}

// IsUniqueViolation nhận diện lỗi vi phạm unique từ Postgres lẫn SQLite
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
