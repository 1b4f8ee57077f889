package model

import "time"

// Booking là gốc của nghiệp vụ đặt vé: một khách, một suất chiếu,
// một tập ghế. SeatCount luôn bằng số dòng BookingSeat của đơn.
type Booking struct {
	DTO
	ReferenceCode string        `gorm:"size:20;uniqueIndex" json:"referenceCode"`
	CustomerId    uint          `json:"customerId"`
	Customer      Customer      `gorm:"foreignKey:CustomerId;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	ShowtimeId    uint          `json:"showtimeId"`
	Showtime      Showtime      `gorm:"foreignKey:ShowtimeId" json:"showtime,omitempty"`
	Seats         []BookingSeat `gorm:"foreignKey:BookingId" json:"seats,omitempty"`
	SeatCount     int           `json:"seatCount"`
	TotalPrice    float64       `json:"totalPrice"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentId     *string       `json:"paymentId,omitempty"`
	PaymentStatus string        `gorm:"default:'Pending'" json:"paymentStatus"`
	BookingStatus string        `gorm:"default:'Confirmed'" json:"bookingStatus"`
	ExpiredAt     *time.Time    `json:"expiredAt"` // nil với thanh toán Cash
	Noted         string        `json:"noted"`
	CancelReason  *string       `json:"cancelReason,omitempty"`
	CancelledAt   *time.Time    `json:"cancelledAt,omitempty"`
}

// BookingSeat là một ghế đang được một đơn giữ. Chừng nào released_at còn NULL
// thì (showtime_id, seat_id) là duy nhất: ràng buộc mức lưu trữ chặn double-booking
// kể cả khi hai request kiểm tra xung đột cùng lúc.
type BookingSeat struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookingId  uint       `gorm:"not null;index" json:"bookingId"`
	ShowtimeId uint       `gorm:"not null;uniqueIndex:uniq_showtime_seat_hold" json:"showtimeId"`
	SeatId     uint       `gorm:"not null;uniqueIndex:uniq_showtime_seat_hold,where:released_at IS NULL" json:"seatId"`
	Seat       Seat       `gorm:"foreignKey:SeatId" json:"seat,omitempty"`
	ReleasedAt *time.Time `json:"releasedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type CreateBookingInput struct {
	CustomerId    uint    `json:"customerId" validate:"omitempty,gt=0"` // bỏ trống → lấy từ token
	ShowtimeId    uint    `json:"showtimeId" validate:"required,gt=0"`
	SeatIds       []uint  `json:"seatIds" validate:"required,min=1,dive,gt=0"`
	TotalPrice    float64 `json:"totalPrice" validate:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=Cash Card"`
	PaymentId     *string `json:"paymentId"`
	Noted         string  `json:"noted"`
	// Quản trị viên được phép đặt trạng thái khởi tạo khác mặc định
	BookingStatus string `json:"bookingStatus" validate:"omitempty,oneof=Pending Confirmed Completed"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,oneof=Pending Completed Failed Refunded"`
}

type UpdateBookingInput struct {
	ShowtimeId    *uint    `json:"showtimeId" validate:"omitempty,gt=0"`
	SeatIds       *[]uint  `json:"seatIds" validate:"omitempty,min=1,dive,gt=0"`
	TotalPrice    *float64 `json:"totalPrice" validate:"omitempty,gt=0"`
	PaymentMethod *string  `json:"paymentMethod" validate:"omitempty,oneof=Cash Card"`
	PaymentStatus *string  `json:"paymentStatus" validate:"omitempty,oneof=Pending Completed Failed Refunded"`
	BookingStatus *string  `json:"bookingStatus" validate:"omitempty,oneof=Pending Confirmed Cancelled Completed"`
	PaymentId     *string  `json:"paymentId"`
	Noted         *string  `json:"noted"`
}

type CancelBookingInput struct {
	Reason string `json:"reason"`
}

type FilterBookingInput struct {
	Pagination
	BookingStatus  string `query:"bookingStatus" json:"bookingStatus" validate:"omitempty,oneof=Pending Confirmed Cancelled Completed"`
	PaymentStatus  string `query:"paymentStatus" json:"paymentStatus" validate:"omitempty,oneof=Pending Completed Failed Refunded"`
	CustomerId     uint   `query:"customerId" json:"customerId" validate:"omitempty,gt=0"`
	ShowtimeId     uint   `query:"showtimeId" json:"showtimeId" validate:"omitempty,gt=0"`
	StartDate      string `query:"startDate" json:"startDate"` // YYYY-MM-DD, theo ngày chiếu
	EndDate        string `query:"endDate" json:"endDate"`
	SearchKey      string `query:"searchKey" json:"searchKey"` // mã đặt vé hoặc email khách
	IncludeDeleted bool   `query:"includeDeleted" json:"includeDeleted"`
	SortBy         string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=created_at total_price seat_count"`
	SortDir        string `query:"sortDir" json:"sortDir" validate:"omitempty,oneof=asc desc"`
}
