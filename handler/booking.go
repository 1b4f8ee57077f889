package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

const CancelReasonExpired = "Hết hạn thanh toán"

// svcError gắn mã HTTP vào lỗi nghiệp vụ để handler trả đúng loại phản hồi
type svcError struct {
	Status  int
	Message string
	Err     error
}

func (e *svcError) Error() string { return e.Message }

func uniqueUints(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func subtractUints(a, b []uint) []uint {
	inB := make(map[uint]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	var out []uint
	for _, id := range a {
		if !inB[id] {
			out = append(out, id)
		}
	}
	return out
}

// validateSeatsForShowtime kiểm tra ghế tồn tại và thuộc đúng phòng của suất chiếu
func validateSeatsForShowtime(tx *gorm.DB, showtime *model.Showtime, seatIds []uint) *svcError {
	var seats []model.Seat
	if err := tx.Where("id IN ? AND deleted_at IS NULL", seatIds).Find(&seats).Error; err != nil {
		return &svcError{fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err}
	}

	if len(seats) != len(seatIds) {
		found := make(map[uint]bool, len(seats))
		for _, s := range seats {
			found[s.ID] = true
		}
		var missing []uint
		for _, id := range seatIds {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return &svcError{fiber.StatusNotFound,
			fmt.Sprintf("%s: %v", constants.SEAT_NOT_FOUND, missing), nil}
	}

	var wrongHall []uint
	for _, s := range seats {
		if s.HallId != showtime.HallId {
			wrongHall = append(wrongHall, s.ID)
		}
	}
	if len(wrongHall) > 0 {
		return &svcError{fiber.StatusBadRequest,
			fmt.Sprintf("%s: %v", constants.SEAT_WRONG_HALL, wrongHall), nil}
	}
	return nil
}

// createBookingAttempt chạy trọn một lượt tạo đơn trong transaction.
// Mọi kiểm tra đi trước mọi ghi; thứ tự kiểm tra cố định theo nghiệp vụ.
func createBookingAttempt(db *gorm.DB, customerId uint, input model.CreateBookingInput) (*model.Booking, *svcError) {
	seatIds := uniqueUints(input.SeatIds)
	var booking model.Booking

	err := db.Transaction(func(tx *gorm.DB) error {
		// 1. khách hàng tồn tại
		var customer model.Customer
		if err := tx.Where("id = ? AND deleted_at IS NULL", customerId).First(&customer).Error; err != nil {
			return &svcError{fiber.StatusNotFound, constants.CUSTOMER_NOT_FOUND, err}
		}

		// 2. suất chiếu tồn tại
		var showtime model.Showtime
		if err := tx.Where("id = ? AND deleted_at IS NULL", input.ShowtimeId).First(&showtime).Error; err != nil {
			return &svcError{fiber.StatusNotFound, constants.SHOWTIME_NOT_FOUND, err}
		}

		// 3. suất chiếu còn nhận đặt vé
		if err := helper.CheckShowtimeBookable(&showtime, time.Now()); err != nil {
			return &svcError{fiber.StatusBadRequest, constants.SHOWTIME_NOT_BOOKABLE, err}
		}

		// 4 + 5. ghế tồn tại và đúng phòng
		if serr := validateSeatsForShowtime(tx, &showtime, seatIds); serr != nil {
			return serr
		}

		// 6. không ghế nào đang bị đơn còn hiệu lực khác giữ
		conflicts, err := helper.FindSeatConflicts(tx, showtime.ID, seatIds, 0)
		if err != nil {
			return &svcError{fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err}
		}
		if len(conflicts) > 0 {
			return &svcError{fiber.StatusConflict,
				fmt.Sprintf("%s: %v", constants.SEAT_ALREADY_BOOKED, conflicts), nil}
		}

		code, err := helper.GenerateBookingCode(tx)
		if err != nil {
			return &svcError{fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err}
		}

		booking = model.Booking{
			ReferenceCode: code,
			CustomerId:    customer.ID,
			ShowtimeId:    showtime.ID,
			SeatCount:     len(seatIds),
			TotalPrice:    input.TotalPrice,
			PaymentMethod: input.PaymentMethod,
			PaymentId:     input.PaymentId,
			Noted:         input.Noted,
			PaymentStatus: constants.PAYMENT_PENDING,
			BookingStatus: constants.BOOKING_CONFIRMED,
			ExpiredAt:     helper.ComputeExpiry(&showtime, input.PaymentMethod),
		}
		if input.BookingStatus != "" {
			booking.BookingStatus = input.BookingStatus
		}
		if input.PaymentStatus != "" {
			booking.PaymentStatus = input.PaymentStatus
		}

		for _, seatId := range seatIds {
			booking.Seats = append(booking.Seats, model.BookingSeat{
				ShowtimeId: showtime.ID,
				SeatId:     seatId,
			})
		}

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		return helper.ReserveSeats(tx, seatIds)
	})

	if err != nil {
		var serr *svcError
		if errors.As(err, &serr) {
			return nil, serr
		}
		// index unique (showtime_id, seat_id) bắt được race hai request ghi cùng ghế
		if helper.IsUniqueViolation(err) && strings.Contains(err.Error(), "uniq_showtime_seat_hold") {
			return nil, &svcError{fiber.StatusConflict, constants.SEAT_ALREADY_BOOKED, nil}
		}
		return nil, &svcError{fiber.StatusInternalServerError, constants.ERROR_CREATE, err}
	}
	return &booking, nil
}

func CreateBooking(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateBookingInput)
	db := database.DB

	claim, requester := helper.GetInfoCustomerFromToken(c)
	if requester == nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.NOT_LOGGED_IN, nil)
	}

	customerId := input.CustomerId
	if customerId == 0 {
		customerId = claim.CustomerId
	}

	// đặt hộ người khác hoặc ép trạng thái khởi tạo là đặc quyền quản trị
	if (customerId != requester.ID || input.BookingStatus != "" || input.PaymentStatus != "") &&
		requester.Role != constants.ROLE_ADMIN {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, nil)
	}

	var booking *model.Booking
	var serr *svcError
	for attempt := 0; attempt < 3; attempt++ {
		booking, serr = createBookingAttempt(db, customerId, input)
		// trùng mã đặt vé lúc ghi là lỗi tạm, thử lại với mã mới
		if serr != nil && serr.Err != nil && helper.IsUniqueViolation(serr.Err) &&
			strings.Contains(serr.Err.Error(), "reference_code") {
			continue
		}
		break
	}
	if serr != nil {
		return utils.ErrorResponse(c, serr.Status, serr.Message, serr.Err)
	}

	go PublishSeatMap(booking.ShowtimeId)

	detail, err := loadBookingDetail(db, booking.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	sendBookingMail(detail, false)

	return utils.SuccessResponse(c, fiber.StatusCreated, detail)
}

// loadBookingDetail nạp đơn kèm các tham chiếu đã resolve: khách, suất chiếu,
// phim, phòng, ghế. Quan hệ thiếu trả về field rỗng chứ không làm mất bản ghi.
func loadBookingDetail(db *gorm.DB, bookingId uint) (*model.Booking, error) {
	var booking model.Booking
	err := db.
		Preload("Customer").
		Preload("Showtime").
		Preload("Showtime.Movie").
		Preload("Showtime.Hall").
		Preload("Seats").
		Preload("Seats.Seat").
		Preload("Seats.Seat.SeatType").
		Where("id = ?", bookingId).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func sendBookingMail(booking *model.Booking, cancelled bool) {
	var seatLabels []string
	for _, bs := range booking.Seats {
		if bs.Seat.ID != 0 {
			seatLabels = append(seatLabels, bs.Seat.Label())
		}
	}
	data := utils.BookingEmailData{
		ReferenceCode: booking.ReferenceCode,
		MovieTitle:    booking.Showtime.Movie.Title,
		Showtime:      booking.Showtime.StartTime.Format("15:04 - 02/01/2006"),
		Seats:         seatLabels,
		TotalPrice:    booking.TotalPrice,
		PaymentMethod: booking.PaymentMethod,
	}
	if cancelled {
		if booking.CancelReason != nil {
			data.CancelReason = *booking.CancelReason
		}
		utils.SendBookingCancellationEmail(booking.Customer.Email, data)
		return
	}
	utils.SendBookingConfirmationEmail(booking.Customer.Email, data)
}

func GetBookingById(c *fiber.Ctx) error {
	bookingId := uint(c.Locals("inputId").(int))
	db := database.DB

	var booking model.Booking
	if err := db.Where("id = ? AND deleted_at IS NULL", bookingId).First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	detail, err := loadBookingDetail(db, booking.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, detail)
}

// GetBookingByReferenceCode tra cứu đơn theo mã công khai. Đơn Confirmed chưa
// thanh toán đã quá hạn bị coi là bỏ dở và được hủy ngay tại đây trước khi trả về.
func GetBookingByReferenceCode(c *fiber.Ctx) error {
	code := c.Params("referenceCode")
	db := database.DB

	var booking model.Booking
	if err := db.Where("reference_code = ? AND deleted_at IS NULL", code).First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	if helper.IsBookingExpired(&booking, time.Now()) {
		if err := db.Transaction(func(tx *gorm.DB) error {
			return helper.CancelBookingTx(tx, &booking, CancelReasonExpired)
		}); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		go PublishSeatMap(booking.ShowtimeId)
	}

	detail, err := loadBookingDetail(db, booking.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, detail)
}

func UpdateBooking(c *fiber.Ctx) error {
	bookingId := uint(c.Locals("inputId").(int))
	input := c.Locals("input").(model.UpdateBookingInput)
	db := database.DB

	var booking model.Booking
	if err := db.Where("id = ? AND deleted_at IS NULL", bookingId).First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	// hủy qua update đi theo đường chuyển trạng thái hủy, không cần suất còn mở
	if input.BookingStatus != nil && *input.BookingStatus == constants.BOOKING_CANCELLED {
		if booking.BookingStatus == constants.BOOKING_CANCELLED {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_ALREADY_CANCELLED, nil)
		}
		reason := ""
		if input.Noted != nil {
			reason = *input.Noted
		}
		if err := db.Transaction(func(tx *gorm.DB) error {
			return helper.CancelBookingTx(tx, &booking, reason)
		}); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
		}
		go PublishSeatMap(booking.ShowtimeId)
		detail, _ := loadBookingDetail(db, booking.ID)
		return utils.SuccessResponse(c, fiber.StatusOK, detail)
	}

	now := time.Now()

	// không được sửa đơn gắn với suất chiếu đã đóng, trừ khi là hủy
	var currentShowtime model.Showtime
	if err := db.Where("id = ?", booking.ShowtimeId).First(&currentShowtime).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.SHOWTIME_NOT_FOUND, err)
	}
	if err := helper.CheckShowtimeBookable(&currentShowtime, now); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.SHOWTIME_NOT_BOOKABLE, err)
	}

	effective := currentShowtime
	showtimeChanged := input.ShowtimeId != nil && *input.ShowtimeId != booking.ShowtimeId
	if showtimeChanged {
		var newShowtime model.Showtime
		if err := db.Where("id = ? AND deleted_at IS NULL", *input.ShowtimeId).First(&newShowtime).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.SHOWTIME_NOT_FOUND, err)
		}
		if err := helper.CheckShowtimeBookable(&newShowtime, now); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.SHOWTIME_NOT_BOOKABLE, err)
		}
		effective = newShowtime
	}

	oldSeatIds, err := helper.HeldSeatIds(db, booking.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	seatsChanged := input.SeatIds != nil
	newSeatIds := oldSeatIds
	if seatsChanged {
		newSeatIds = uniqueUints(*input.SeatIds)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if showtimeChanged || seatsChanged {
			if serr := validateSeatsForShowtime(tx, &effective, newSeatIds); serr != nil {
				return serr
			}
			// kiểm tra xung đột ngay trước khi ghi, loại trừ chính đơn này
			conflicts, err := helper.FindSeatConflicts(tx, effective.ID, newSeatIds, booking.ID)
			if err != nil {
				return &svcError{fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err}
			}
			if len(conflicts) > 0 {
				return &svcError{fiber.StatusConflict,
					fmt.Sprintf("%s: %v", constants.SEAT_ALREADY_BOOKED, conflicts), nil}
			}

			var toRelease, toHold []uint
			if showtimeChanged {
				// đổi suất chiếu → nhả toàn bộ ghế cũ, giữ lại từ đầu cho suất mới
				toRelease = oldSeatIds
				toHold = newSeatIds
				if err := tx.Model(&model.BookingSeat{}).
					Where("booking_id = ? AND released_at IS NULL", booking.ID).
					Update("released_at", now).Error; err != nil {
					return err
				}
			} else {
				toRelease = subtractUints(oldSeatIds, newSeatIds)
				toHold = subtractUints(newSeatIds, oldSeatIds)
				if len(toRelease) > 0 {
					if err := tx.Model(&model.BookingSeat{}).
						Where("booking_id = ? AND seat_id IN ? AND released_at IS NULL", booking.ID, toRelease).
						Update("released_at", now).Error; err != nil {
						return err
					}
				}
			}

			for _, seatId := range toHold {
				if err := tx.Create(&model.BookingSeat{
					BookingId:  booking.ID,
					ShowtimeId: effective.ID,
					SeatId:     seatId,
				}).Error; err != nil {
					return err
				}
			}

			if err := helper.ReleaseSeats(tx, toRelease); err != nil {
				return err
			}
			if err := helper.ReserveSeats(tx, toHold); err != nil {
				return err
			}
		}

		// áp các trường còn lại, con trỏ nil bị bỏ qua; id và createdAt bất biến
		if err := copier.Copy(&booking, &input); err != nil {
			return err
		}
		booking.ShowtimeId = effective.ID
		booking.SeatCount = len(newSeatIds)
		booking.ExpiredAt = helper.ComputeExpiry(&effective, booking.PaymentMethod)

		return tx.Save(&booking).Error
	})

	if err != nil {
		var serr *svcError
		if errors.As(err, &serr) {
			return utils.ErrorResponse(c, serr.Status, serr.Message, serr.Err)
		}
		if helper.IsUniqueViolation(err) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.SEAT_ALREADY_BOOKED, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
	}

	go PublishSeatMap(currentShowtime.ID)
	if showtimeChanged {
		go PublishSeatMap(effective.ID)
	}

	detail, err := loadBookingDetail(db, booking.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, detail)
}

func cancelBooking(c *fiber.Ctx, requireOwner bool) error {
	bookingId := uint(c.Locals("inputId").(int))
	input, _ := c.Locals("input").(model.CancelBookingInput)
	db := database.DB

	var booking model.Booking
	if err := db.Where("id = ?", bookingId).First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	if requireOwner {
		claim, requester := helper.GetInfoCustomerFromToken(c)
		if requester == nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.NOT_LOGGED_IN, nil)
		}
		if booking.CustomerId != claim.CustomerId {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.BOOKING_NOT_OWNER, nil)
		}
	}

	if booking.BookingStatus == constants.BOOKING_CANCELLED || booking.DeletedAt != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_ALREADY_CANCELLED, nil)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return helper.CancelBookingTx(tx, &booking, input.Reason)
	}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
	}

	go PublishSeatMap(booking.ShowtimeId)

	if detail, err := loadBookingDetail(db, booking.ID); err == nil {
		sendBookingMail(detail, true)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message":       "Hủy đơn đặt vé thành công",
		"referenceCode": booking.ReferenceCode,
	})
}

// CancelBookingAdmin: quản trị viên hủy bất kỳ đơn nào
func CancelBookingAdmin(c *fiber.Ctx) error {
	return cancelBooking(c, false)
}

// CancelBookingByOwner: khách chỉ được hủy đơn của chính mình
func CancelBookingByOwner(c *fiber.Ctx) error {
	return cancelBooking(c, true)
}

// RestoreBooking khôi phục đơn đã xoá mềm. Ghế của đơn phải còn trống:
// khôi phục không được phép tạo lại xung đột.
func RestoreBooking(c *fiber.Ctx) error {
	bookingId := uint(c.Locals("inputId").(int))
	db := database.DB

	var booking model.Booking
	if err := db.Where("id = ?", bookingId).First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}
	if booking.DeletedAt == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_NOT_DELETED, nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// chỉ re-arm các dòng giữ ghế bị nhả bởi lần hủy, không đụng
		// các dòng đã nhả trước đó vì đổi ghế
		var rows []model.BookingSeat
		q := tx.Where("booking_id = ? AND showtime_id = ? AND released_at IS NOT NULL", booking.ID, booking.ShowtimeId)
		if booking.CancelledAt != nil {
			q = q.Where("released_at >= ?", *booking.CancelledAt)
		}
		if err := q.Find(&rows).Error; err != nil {
			return err
		}

		seatIds := make([]uint, 0, len(rows))
		for _, r := range rows {
			seatIds = append(seatIds, r.SeatId)
		}

		conflicts, err := helper.FindSeatConflicts(tx, booking.ShowtimeId, seatIds, booking.ID)
		if err != nil {
			return &svcError{fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err}
		}
		if len(conflicts) > 0 {
			return &svcError{fiber.StatusConflict,
				fmt.Sprintf("%s: %v", constants.SEAT_ALREADY_BOOKED, conflicts), nil}
		}

		for _, r := range rows {
			if err := tx.Model(&model.BookingSeat{}).
				Where("id = ?", r.ID).
				Update("released_at", nil).Error; err != nil {
				return err
			}
		}
		if err := helper.ReserveSeats(tx, seatIds); err != nil {
			return err
		}

		return tx.Model(&booking).Updates(map[string]any{
			"deleted_at":     nil,
			"booking_status": constants.BOOKING_CONFIRMED,
			"cancel_reason":  nil,
			"cancelled_at":   nil,
		}).Error
	})

	if err != nil {
		var serr *svcError
		if errors.As(err, &serr) {
			return utils.ErrorResponse(c, serr.Status, serr.Message, serr.Err)
		}
		if helper.IsUniqueViolation(err) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.SEAT_ALREADY_BOOKED, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
	}

	go PublishSeatMap(booking.ShowtimeId)

	detail, err := loadBookingDetail(db, booking.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, detail)
}

// ForceDeleteBooking xoá cứng đơn cùng các dòng giữ ghế của nó
func ForceDeleteBooking(c *fiber.Ctx) error {
	bookingId := uint(c.Locals("inputId").(int))
	db := database.DB

	var booking model.Booking
	if err := db.Where("id = ?", bookingId).First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		heldIds, err := helper.HeldSeatIds(tx, booking.ID)
		if err != nil {
			return err
		}
		if err := helper.ReleaseSeats(tx, heldIds); err != nil {
			return err
		}
		if err := tx.Where("booking_id = ?", booking.ID).Delete(&model.BookingSeat{}).Error; err != nil {
			return err
		}
		return tx.Delete(&booking).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	go PublishSeatMap(booking.ShowtimeId)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message":       "Đã xoá vĩnh viễn đơn đặt vé",
		"referenceCode": booking.ReferenceCode,
	})
}

func ListBookings(c *fiber.Ctx) error {
	filterInput := c.Locals("input").(model.FilterBookingInput)

	db := database.DB
	condition := db.Model(&model.Booking{}).
		Joins("JOIN showtimes ON showtimes.id = bookings.showtime_id")

	if !filterInput.IncludeDeleted {
		condition = condition.Where("bookings.deleted_at IS NULL")
	}
	if filterInput.BookingStatus != "" {
		condition = condition.Where("bookings.booking_status = ?", filterInput.BookingStatus)
	}
	if filterInput.PaymentStatus != "" {
		condition = condition.Where("bookings.payment_status = ?", filterInput.PaymentStatus)
	}
	if filterInput.CustomerId > 0 {
		condition = condition.Where("bookings.customer_id = ?", filterInput.CustomerId)
	}
	if filterInput.ShowtimeId > 0 {
		condition = condition.Where("bookings.showtime_id = ?", filterInput.ShowtimeId)
	}
	if filterInput.StartDate != "" {
		if start, err := time.Parse("2006-01-02", filterInput.StartDate); err == nil {
			condition = condition.Where("showtimes.start_time >= ?", start)
		}
	}
	if filterInput.EndDate != "" {
		if end, err := time.Parse("2006-01-02", filterInput.EndDate); err == nil {
			condition = condition.Where("showtimes.start_time < ?", end.AddDate(0, 0, 1))
		}
	}
	if filterInput.SearchKey != "" {
		key := "%" + filterInput.SearchKey + "%"
		condition = condition.Where(
			"bookings.reference_code LIKE ? OR bookings.customer_id IN (SELECT id FROM customers WHERE email LIKE ?)",
			key, key)
	}

	var totalCount int64
	if err := condition.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	sortBy := "created_at"
	if filterInput.SortBy != "" {
		sortBy = filterInput.SortBy
	}
	sortDir := "desc"
	if filterInput.SortDir != "" {
		sortDir = filterInput.SortDir
	}

	var bookings []model.Booking
	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)
	if err := condition.
		Preload("Customer").
		Preload("Showtime").
		Preload("Showtime.Movie").
		Preload("Seats").
		Preload("Seats.Seat").
		Order(fmt.Sprintf("bookings.%s %s", sortBy, sortDir)).
		Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	response := &model.ResponseCustom{
		Rows:       bookings,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

// GetBookingQRCode trả về ảnh QR của mã đặt vé để quét tại quầy
func GetBookingQRCode(c *fiber.Ctx) error {
	bookingId := uint(c.Locals("inputId").(int))
	db := database.DB

	var booking model.Booking
	if err := db.Where("id = ? AND deleted_at IS NULL", bookingId).First(&booking).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
	}

	qrBytes, err := utils.GenerateQRCode(booking.ReferenceCode, 400)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	c.Type("png")
	return c.Send(qrBytes)
}

// ExpireBookings quét các đơn Confirmed chưa thanh toán đã quá hạn và hủy chúng.
// Chạy định kỳ từ main; tra cứu theo mã cũng tự kiểm tra nên sweep chỉ là lưới đỡ.
func ExpireBookings() {
	db := database.DB
	now := time.Now()

	var expired []model.Booking
	err := db.
		Where("booking_status = ? AND payment_status = ? AND expired_at IS NOT NULL AND expired_at < ? AND deleted_at IS NULL",
			constants.BOOKING_CONFIRMED, constants.PAYMENT_PENDING, now).
		Find(&expired).Error
	if err != nil {
		log.Printf("Lỗi tìm đơn hết hạn: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	for i := range expired {
		booking := expired[i]
		if err := db.Transaction(func(tx *gorm.DB) error {
			return helper.CancelBookingTx(tx, &booking, CancelReasonExpired)
		}); err != nil {
			log.Printf("Lỗi hủy đơn hết hạn %s: %v", booking.ReferenceCode, err)
			continue
		}
		go PublishSeatMap(booking.ShowtimeId)
	}

	log.Printf("Đã hủy %d đơn hết hạn thanh toán", len(expired))
}
