package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// overlapResponse trả 409 kèm danh sách suất chiếu bị trùng giờ để client hiển thị
func overlapResponse(c *fiber.Ctx, overlaps []model.Showtime) error {
	detail := make([]fiber.Map, 0, len(overlaps))
	for _, s := range overlaps {
		detail = append(detail, fiber.Map{
			"id":        s.ID,
			"startTime": s.StartTime,
			"endTime":   s.EndTime,
		})
	}
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"message":  constants.SHOWTIME_OVERLAP,
		"error":    nil,
		"overlaps": detail,
	})
}

// CreateShowtime tạo suất chiếu mới. Hai suất trong cùng phòng không được
// giao nhau theo khoảng nửa mở [start, end): end của suất này được phép
// chạm đúng start của suất sau.
func CreateShowtime(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateShowtimeInput)
	db := database.DB

	var movie model.Movie
	if err := db.Where("id = ? AND deleted_at IS NULL", input.MovieId).First(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.MOVIE_NOT_FOUND, err)
	}

	var hall model.Hall
	if err := db.Where("id = ? AND deleted_at IS NULL", input.HallId).First(&hall).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.HALL_NOT_FOUND, err)
	}

	overlaps, err := helper.FindOverlappingShowtimes(db, input.HallId, input.StartTime, input.EndTime, 0)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if len(overlaps) > 0 {
		return overlapResponse(c, overlaps)
	}

	showtime := model.Showtime{
		MovieId:   input.MovieId,
		HallId:    input.HallId,
		ShowDate:  utils.CustomDate{Time: input.StartTime},
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Price:     input.Price,
		Status:    constants.SHOWTIME_SCHEDULED,
	}
	if err := db.Create(&showtime).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	db.Preload("Movie").Preload("Hall").First(&showtime, showtime.ID)
	return utils.SuccessResponse(c, fiber.StatusCreated, showtime)
}

func GetShowtimes(c *fiber.Ctx) error {
	filterInput := new(model.FilterShowtimeInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	condition := helper.ActiveShowtimes(db.Model(&model.Showtime{}))

	if filterInput.MovieId > 0 {
		condition = condition.Where("movie_id = ?", filterInput.MovieId)
	}
	if filterInput.HallId > 0 {
		condition = condition.Where("hall_id = ?", filterInput.HallId)
	}
	if filterInput.Status != "" {
		condition = condition.Where("status = ?", filterInput.Status)
	}
	if filterInput.StartDate != "" {
		if start, err := time.Parse("2006-01-02", filterInput.StartDate); err == nil {
			condition = condition.Where("start_time >= ?", start)
		}
	}
	if filterInput.EndDate != "" {
		if end, err := time.Parse("2006-01-02", filterInput.EndDate); err == nil {
			condition = condition.Where("start_time < ?", end.AddDate(0, 0, 1))
		}
	}

	var totalCount int64
	if err := condition.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var showtimes []model.Showtime
	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)
	if err := condition.
		Preload("Movie").
		Preload("Hall").
		Order("start_time asc").
		Find(&showtimes).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	response := &model.ResponseCustom{
		Rows:       showtimes,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func GetShowtimeById(c *fiber.Ctx) error {
	showtimeId := uint(c.Locals("inputId").(int))
	db := database.DB

	var showtime model.Showtime
	if err := db.
		Preload("Movie").
		Preload("Hall").
		Where("id = ? AND deleted_at IS NULL", showtimeId).
		First(&showtime).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.SHOWTIME_NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, showtime)
}

// EditShowtime cập nhật suất chiếu. Đổi phòng hoặc đổi giờ phải qua lại
// kiểm tra trùng giờ, loại trừ chính suất đang sửa.
func EditShowtime(c *fiber.Ctx) error {
	showtimeId := uint(c.Locals("inputId").(int))
	input := c.Locals("input").(model.UpdateShowtimeInput)
	db := database.DB

	var showtime model.Showtime
	if err := db.Where("id = ? AND deleted_at IS NULL", showtimeId).First(&showtime).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.SHOWTIME_NOT_FOUND, err)
	}

	if input.MovieId != nil {
		var movie model.Movie
		if err := db.Where("id = ? AND deleted_at IS NULL", *input.MovieId).First(&movie).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.MOVIE_NOT_FOUND, err)
		}
	}
	if input.HallId != nil {
		var hall model.Hall
		if err := db.Where("id = ? AND deleted_at IS NULL", *input.HallId).First(&hall).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.HALL_NOT_FOUND, err)
		}
	}

	hallId := showtime.HallId
	if input.HallId != nil {
		hallId = *input.HallId
	}
	start := showtime.StartTime
	if input.StartTime != nil {
		start = *input.StartTime
	}
	end := showtime.EndTime
	if input.EndTime != nil {
		end = *input.EndTime
	}
	if !end.After(start) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.ERROR_INPUT, nil, "endTime")
	}

	overlaps, err := helper.FindOverlappingShowtimes(db, hallId, start, end, showtime.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if len(overlaps) > 0 {
		return overlapResponse(c, overlaps)
	}

	if err := copier.Copy(&showtime, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
	}
	showtime.ShowDate = utils.CustomDate{Time: showtime.StartTime}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&showtime).Error; err != nil {
			return err
		}
		// hủy suất chiếu → hủy các đơn còn hiệu lực của suất
		if input.Status != nil && *input.Status == constants.SHOWTIME_CANCELLED {
			return cancelBookingsOfShowtime(tx, showtime.ID, "Suất chiếu đã bị hủy")
		}
		// đổi giờ chiếu → tính lại hạn thanh toán cho các đơn còn hiệu lực
		if input.StartTime != nil {
			return recomputeBookingExpiries(tx, &showtime)
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
	}

	go PublishSeatMap(showtime.ID)

	db.Preload("Movie").Preload("Hall").First(&showtime, showtime.ID)
	return utils.SuccessResponse(c, fiber.StatusOK, showtime)
}

func cancelBookingsOfShowtime(tx *gorm.DB, showtimeId uint, reason string) error {
	var bookings []model.Booking
	if err := helper.ActiveBookings(tx).
		Where("showtime_id = ?", showtimeId).
		Find(&bookings).Error; err != nil {
		return err
	}
	for i := range bookings {
		if err := helper.CancelBookingTx(tx, &bookings[i], reason); err != nil {
			return err
		}
	}
	return nil
}

func recomputeBookingExpiries(tx *gorm.DB, showtime *model.Showtime) error {
	var bookings []model.Booking
	if err := helper.ActiveBookings(tx).
		Where("showtime_id = ?", showtime.ID).
		Find(&bookings).Error; err != nil {
		return err
	}
	for i := range bookings {
		expiry := helper.ComputeExpiry(showtime, bookings[i].PaymentMethod)
		if err := tx.Model(&bookings[i]).Update("expired_at", expiry).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteShowtime xoá mềm suất chiếu. Suất còn đơn hiệu lực không xoá được:
// phải hủy các đơn trước hoặc hủy suất qua EditShowtime.
func DeleteShowtime(c *fiber.Ctx) error {
	showtimeId := uint(c.Locals("inputId").(int))
	db := database.DB

	var showtime model.Showtime
	if err := db.Where("id = ? AND deleted_at IS NULL", showtimeId).First(&showtime).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.SHOWTIME_NOT_FOUND, err)
	}

	var bookingCount int64
	if err := helper.ActiveBookings(db.Model(&model.Booking{})).
		Where("showtime_id = ?", showtime.ID).
		Count(&bookingCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if bookingCount > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict,
			fmt.Sprintf("%s (%d đơn)", constants.SHOWTIME_HAS_BOOKINGS, bookingCount), nil)
	}

	if err := db.Model(&showtime).Update("deleted_at", time.Now()).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Đã xoá suất chiếu",
		"id":      showtime.ID,
	})
}

// RestoreShowtime khôi phục suất chiếu đã xoá mềm, kiểm tra lại trùng giờ
// vì lịch phòng có thể đã thay đổi trong lúc suất bị xoá
func RestoreShowtime(c *fiber.Ctx) error {
	showtimeId := uint(c.Locals("inputId").(int))
	db := database.DB

	var showtime model.Showtime
	if err := db.Where("id = ?", showtimeId).First(&showtime).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.SHOWTIME_NOT_FOUND, err)
	}
	if showtime.DeletedAt == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.SHOWTIME_NOT_DELETED, nil)
	}

	overlaps, err := helper.FindOverlappingShowtimes(db, showtime.HallId, showtime.StartTime, showtime.EndTime, showtime.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if len(overlaps) > 0 {
		return overlapResponse(c, overlaps)
	}

	if err := db.Model(&showtime).Update("deleted_at", nil).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
	}

	db.Preload("Movie").Preload("Hall").First(&showtime, showtime.ID)
	return utils.SuccessResponse(c, fiber.StatusOK, showtime)
}
