package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateTheater(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateTheaterInput)
	db := database.DB

	theater := model.Theater{
		Name:     input.Name,
		Address:  input.Address,
		Province: input.Province,
	}
	if err := db.Create(&theater).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, theater)
}

func GetTheaters(c *fiber.Ctx) error {
	db := database.DB

	var theaters []model.Theater
	if err := db.
		Preload("Halls", "deleted_at IS NULL").
		Where("deleted_at IS NULL").
		Order("name asc").
		Find(&theaters).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, theaters)
}

// CreateHall tạo phòng chiếu và sinh luôn lưới ghế theo hàng × cột.
// Các hàng trong khoảng [vipRowMin, vipRowMax] (chỉ số từ 0) là ghế VIP.
func CreateHall(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateHallInput)
	db := database.DB

	var theater model.Theater
	if err := db.Where("id = ? AND deleted_at IS NULL", input.TheaterId).First(&theater).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.THEATER_NOT_FOUND, err)
	}

	var normalType, vipType model.SeatType
	if err := db.Where("type = ?", "NORMAL").First(&normalType).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := db.Where("type = ?", "VIP").First(&vipType).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	hall := model.Hall{
		Name:      input.Name,
		TheaterId: theater.ID,
		Rows:      input.Rows,
		Columns:   input.Columns,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&hall).Error; err != nil {
			return err
		}

		var seats []model.Seat
		for i, row := range input.Rows {
			seatTypeId := normalType.ID
			if input.VipRowMax > 0 && i >= input.VipRowMin && i <= input.VipRowMax {
				seatTypeId = vipType.ID
			}
			for number := 1; number <= input.Columns; number++ {
				seats = append(seats, model.Seat{
					Row:        string(row),
					Number:     number,
					Status:     constants.SEAT_ACTIVE,
					HallId:     hall.ID,
					SeatTypeId: seatTypeId,
				})
			}
		}
		return tx.CreateInBatches(seats, 100).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	db.Preload("Seats").Preload("Seats.SeatType").First(&hall, hall.ID)
	return utils.SuccessResponse(c, fiber.StatusCreated, hall)
}

func GetHallById(c *fiber.Ctx) error {
	hallId := uint(c.Locals("inputId").(int))
	db := database.DB

	var hall model.Hall
	if err := db.
		Preload("Theater").
		Preload("Seats", "deleted_at IS NULL").
		Preload("Seats.SeatType").
		Where("id = ? AND deleted_at IS NULL", hallId).
		First(&hall).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.HALL_NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, hall)
}

// UpdateSeatStatus đổi trạng thái một ghế (bảo trì hoặc mở lại)
func UpdateSeatStatus(c *fiber.Ctx) error {
	seatId := uint(c.Locals("inputId").(int))
	db := database.DB

	var input struct {
		Status string `json:"status" validate:"required,oneof=active maintenance"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	if input.Status != constants.SEAT_ACTIVE && input.Status != constants.SEAT_MAINTENANCE {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, nil)
	}

	var seat model.Seat
	if err := db.Where("id = ? AND deleted_at IS NULL", seatId).First(&seat).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.SEAT_NOT_FOUND, err)
	}

	if err := db.Model(&seat).Update("status", input.Status).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, seat)
}
