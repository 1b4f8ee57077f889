package validate

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateBookingInput
		if err := parseAndValidate(c, &input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func UpdateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateBookingInput
		if err := parseAndValidate(c, &input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func FilterBookings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterBookingInput
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func CancelBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CancelBookingInput
		// body có thể rỗng, lý do là tuỳ chọn
		_ = c.BodyParser(&input)
		c.Locals("input", input)
		return c.Next()
	}
}
