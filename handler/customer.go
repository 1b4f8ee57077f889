package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(60 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func RegisterCustomer(c *fiber.Ctx) error {
	input := c.Locals("input").(model.RegisterCustomerInput)
	db := database.DB

	existing, err := helper.GetCustomerByEmail(input.Email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if existing != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.EMAIL_EXISTS, nil, "email")
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}

	customer := model.Customer{
		UserName: input.UserName,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: hash,
		Role:     constants.ROLE_CUSTOMER,
		IsActive: true,
	}
	if err := db.Create(&customer).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, customer)
}

func Login(c *fiber.Ctx) error {
	var input model.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	customer, err := helper.GetCustomerByEmail(input.Email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if customer == nil || !customer.IsActive {
		return utils.ErrorResponseHaveKey(c, fiber.StatusUnauthorized, constants.INVALID_EMAIL, nil, "email")
	}
	if !helper.CheckPasswordHash(input.Password, customer.Password) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusUnauthorized, constants.INVALID_PASSWORD, nil, "password")
	}

	tokenClaim := model.TokenClaim{
		CustomerId: customer.ID,
		Email:      customer.Email,
		Role:       customer.Role,
	}
	accessToken, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	refreshToken, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	setAuthCookies(c, accessToken, refreshToken)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"customer": customer,
		"token": model.TokenData{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{Name: "access_token", Value: "", Expires: time.Now().Add(-time.Hour), HTTPOnly: true})
	c.Cookie(&fiber.Cookie{Name: "refresh_token", Value: "", Expires: time.Now().Add(-time.Hour), HTTPOnly: true})
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Đăng xuất thành công"})
}

// GetMe trả thông tin khách hàng của token hiện tại
func GetMe(c *fiber.Ctx) error {
	_, customer := helper.GetInfoCustomerFromToken(c)
	if customer == nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.NOT_LOGGED_IN, nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, customer)
}

// GetMyBookings liệt kê đơn đặt vé của chính khách đang đăng nhập
func GetMyBookings(c *fiber.Ctx) error {
	claim, customer := helper.GetInfoCustomerFromToken(c)
	if customer == nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.NOT_LOGGED_IN, nil)
	}

	var bookings []model.Booking
	if err := database.DB.
		Preload("Showtime").
		Preload("Showtime.Movie").
		Preload("Seats").
		Preload("Seats.Seat").
		Where("customer_id = ?", claim.CustomerId).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bookings)
}
