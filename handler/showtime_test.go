package handler

import (
	"cinema_booking/constants"
	"cinema_booking/middleware"
	"cinema_booking/model"
	"cinema_booking/validate"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShowtimeTestApp() *fiber.App {
	app := fiber.New()

	app.Post("/showtime", middleware.Protected(), middleware.AdminOnly(), validate.CreateShowtime(), CreateShowtime)
	app.Put("/showtime/:showtimeId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("showtimeId"), validate.EditShowtime(), EditShowtime)
	app.Delete("/showtime/:showtimeId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("showtimeId"), DeleteShowtime)
	app.Patch("/showtime/:showtimeId/restore", middleware.Protected(), middleware.AdminOnly(), validate.GetById("showtimeId"), RestoreShowtime)
	app.Post("/booking", middleware.Protected(), validate.CreateBooking(), CreateBooking)

	return app
}

func showtimeBody(fx testFixtures, start, end time.Time) map[string]any {
	return map[string]any{
		"movieId":   fx.showtime.MovieId,
		"hallId":    fx.showtime.HallId,
		"startTime": start.Format(time.RFC3339),
		"endTime":   end.Format(time.RFC3339),
		"price":     90000,
	}
}

func TestCreateShowtimeOverlap(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newShowtimeTestApp()
	admin := tokenFor(t, fx.admin)

	// chồng lên suất có sẵn trong cùng phòng
	overlapping := showtimeBody(fx,
		fx.showtime.StartTime.Add(30*time.Minute),
		fx.showtime.EndTime.Add(30*time.Minute))
	resp, err := app.Test(jsonRequest(t, "POST", "/showtime", overlapping, admin), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// chạm biên thì được: start mới == end của suất trước
	touching := showtimeBody(fx, fx.showtime2.EndTime, fx.showtime2.EndTime.Add(2*time.Hour))
	resp, err = app.Test(jsonRequest(t, "POST", "/showtime", touching, admin), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreateShowtimeEndBeforeStart(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newShowtimeTestApp()

	start := fx.showtime2.EndTime.Add(time.Hour)
	body := showtimeBody(fx, start, start.Add(-time.Hour))
	resp, err := app.Test(jsonRequest(t, "POST", "/showtime", body, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateShowtimeRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newShowtimeTestApp()

	start := fx.showtime2.EndTime.Add(time.Hour)
	body := showtimeBody(fx, start, start.Add(2*time.Hour))
	resp, err := app.Test(jsonRequest(t, "POST", "/showtime", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestEditShowtimeOverlapExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newShowtimeTestApp()
	admin := tokenFor(t, fx.admin)

	// dời nhẹ trong chính khung của mình: không tự xung đột với mình
	newStart := fx.showtime.StartTime.Add(15 * time.Minute)
	update := map[string]any{"startTime": newStart.Format(time.RFC3339)}
	resp, err := app.Test(jsonRequest(t, "PUT",
		fmt.Sprintf("/showtime/%d", fx.showtime.ID), update, admin), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// nhưng dời đè lên suất khác thì bị chặn
	update = map[string]any{
		"startTime": fx.showtime2.StartTime.Format(time.RFC3339),
		"endTime":   fx.showtime2.EndTime.Format(time.RFC3339),
	}
	resp, err = app.Test(jsonRequest(t, "PUT",
		fmt.Sprintf("/showtime/%d", fx.showtime.ID), update, admin), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestEditShowtimeReschedulesBookingExpiry(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newShowtimeTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	newStart := fx.showtime.StartTime.Add(time.Hour)
	newEnd := fx.showtime.EndTime.Add(time.Hour)
	update := map[string]any{
		"startTime": newStart.Format(time.RFC3339),
		"endTime":   newEnd.Format(time.RFC3339),
	}
	resp, err = app.Test(jsonRequest(t, "PUT",
		fmt.Sprintf("/showtime/%d", fx.showtime.ID), update, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)
	require.NotNil(t, booking.ExpiredAt)
	assert.WithinDuration(t, newStart.Add(-15*time.Minute), *booking.ExpiredAt, time.Second)
}

func TestCancelShowtimeCancelsBookings(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newShowtimeTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	update := map[string]any{"status": constants.SHOWTIME_CANCELLED}
	resp, err = app.Test(jsonRequest(t, "PUT",
		fmt.Sprintf("/showtime/%d", fx.showtime.ID), update, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)
	assert.Equal(t, constants.BOOKING_CANCELLED, booking.BookingStatus)

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.seats[0].ID).Error)
	assert.Equal(t, constants.SEAT_ACTIVE, seat.Status)
}

func TestDeleteShowtimeWithActiveBookings(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newShowtimeTestApp()
	admin := tokenFor(t, fx.admin)

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "DELETE",
		fmt.Sprintf("/showtime/%d", fx.showtime.ID), nil, admin), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// suất không có đơn thì xoá được
	resp, err = app.Test(jsonRequest(t, "DELETE",
		fmt.Sprintf("/showtime/%d", fx.showtime2.ID), nil, admin), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var showtime model.Showtime
	require.NoError(t, db.First(&showtime, fx.showtime2.ID).Error)
	assert.NotNil(t, showtime.DeletedAt)
}

func TestRestoreShowtimeChecksOverlap(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newShowtimeTestApp()
	admin := tokenFor(t, fx.admin)

	resp, err := app.Test(jsonRequest(t, "DELETE",
		fmt.Sprintf("/showtime/%d", fx.showtime2.ID), nil, admin), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// trong lúc suất bị xoá, một suất khác chiếm đúng khung giờ đó
	taken := showtimeBody(fx, fx.showtime2.StartTime, fx.showtime2.EndTime)
	resp, err = app.Test(jsonRequest(t, "POST", "/showtime", taken, admin), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "PATCH",
		fmt.Sprintf("/showtime/%d/restore", fx.showtime2.ID), nil, admin), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var showtime model.Showtime
	require.NoError(t, db.First(&showtime, fx.showtime2.ID).Error)
	assert.NotNil(t, showtime.DeletedAt)
}
