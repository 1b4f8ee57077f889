package handler

import (
	"bytes"
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/middleware"
	"cinema_booking/model"
	"cinema_booking/utils"
	"cinema_booking/validate"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
	return db
}

func newTestApp() *fiber.App {
	app := fiber.New()

	app.Post("/booking", middleware.Protected(), validate.CreateBooking(), CreateBooking)
	app.Get("/booking", middleware.Protected(), middleware.AdminOnly(), validate.FilterBookings(), ListBookings)
	app.Get("/booking/code/:referenceCode", GetBookingByReferenceCode)
	app.Put("/booking/:bookingId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("bookingId"), validate.UpdateBooking(), UpdateBooking)
	app.Post("/booking/:bookingId/cancel", middleware.Protected(), validate.GetById("bookingId"), validate.CancelBooking(), CancelBookingByOwner)
	app.Post("/booking/:bookingId/cancel-admin", middleware.Protected(), middleware.AdminOnly(), validate.GetById("bookingId"), validate.CancelBooking(), CancelBookingAdmin)
	app.Patch("/booking/:bookingId/restore", middleware.Protected(), middleware.AdminOnly(), validate.GetById("bookingId"), RestoreBooking)
	app.Get("/showtime/:showtimeId/seats", validate.GetById("showtimeId"), GetShowtimeSeats)

	return app
}

type testFixtures struct {
	customer  model.Customer
	other     model.Customer
	admin     model.Customer
	seats     []model.Seat
	showtime  model.Showtime
	showtime2 model.Showtime
}

func seedFixtures(t *testing.T, db *gorm.DB) testFixtures {
	t.Helper()

	customer := model.Customer{Email: "khach@test.local", Password: "x", UserName: "khach", Role: constants.ROLE_CUSTOMER, IsActive: true}
	require.NoError(t, db.Create(&customer).Error)
	other := model.Customer{Email: "khach2@test.local", Password: "x", UserName: "khach2", Role: constants.ROLE_CUSTOMER, IsActive: true}
	require.NoError(t, db.Create(&other).Error)
	admin := model.Customer{Email: "admin@test.local", Password: "x", UserName: "admin", Role: constants.ROLE_ADMIN, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	seatType := model.SeatType{Type: "NORMAL", PriceModifier: 1}
	require.NoError(t, db.Create(&seatType).Error)

	theater := model.Theater{Name: "Rạp test"}
	require.NoError(t, db.Create(&theater).Error)
	hall := model.Hall{Name: "P1", TheaterId: theater.ID, Rows: "A", Columns: 5}
	require.NoError(t, db.Create(&hall).Error)

	var seats []model.Seat
	for n := 1; n <= 5; n++ {
		seat := model.Seat{Row: "A", Number: n, Status: constants.SEAT_ACTIVE, HallId: hall.ID, SeatTypeId: seatType.ID}
		require.NoError(t, db.Create(&seat).Error)
		seats = append(seats, seat)
	}

	movie := model.Movie{Title: "Phim test", Slug: "phim-test", Duration: 120}
	require.NoError(t, db.Create(&movie).Error)

	// cắt về giây để thời gian giữ nguyên khi đi qua RFC3339
	start := time.Now().Add(3 * time.Hour).Truncate(time.Second)
	showtime := model.Showtime{
		MovieId: movie.ID, HallId: hall.ID,
		ShowDate:  utils.CustomDate{Time: start},
		StartTime: start, EndTime: start.Add(2 * time.Hour),
		Price: 90000, Status: constants.SHOWTIME_SCHEDULED,
	}
	require.NoError(t, db.Create(&showtime).Error)

	start2 := start.Add(3 * time.Hour)
	showtime2 := model.Showtime{
		MovieId: movie.ID, HallId: hall.ID,
		ShowDate:  utils.CustomDate{Time: start2},
		StartTime: start2, EndTime: start2.Add(2 * time.Hour),
		Price: 90000, Status: constants.SHOWTIME_SCHEDULED,
	}
	require.NoError(t, db.Create(&showtime2).Error)

	return testFixtures{customer: customer, other: other, admin: admin, seats: seats, showtime: showtime, showtime2: showtime2}
}

func tokenFor(t *testing.T, customer model.Customer) string {
	t.Helper()
	token, err := helper.GenerateAccessToken(model.TokenClaim{
		CustomerId: customer.ID,
		Email:      customer.Email,
		Role:       customer.Role,
	})
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, url string, body any, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func createBookingRequest(fx testFixtures, seatIds []uint, method string) map[string]any {
	return map[string]any{
		"showtimeId":    fx.showtime.ID,
		"seatIds":       seatIds,
		"totalPrice":    90000 * float64(len(seatIds)),
		"paymentMethod": method,
	}
}

func TestCreateBooking(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID, fx.seats[1].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := decodeData(t, resp)
	code, _ := data["referenceCode"].(string)
	assert.Regexp(t, `^BK-[A-Z0-9]{8}$`, code)

	var booking model.Booking
	require.NoError(t, db.Where("reference_code = ?", code).First(&booking).Error)
	assert.Equal(t, fx.customer.ID, booking.CustomerId)
	assert.Equal(t, constants.BOOKING_CONFIRMED, booking.BookingStatus)
	assert.Equal(t, constants.PAYMENT_PENDING, booking.PaymentStatus)
	assert.Equal(t, 2, booking.SeatCount)

	// hạn thanh toán = giờ chiếu - 15 phút
	require.NotNil(t, booking.ExpiredAt)
	assert.WithinDuration(t, fx.showtime.StartTime.Add(-15*time.Minute), *booking.ExpiredAt, time.Second)

	// hai dòng giữ ghế, ghế chuyển reserved
	var holds int64
	require.NoError(t, db.Model(&model.BookingSeat{}).
		Where("booking_id = ? AND released_at IS NULL", booking.ID).Count(&holds).Error)
	assert.EqualValues(t, 2, holds)

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.seats[0].ID).Error)
	assert.Equal(t, constants.SEAT_RESERVED, seat.Status)
}

func TestCreateBookingCashHasNoExpiry(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CASH)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.Where("customer_id = ?", fx.customer.ID).First(&booking).Error)
	assert.Nil(t, booking.ExpiredAt)
}

func TestCreateBookingSeatConflict(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	first := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", first, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// ghế A1 đã bị giữ, A3 còn trống: cả request bị từ chối, A3 không bị giữ oan
	second := createBookingRequest(fx, []uint{fx.seats[0].ID, fx.seats[2].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err = app.Test(jsonRequest(t, "POST", "/booking", second, tokenFor(t, fx.other)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.seats[2].ID).Error)
	assert.Equal(t, constants.SEAT_ACTIVE, seat.Status)
}

func TestCreateBookingSeatNotFound(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID, 9999}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateBookingEmptySeatsRejected(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{}, constants.PAYMENT_METHOD_CARD)
	body["totalPrice"] = 90000
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// validate chặn từ middleware, không có bản ghi nào được tạo
	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListBookingsRejectsUnknownSortColumn(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()
	admin := tokenFor(t, fx.admin)

	resp, err := app.Test(jsonRequest(t, "GET", "/booking?sortBy=not_a_column", nil, admin), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "GET", "/booking?sortDir=sideways", nil, admin), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "GET", "/booking?sortBy=total_price&sortDir=asc", nil, admin), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateBookingShowtimeStarted(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	require.NoError(t, db.Model(&fx.showtime).
		Updates(map[string]any{"start_time": time.Now().Add(-time.Hour)}).Error)

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateBookingForOtherCustomerRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	body["customerId"] = fx.other.ID

	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// admin đặt hộ được
	resp, err = app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)
	assert.Equal(t, fx.other.ID, booking.CustomerId)
}

func TestCancelThenRebookSameSeat(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)

	resp, err = app.Test(jsonRequest(t, "POST",
		fmt.Sprintf("/booking/%d/cancel", booking.ID),
		map[string]any{"reason": "bận việc"}, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.seats[0].ID).Error)
	assert.Equal(t, constants.SEAT_ACTIVE, seat.Status)

	// ghế được giải phóng, khách khác đặt lại được ngay
	resp, err = app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.other)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCancelBookingNotOwner(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)

	resp, err = app.Test(jsonRequest(t, "POST",
		fmt.Sprintf("/booking/%d/cancel", booking.ID), nil, tokenFor(t, fx.other)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// hủy hai lần bị từ chối
	resp, err = app.Test(jsonRequest(t, "POST",
		fmt.Sprintf("/booking/%d/cancel", booking.ID), nil, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "POST",
		fmt.Sprintf("/booking/%d/cancel", booking.ID), nil, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateBookingSeatDiff(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID, fx.seats[1].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)

	// [A1, A2] → [A2, A3]: nhả A1, giữ thêm A3, A2 giữ nguyên dòng cũ
	update := map[string]any{"seatIds": []uint{fx.seats[1].ID, fx.seats[2].ID}}
	resp, err = app.Test(jsonRequest(t, "PUT",
		fmt.Sprintf("/booking/%d", booking.ID), update, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	heldIds, err := helper.HeldSeatIds(db, booking.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{fx.seats[1].ID, fx.seats[2].ID}, heldIds)

	var a1, a2, a3 model.Seat
	require.NoError(t, db.First(&a1, fx.seats[0].ID).Error)
	require.NoError(t, db.First(&a2, fx.seats[1].ID).Error)
	require.NoError(t, db.First(&a3, fx.seats[2].ID).Error)
	assert.Equal(t, constants.SEAT_ACTIVE, a1.Status)
	assert.Equal(t, constants.SEAT_RESERVED, a2.Status)
	assert.Equal(t, constants.SEAT_RESERVED, a3.Status)

	var got model.Booking
	require.NoError(t, db.First(&got, booking.ID).Error)
	assert.Equal(t, 2, got.SeatCount)
}

func TestUpdateBookingSeatTakenByOther(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	mine := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", mine, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	theirs := createBookingRequest(fx, []uint{fx.seats[1].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err = app.Test(jsonRequest(t, "POST", "/booking", theirs, tokenFor(t, fx.other)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.Where("customer_id = ?", fx.customer.ID).First(&booking).Error)

	update := map[string]any{"seatIds": []uint{fx.seats[1].ID}}
	resp, err = app.Test(jsonRequest(t, "PUT",
		fmt.Sprintf("/booking/%d", booking.ID), update, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// đơn giữ nguyên ghế cũ
	heldIds, err := helper.HeldSeatIds(db, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{fx.seats[0].ID}, heldIds)
}

func TestUpdateBookingChangeShowtime(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)

	update := map[string]any{"showtimeId": fx.showtime2.ID}
	resp, err = app.Test(jsonRequest(t, "PUT",
		fmt.Sprintf("/booking/%d", booking.ID), update, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got model.Booking
	require.NoError(t, db.First(&got, booking.ID).Error)
	assert.Equal(t, fx.showtime2.ID, got.ShowtimeId)

	// hạn thanh toán tính lại theo suất mới
	require.NotNil(t, got.ExpiredAt)
	assert.WithinDuration(t, fx.showtime2.StartTime.Add(-15*time.Minute), *got.ExpiredAt, time.Second)

	// dòng giữ cũ đã nhả, dòng mới trỏ suất mới
	var holds []model.BookingSeat
	require.NoError(t, db.Where("booking_id = ? AND released_at IS NULL", booking.ID).Find(&holds).Error)
	require.Len(t, holds, 1)
	assert.Equal(t, fx.showtime2.ID, holds[0].ShowtimeId)

	// ghế của suất cũ đặt lại được
	resp, err = app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.other)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestGetBookingByReferenceCodeLazyExpiry(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)

	// ép đơn quá hạn rồi tra cứu: phải bị hủy ngay trong lượt đọc
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&booking).Update("expired_at", past).Error)

	resp, err = app.Test(jsonRequest(t, "GET", "/booking/code/"+booking.ReferenceCode, nil, ""), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	assert.Equal(t, constants.BOOKING_CANCELLED, data["bookingStatus"])

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.seats[0].ID).Error)
	assert.Equal(t, constants.SEAT_ACTIVE, seat.Status)
}

func TestExpireBookingsSweep(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&booking).Update("expired_at", past).Error)

	ExpireBookings()

	var got model.Booking
	require.NoError(t, db.First(&got, booking.ID).Error)
	assert.Equal(t, constants.BOOKING_CANCELLED, got.BookingStatus)
	assert.NotNil(t, got.DeletedAt)
	assert.Equal(t, utils.Ptr(CancelReasonExpired), got.CancelReason)

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.seats[0].ID).Error)
	assert.Equal(t, constants.SEAT_ACTIVE, seat.Status)
}

func TestRestoreBooking(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)

	resp, err = app.Test(jsonRequest(t, "POST",
		fmt.Sprintf("/booking/%d/cancel-admin", booking.ID), nil, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "PATCH",
		fmt.Sprintf("/booking/%d/restore", booking.ID), nil, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got model.Booking
	require.NoError(t, db.First(&got, booking.ID).Error)
	assert.Nil(t, got.DeletedAt)
	assert.Equal(t, constants.BOOKING_CONFIRMED, got.BookingStatus)

	heldIds, err := helper.HeldSeatIds(db, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{fx.seats[0].ID}, heldIds)

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.seats[0].ID).Error)
	assert.Equal(t, constants.SEAT_RESERVED, seat.Status)
}

func TestRestoreBookingSeatTaken(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var booking model.Booking
	require.NoError(t, db.First(&booking).Error)

	resp, err = app.Test(jsonRequest(t, "POST",
		fmt.Sprintf("/booking/%d/cancel-admin", booking.ID), nil, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// khách khác lấy mất ghế trong lúc đơn bị hủy
	resp, err = app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.other)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "PATCH",
		fmt.Sprintf("/booking/%d/restore", booking.ID), nil, tokenFor(t, fx.admin)), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var got model.Booking
	require.NoError(t, db.First(&got, booking.ID).Error)
	assert.NotNil(t, got.DeletedAt)
}

func TestGetShowtimeSeatsReflectsHolds(t *testing.T) {
	db := setupTestDB(t)
	fx := seedFixtures(t, db)
	app := newTestApp()

	body := createBookingRequest(fx, []uint{fx.seats[0].ID}, constants.PAYMENT_METHOD_CARD)
	resp, err := app.Test(jsonRequest(t, "POST", "/booking", body, tokenFor(t, fx.customer)), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, "GET",
		fmt.Sprintf("/showtime/%d/seats", fx.showtime.ID), nil, ""), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data map[string][]SeatUI `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	rowA := envelope.Data["A"]
	require.Len(t, rowA, 5)
	assert.Equal(t, "A1", rowA[0].Label)
	assert.Equal(t, constants.SEAT_RESERVED, rowA[0].Status)
	assert.Equal(t, constants.SEAT_ACTIVE, rowA[1].Status)
}
