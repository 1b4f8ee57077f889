package router

import (
	"cinema_booking/handler"
	"cinema_booking/middleware"
	"cinema_booking/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/register", validate.RegisterCustomer(), handler.RegisterCustomer)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", middleware.Protected(), handler.GetMe)

	movie := v1.Group("/movie", logger.New())
	movie.Get("/", handler.GetMovies)
	movie.Get("/:slug", handler.GetMovieBySlug)
	movie.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateMovie(), handler.CreateMovie)
	movie.Delete("/", middleware.Protected(), middleware.AdminOnly(), validate.Delete(), handler.DeleteMovies)

	theater := v1.Group("/theater", logger.New())
	theater.Get("/", handler.GetTheaters)
	theater.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateTheater(), handler.CreateTheater)

	hall := v1.Group("/hall", logger.New())
	hall.Get("/:hallId", validate.GetById("hallId"), handler.GetHallById)
	hall.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateHall(), handler.CreateHall)

	seat := v1.Group("/seat", logger.New())
	seat.Patch("/:seatId/status", middleware.Protected(), middleware.AdminOnly(), validate.GetById("seatId"), handler.UpdateSeatStatus)

	showtime := v1.Group("/showtime", logger.New())
	showtime.Get("/", handler.GetShowtimes)
	showtime.Get("/:showtimeId", validate.GetById("showtimeId"), handler.GetShowtimeById)
	showtime.Get("/:showtimeId/seats", validate.GetById("showtimeId"), handler.GetShowtimeSeats)
	showtime.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.CreateShowtime(), handler.CreateShowtime)
	showtime.Put("/:showtimeId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("showtimeId"), validate.EditShowtime(), handler.EditShowtime)
	showtime.Delete("/:showtimeId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("showtimeId"), handler.DeleteShowtime)
	showtime.Patch("/:showtimeId/restore", middleware.Protected(), middleware.AdminOnly(), validate.GetById("showtimeId"), handler.RestoreShowtime)

	// websocket sơ đồ ghế realtime
	v1.Get("/ws/showtime/:id/seats", websocket.New(handler.SeatWebsocket))

	booking := v1.Group("/booking", logger.New())
	booking.Get("/", middleware.Protected(), middleware.AdminOnly(), validate.FilterBookings(), handler.ListBookings)
	booking.Get("/me", middleware.Protected(), handler.GetMyBookings)
	booking.Get("/code/:referenceCode", middleware.OptionalJWT(), handler.GetBookingByReferenceCode)
	booking.Get("/:bookingId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("bookingId"), handler.GetBookingById)
	booking.Get("/:bookingId/qr", middleware.Protected(), validate.GetById("bookingId"), handler.GetBookingQRCode)
	booking.Post("/", middleware.Protected(), validate.CreateBooking(), handler.CreateBooking)
	booking.Put("/:bookingId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("bookingId"), validate.UpdateBooking(), handler.UpdateBooking)
	booking.Post("/:bookingId/cancel", middleware.Protected(), validate.GetById("bookingId"), validate.CancelBooking(), handler.CancelBookingByOwner)
	booking.Post("/:bookingId/cancel-admin", middleware.Protected(), middleware.AdminOnly(), validate.GetById("bookingId"), validate.CancelBooking(), handler.CancelBookingAdmin)
	booking.Patch("/:bookingId/restore", middleware.Protected(), middleware.AdminOnly(), validate.GetById("bookingId"), handler.RestoreBooking)
	booking.Delete("/:bookingId/force", middleware.Protected(), middleware.AdminOnly(), validate.GetById("bookingId"), handler.ForceDeleteBooking)
}
