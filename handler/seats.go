package handler

import (
	"cinema_booking/config"
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once

	seatConnections = make(map[uint]map[*websocket.Conn]bool)
	seatMutex       sync.Mutex
)

func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		addr := config.Config("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
	})
	return redisClient
}

type SeatUI struct {
	Id            uint    `json:"id"`
	Label         string  `json:"label"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	PriceModifier float64 `json:"priceModifier"`
}

// BuildSeatMap dựng sơ đồ ghế của một suất chiếu, gom theo hàng.
// Trạng thái chiếm chỗ suy ra từ các dòng giữ ghế còn hiệu lực,
// không lưu riêng trên ghế theo từng suất.
func BuildSeatMap(showtimeId uint) (map[string][]SeatUI, error) {
	db := database.DB

	var showtime model.Showtime
	if err := db.Where("id = ?", showtimeId).First(&showtime).Error; err != nil {
		return nil, err
	}

	var seats []model.Seat
	if err := db.
		Preload("SeatType").
		Where("hall_id = ? AND deleted_at IS NULL", showtime.HallId).
		Order("row, number").
		Find(&seats).Error; err != nil {
		return nil, err
	}

	var holds []model.BookingSeat
	if err := helper.ActiveBookings(db.Model(&model.BookingSeat{}).
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id")).
		Where("booking_seats.showtime_id = ? AND booking_seats.released_at IS NULL", showtimeId).
		Select("booking_seats.seat_id").
		Find(&holds).Error; err != nil {
		return nil, err
	}
	held := make(map[uint]bool, len(holds))
	for _, h := range holds {
		held[h.SeatId] = true
	}

	result := make(map[string][]SeatUI)
	for _, s := range seats {
		status := s.Status
		if status != constants.SEAT_MAINTENANCE && held[s.ID] {
			status = constants.SEAT_RESERVED
		}
		result[s.Row] = append(result[s.Row], SeatUI{
			Id:            s.ID,
			Label:         s.Label(),
			Type:          s.SeatType.Type,
			Status:        status,
			PriceModifier: s.SeatType.PriceModifier,
		})
	}
	return result, nil
}

// PublishSeatMap đẩy sơ đồ ghế mới nhất lên Redis cho các client đang theo dõi.
// Lỗi publish chỉ log, không làm hỏng request gốc.
func PublishSeatMap(showtimeId uint) {
	seatMap, err := BuildSeatMap(showtimeId)
	if err != nil {
		log.Printf("Lỗi dựng sơ đồ ghế suất %d: %v", showtimeId, err)
		return
	}
	payload, err := json.Marshal(seatMap)
	if err != nil {
		log.Printf("Lỗi marshal sơ đồ ghế: %v", err)
		return
	}
	if err := getRedisClient().
		Publish(context.Background(), fmt.Sprintf("showtime:%d", showtimeId), payload).Err(); err != nil {
		log.Printf("Lỗi publish sơ đồ ghế suất %d: %v", showtimeId, err)
	}
}

// GetShowtimeSeats trả sơ đồ ghế của suất chiếu qua HTTP
func GetShowtimeSeats(c *fiber.Ctx) error {
	showtimeId := uint(c.Locals("inputId").(int))
	db := database.DB

	var showtime model.Showtime
	if err := db.Where("id = ? AND deleted_at IS NULL", showtimeId).First(&showtime).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.SHOWTIME_NOT_FOUND, err)
	}

	seatMap, err := BuildSeatMap(showtime.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, seatMap)
}

// SeatWebsocket giữ kết nối realtime theo suất chiếu: gửi snapshot ban đầu,
// sau đó forward các bản cập nhật từ kênh Redis của suất
func SeatWebsocket(c *websocket.Conn) {
	id64, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		c.Close()
		return
	}
	showtimeId := uint(id64)

	seatMutex.Lock()
	if seatConnections[showtimeId] == nil {
		seatConnections[showtimeId] = make(map[*websocket.Conn]bool)
	}
	seatConnections[showtimeId][c] = true
	seatMutex.Unlock()

	defer func() {
		seatMutex.Lock()
		delete(seatConnections[showtimeId], c)
		if len(seatConnections[showtimeId]) == 0 {
			delete(seatConnections, showtimeId)
		}
		seatMutex.Unlock()
		c.Close()
	}()

	// Gửi sơ đồ ghế hiện tại cho client mới
	if seatMap, err := BuildSeatMap(showtimeId); err == nil {
		c.WriteJSON(seatMap)
	}

	pubsub := getRedisClient().Subscribe(
		context.Background(),
		fmt.Sprintf("showtime:%d", showtimeId),
	)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		payload := []byte(msg.Payload)

		seatMutex.Lock()
		for conn := range seatConnections[showtimeId] {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(seatConnections[showtimeId], conn)
			}
		}
		seatMutex.Unlock()
	}
}
