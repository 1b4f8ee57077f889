package database

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("123456cb"), 10)
	hashPassword := string(bytes)
	if err != nil {
		hashPassword = "123456cb"
	}

	admins := []model.Customer{
		{UserName: "Administration", Email: "admin@cinema-booking.local", Password: hashPassword, Role: constants.ROLE_ADMIN, IsActive: true},
	}
	for _, admin := range admins {
		if err := db.Where(model.Customer{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
			log.Println("failed to seed data for account:", admin.Email, "error:", err)
		}
	}

	seatTypes := []model.SeatType{
		{Type: "NORMAL", PriceModifier: 1},
		{Type: "VIP", PriceModifier: 1.2},
		{Type: "COUPLE", PriceModifier: 2},
	}
	for _, st := range seatTypes {
		if err := db.Where(model.SeatType{Type: st.Type}).FirstOrCreate(&st).Error; err != nil {
			log.Println("failed to seed seat type:", st.Type, "error:", err)
		}
	}
}
