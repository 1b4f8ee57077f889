package model

import "fmt"

type SeatType struct {
	DTO
	Type          string  `gorm:"unique;not null" json:"type"` // NORMAL, VIP, COUPLE
	PriceModifier float64 `gorm:"default:1" json:"priceModifier"`
}

// Seat thuộc về đúng một phòng chiếu. Trạng thái chỉ được đổi bởi
// vòng đời đặt vé (active ↔ reserved) hoặc thao tác quản trị (maintenance).
type Seat struct {
	DTO
	Row        string   `gorm:"not null" validate:"required" json:"row"`
	Number     int      `gorm:"not null" validate:"required,min=1" json:"number"`
	Status     string   `gorm:"not null;default:'active'" json:"status"`
	HallId     uint     `json:"hallId"`
	Hall       Hall     `gorm:"foreignKey:HallId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	SeatTypeId uint     `json:"seatTypeId"`
	SeatType   SeatType `gorm:"foreignKey:SeatTypeId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"seatType,omitempty"`
}

// Label là định danh ghế hiển thị cho khách: hàng + số (A7)
func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}
