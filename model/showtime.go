package model

import (
	"time"

	"cinema_booking/utils"
)

type Showtime struct {
	DTO
	MovieId   uint             `json:"movieId"`
	HallId    uint             `json:"hallId"`
	Movie     Movie            `gorm:"foreignKey:MovieId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"movie,omitempty"`
	Hall      Hall             `gorm:"foreignKey:HallId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"hall,omitempty"`
	ShowDate  utils.CustomDate `json:"showDate"`
	StartTime time.Time        `gorm:"not null" validate:"required" json:"startTime"`
	EndTime   time.Time        `gorm:"not null" validate:"required" json:"endTime"`
	Price     float64          `json:"price"`
	Status    string           `gorm:"default:'Scheduled'" json:"status"` // Scheduled, Completed, Cancelled
}

type CreateShowtimeInput struct {
	MovieId   uint      `validate:"required,gt=0" json:"movieId"`
	HallId    uint      `validate:"required,gt=0" json:"hallId"`
	StartTime time.Time `validate:"required" json:"startTime"`
	EndTime   time.Time `validate:"required,gtfield=StartTime" json:"endTime"`
	Price     float64   `validate:"required,gt=0" json:"price"`
}

type UpdateShowtimeInput struct {
	MovieId   *uint      `json:"movieId"`
	HallId    *uint      `json:"hallId"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Price     *float64   `json:"price"`
	Status    *string    `json:"status" validate:"omitempty,oneof=Scheduled Completed Cancelled"`
}

type FilterShowtimeInput struct {
	Pagination
	MovieId   uint   `query:"movieId" json:"movieId" validate:"omitempty,gt=0"`
	HallId    uint   `query:"hallId" json:"hallId" validate:"omitempty,gt=0"`
	StartDate string `query:"startDate" json:"startDate"` // YYYY-MM-DD
	EndDate   string `query:"endDate" json:"endDate"`
	Status    string `query:"status" json:"status" validate:"omitempty,oneof=Scheduled Completed Cancelled"`
}
