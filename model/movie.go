package model

import "cinema_booking/utils"

type Movie struct {
	DTO
	Title       string           `gorm:"not null" validate:"required" json:"title"`
	Slug        string           `gorm:"size:255;uniqueIndex" json:"slug"`
	Duration    int              `gorm:"not null" validate:"required,gt=0" json:"duration"` // phút
	Genre       string           `json:"genre"`
	Description string           `json:"description"`
	DateRelease utils.CustomDate `json:"dateRelease"`
	Status      string           `gorm:"default:'COMING_SOON'" json:"status"` // COMING_SOON, NOW_SHOWING, ENDED
}

type CreateMovieInput struct {
	Title       string           `validate:"required" json:"title"`
	Duration    int              `validate:"required,gt=0" json:"duration"`
	Genre       string           `json:"genre"`
	Description string           `json:"description"`
	DateRelease utils.CustomDate `json:"dateRelease"`
}

type FilterMovieInput struct {
	Pagination
	SearchKey string `query:"searchKey" json:"searchKey"`
	Status    string `query:"status" json:"status" validate:"omitempty,oneof=COMING_SOON NOW_SHOWING ENDED"`
}
