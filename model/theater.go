package model

type Theater struct {
	DTO
	Name     string `gorm:"not null" validate:"required" json:"name"`
	Address  string `json:"address"`
	Province string `json:"province"`
	Halls    []Hall `gorm:"foreignKey:TheaterId" json:"halls,omitempty"`
}

type CreateTheaterInput struct {
	Name     string `validate:"required" json:"name"`
	Address  string `json:"address"`
	Province string `json:"province"`
}

// Hall là một phòng chiếu thuộc về đúng một rạp
type Hall struct {
	DTO
	Name      string  `gorm:"not null" validate:"required" json:"name"`
	TheaterId uint    `json:"theaterId"`
	Theater   Theater `gorm:"foreignKey:TheaterId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"theater,omitempty"`
	Rows      string  `json:"rows"`    // ví dụ "ABCDEFGH"
	Columns   int     `json:"columns"` // số ghế mỗi hàng
	Status    string  `gorm:"default:'active'" json:"status"`
	Seats     []Seat  `gorm:"foreignKey:HallId" json:"seats,omitempty"`
}

type CreateHallInput struct {
	Name      string `validate:"required" json:"name"`
	TheaterId uint   `validate:"required,gt=0" json:"theaterId"`
	Rows      string `validate:"required" json:"rows"`
	Columns   int    `validate:"required,gt=0" json:"columns"`
	VipRowMin int    `validate:"omitempty,gte=0" json:"vipRowMin"` // chỉ số hàng bắt đầu ghế VIP
	VipRowMax int    `validate:"omitempty,gte=0" json:"vipRowMax"`
}
