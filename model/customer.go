package model

type Customer struct {
	DTO
	Email    string `gorm:"unique;not null" json:"email"`
	Phone    string `json:"phone"`
	Password string `gorm:"not null" json:"-"`
	UserName string `json:"username"`
	Role     string `gorm:"not null;default:'customer'" json:"role"`

	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`

	IsActive bool `gorm:"default:true" json:"isActive"`
}

type RegisterCustomerInput struct {
	UserName string `validate:"required" json:"username"`
	Email    string `validate:"required,email" json:"email"`
	Phone    string `validate:"required" json:"phone"`
	Password string `validate:"required,min=6" json:"password"`
}

type LoginInput struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required" json:"password"`
}
