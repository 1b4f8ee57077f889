package helper

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetCustomerByEmail(e string) (*model.Customer, error) {
	db := database.DB
	var customer model.Customer
	if err := db.Where("email = ? AND deleted_at IS NULL", e).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["customerId"] = tokenClaim.CustomerId
	claims["email"] = tokenClaim.Email
	claims["role"] = tokenClaim.Role
	claims["exp"] = time.Now().Add(time.Minute * 60).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["customerId"] = tokenClaim.CustomerId
	claims["email"] = tokenClaim.Email
	claims["exp"] = time.Now().Add(time.Hour * 24 * 7).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret, nil
	})

	return token, err
}

// GetInfoCustomerFromToken đọc claim từ Locals("user"); trả về claim rỗng nếu là guest
func GetInfoCustomerFromToken(c *fiber.Ctx) (model.TokenClaim, *model.Customer) {
	guestClaim := model.TokenClaim{}

	u := c.Locals("user")
	if u == nil {
		return guestClaim, nil
	}

	userToken, ok := u.(*jwt.Token)
	if !ok || userToken == nil {
		return guestClaim, nil
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return guestClaim, nil
	}

	customerIdFloat, _ := claims["customerId"].(float64)
	if customerIdFloat == 0 {
		return guestClaim, nil
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	tokenClaim := model.TokenClaim{
		CustomerId: uint(customerIdFloat),
		Email:      email,
		Role:       role,
	}

	var customer model.Customer
	if err := database.DB.Where("id = ? AND deleted_at IS NULL AND is_active = ?", tokenClaim.CustomerId, true).
		First(&customer).Error; err != nil {
		log.Printf("Customer not found (id=%d): %v", tokenClaim.CustomerId, err)
		return guestClaim, nil
	}

	return tokenClaim, &customer
}

// IsAdmin kiểm tra quyền quản trị của request hiện tại
func IsAdmin(c *fiber.Ctx) bool {
	_, customer := GetInfoCustomerFromToken(c)
	return customer != nil && customer.Role == constants.ROLE_ADMIN
}
