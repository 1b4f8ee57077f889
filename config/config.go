package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config đọc biến môi trường, ưu tiên file .env nếu có
func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Không tìm thấy file .env, dùng biến môi trường hệ thống")
	}
	return os.Getenv(key)
}
