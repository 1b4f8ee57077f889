package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/gomail.v2"
)

// BookingEmailData dữ liệu cho email đặt vé / hủy vé
type BookingEmailData struct {
	ReferenceCode string
	MovieTitle    string
	Showtime      string
	Seats         []string
	TotalPrice    float64
	PaymentMethod string
	CancelReason  string
}

func sendMail(m *gomail.Message) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST chưa cấu hình, bỏ qua gửi email")
		return
	}
	d := gomail.NewDialer(host, 587, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Lỗi gửi email: %v", err)
	}
}

// SendBookingConfirmationEmail gửi email xác nhận đặt vé kèm QR (async)
func SendBookingConfirmationEmail(to string, data BookingEmailData) {
	if to == "" {
		return
	}
	go func() {
		m := gomail.NewMessage()
		m.SetHeader("From", os.Getenv("SMTP_FROM"))
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Xác nhận đặt vé - Mã: "+data.ReferenceCode)

		body := fmt.Sprintf(
			"Cảm ơn bạn đã đặt vé!<br>Mã đặt vé: <b>%s</b><br>Phim: %s<br>Suất chiếu: %s<br>Ghế: %s<br>Tổng tiền: %.0f<br>Thanh toán: %s<br><img src=\"cid:qr_booking\"/>",
			data.ReferenceCode, data.MovieTitle, data.Showtime,
			strings.Join(data.Seats, ", "), data.TotalPrice, data.PaymentMethod)
		m.SetBody("text/html", body)

		qrBytes, err := GenerateQRCode(data.ReferenceCode, 400)
		if err != nil {
			log.Printf("Lỗi tạo QR cho đơn %s: %v", data.ReferenceCode, err)
		} else {
			m.Embed("qr_booking.png",
				gomail.SetCopyFunc(func(w io.Writer) error {
					_, err := w.Write(qrBytes)
					return err
				}),
				gomail.SetHeader(map[string][]string{
					"Content-Type":        {"image/png"},
					"Content-ID":          {"<qr_booking>"},
					"Content-Disposition": {"inline"},
				}))
		}

		sendMail(m)
	}()
}

// SendBookingCancellationEmail gửi email xác nhận hủy vé (async)
func SendBookingCancellationEmail(to string, data BookingEmailData) {
	if to == "" {
		return
	}
	go func() {
		m := gomail.NewMessage()
		m.SetHeader("From", os.Getenv("SMTP_FROM"))
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Hủy vé thành công - Mã: "+data.ReferenceCode)

		body := fmt.Sprintf(
			"Đơn đặt vé <b>%s</b> đã được hủy.<br>Phim: %s<br>Suất chiếu: %s<br>Ghế: %s<br>Lý do: %s",
			data.ReferenceCode, data.MovieTitle, data.Showtime,
			strings.Join(data.Seats, ", "), data.CancelReason)
		m.SetBody("text/html", body)

		sendMail(m)
	}()
}
