package helper

import (
	"cinema_booking/database"
	"cinema_booking/model"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var movieScheduler gocron.Scheduler

// AutoUpdateMovieStatus chuyển phim COMING_SOON sang NOW_SHOWING khi đến ngày khởi chiếu
func AutoUpdateMovieStatus() {
	db := database.DB
	today := time.Now().Truncate(24 * time.Hour)

	result := db.Model(&model.Movie{}).
		Where("status = ? AND date_release <= ? AND deleted_at IS NULL", "COMING_SOON", today.Format("2006-01-02")).
		Update("status", "NOW_SHOWING")

	if result.Error != nil {
		log.Printf("Lỗi cập nhật trạng thái phim: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Đã chuyển %d phim sang NOW_SHOWING", result.RowsAffected)
	}
}

func StartMovieStatusScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	movieScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 5, 0),
			),
		),
		gocron.NewTask(AutoUpdateMovieStatus),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Movie status scheduler started (00:05)")
}

func StopMovieStatusScheduler() {
	if movieScheduler != nil {
		_ = movieScheduler.Shutdown()
	}
}
