package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

func CreateMovie(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateMovieInput)
	db := database.DB

	slug := helper.GenerateUniqueMovieSlug(db, input.Title)

	movie := model.Movie{
		Title:       input.Title,
		Slug:        slug,
		Duration:    input.Duration,
		Genre:       input.Genre,
		Description: input.Description,
		DateRelease: input.DateRelease,
	}
	if err := db.Create(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, movie)
}

// DeleteMovies xoá mềm nhiều phim theo danh sách ID
func DeleteMovies(c *fiber.Ctx) error {
	input, ok := c.Locals("deleteIds").(model.ArrayId)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	db := database.DB

	result := db.Model(&model.Movie{}).
		Where("id IN ? AND deleted_at IS NULL", input.IDs).
		Update("deleted_at", time.Now())
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_DELETE, result.Error)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"deletedCount": result.RowsAffected,
	})
}

func GetMovies(c *fiber.Ctx) error {
	filterInput := new(model.FilterMovieInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	condition := db.Model(&model.Movie{}).Where("deleted_at IS NULL")

	if filterInput.Status != "" {
		condition = condition.Where("status = ?", filterInput.Status)
	}
	if filterInput.SearchKey != "" {
		condition = condition.Where("title LIKE ?", "%"+filterInput.SearchKey+"%")
	}

	var totalCount int64
	if err := condition.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var movies []model.Movie
	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)
	if err := condition.Order("date_release desc").Find(&movies).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	response := &model.ResponseCustom{
		Rows:       movies,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func GetMovieBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	db := database.DB

	var movie model.Movie
	if err := db.Where("slug = ? AND deleted_at IS NULL", slug).First(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.MOVIE_NOT_FOUND, err)
	}

	// kèm các suất chiếu sắp tới của phim
	var showtimes []model.Showtime
	helper.ActiveShowtimes(db).
		Preload("Hall").
		Where("movie_id = ? AND status = ?", movie.ID, constants.SHOWTIME_SCHEDULED).
		Order("start_time asc").
		Find(&showtimes)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"movie":     movie,
		"showtimes": showtimes,
	})
}
