package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nutriapp/internal/models"
	"github.com/terraincognita07/nutriapp/internal/services"
)

const imageFormField = "image"

type imageUpload struct {
	data        []byte
	contentType string
}

func (handler *Handler) AnalyseMeal(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	upload, status, message := handler.readImageUpload(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	now := time.Now()
	allowed := handler.analysisQuota.allow(userID, now)
	c.Set("X-RateLimit-Remaining", strconv.Itoa(handler.analysisQuota.remaining(userID, now)))
	if !allowed {
		return apiError(c, fiber.StatusTooManyRequests, "too many analyses, try again later")
	}

	result, err := handler.analysis.Analyze(c.UserContext(), userID, upload.data, upload.contentType, handler.requestLocation(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

func (handler *Handler) SaveAnalysis(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	upload, status, message := handler.readImageUpload(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	analysis := models.MealAnalysis{}
	if err := json.Unmarshal([]byte(c.FormValue("analysis")), &analysis); err != nil {
		return apiError(c, fiber.StatusBadRequest, "analysis must be valid json")
	}

	saved, err := handler.meals.SaveAnalysis(c.UserContext(), userID, services.SaveMealInput{
		Image:          upload.data,
		ContentType:    upload.contentType,
		Analysis:       analysis,
		Recommendation: c.FormValue("recommendation"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// readImageUpload returns a non-zero status when the request carries no
// usable image.
func (handler *Handler) readImageUpload(c *fiber.Ctx) (imageUpload, int, string) {
	header, err := c.FormFile(imageFormField)
	if err != nil {
		return imageUpload{}, fiber.StatusBadRequest, "image file is required"
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get(fiber.HeaderContentType)))
	if !strings.HasPrefix(contentType, "image/") {
		return imageUpload{}, fiber.StatusBadRequest, "file must be an image file"
	}
	if header.Size > int64(handler.maxImageBytes) {
		return imageUpload{}, fiber.StatusRequestEntityTooLarge, fmt.Sprintf("image must be at most %d MB", handler.maxImageBytes>>20)
	}

	data, err := readMultipartFile(header)
	if err != nil {
		return imageUpload{}, fiber.StatusBadRequest, "could not read image file"
	}
	if len(data) == 0 {
		return imageUpload{}, fiber.StatusBadRequest, "image file is empty"
	}
	return imageUpload{data: data, contentType: contentType}, 0, ""
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
