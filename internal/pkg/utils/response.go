package utils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/infrastructure-search/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// ErrorResponse - тело ответа при ошибке
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type Meta struct {
	Total int `json:"total,omitempty"`
}

// SendJSON отправляет значение без обёртки (SearchResult уходит клиенту как есть)
func SendJSON(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

// SendError отправляет AppError с его статусом; всё остальное превращается в 500
// без деталей исходной ошибки
func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		})
	}

	return c.Status(errors.ErrInternal.StatusCode).JSON(ErrorResponse{
		Error: errors.ErrInternal.Message,
		Code:  errors.ErrInternal.Code,
	})
}
