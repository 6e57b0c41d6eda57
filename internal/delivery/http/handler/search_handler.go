package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/pkg/errors"
	"github.com/infrastructure-search/internal/pkg/utils"
	"github.com/infrastructure-search/internal/pkg/validator"
	"github.com/infrastructure-search/internal/usecase"
	"github.com/infrastructure-search/internal/usecase/dto"
)

// SearchHandler - обработчик поисковых запросов
type SearchHandler struct {
	searchUC *usecase.InfrastructureSearchUseCase
	logger   *zap.Logger
}

// NewSearchHandler - создание нового SearchHandler
func NewSearchHandler(searchUC *usecase.InfrastructureSearchUseCase, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchUC: searchUC,
		logger:   logger,
	}
}

// Search godoc
// @Summary Поиск объектов инфраструктуры
// @Description Разбирает запрос на естественном языке или в структурном виде (type:, operator:, region:, country:, near:, radius:), геокодирует область и возвращает объекты со статистикой.
// @Tags Search
// @Produce json
// @Param q query string true "Поисковый запрос (до 500 символов)"
// @Success 200 {object} domain.SearchResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Failure 504 {object} utils.ErrorResponse
// @Router /api/v1/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	return h.search(c, dto.SearchRequest{Query: c.Query("q")})
}

// SearchPost godoc
// @Summary Поиск объектов инфраструктуры (POST)
// @Description То же, что GET /api/v1/search, запрос передаётся в теле.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.SearchRequest true "Поисковый запрос"
// @Success 200 {object} domain.SearchResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Failure 504 {object} utils.ErrorResponse
// @Router /api/v1/search [post]
func (h *SearchHandler) SearchPost(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidQuery.WithMessage("Invalid request body"))
	}
	return h.search(c, req)
}

func (h *SearchHandler) search(c *fiber.Ctx, req dto.SearchRequest) error {
	if err := validator.ValidateQueryRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searchUC.Search(c.Context(), req.Query)
	if err != nil {
		if _, ok := errors.AsAppError(err); !ok {
			h.logger.Error("Search failed", zap.String("query", req.Query), zap.Error(err))
		}
		return utils.SendError(c, err)
	}

	return utils.SendJSON(c, result)
}

// Parse godoc
// @Summary Разбор запроса
// @Description Возвращает результат разбора и проверки запроса без обращения к внешним сервисам.
// @Tags Search
// @Produce json
// @Param q query string true "Поисковый запрос"
// @Success 200 {object} dto.ParseResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/parse [get]
func (h *SearchHandler) Parse(c *fiber.Ctx) error {
	req := dto.SearchRequest{Query: c.Query("q")}
	if err := validator.ValidateQueryRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	parsed, validation := h.searchUC.Parse(req.Query)

	return utils.SendJSON(c, dto.ParseResponse{
		Query:    parsed,
		Valid:    validation.Valid,
		Error:    validation.Error,
		CacheKey: usecase.SearchCacheKey(parsed),
	})
}

// Geocode godoc
// @Summary Геокодирование названия места
// @Description Возвращает лучший кандидат геокодера с учётом кеша и ограничения частоты запросов.
// @Tags Search
// @Produce json
// @Param q query string true "Название места"
// @Param country query string false "Код страны ISO 3166-1 alpha-2"
// @Success 200 {object} domain.GeoResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Failure 504 {object} utils.ErrorResponse
// @Router /api/v1/geocode [get]
func (h *SearchHandler) Geocode(c *fiber.Ctx) error {
	req := dto.GeocodeRequest{
		Query:   c.Query("q"),
		Country: c.Query("country"),
	}
	if err := validator.ValidateQueryRequest(&req); err != nil {
		return utils.SendError(c, err)
	}

	place, err := h.searchUC.Geocode(c.Context(), req.Query, req.Country)
	if err != nil {
		if _, ok := errors.AsAppError(err); !ok {
			h.logger.Error("Geocode failed", zap.String("query", req.Query), zap.Error(err))
		}
		return utils.SendError(c, err)
	}

	return utils.SendJSON(c, place)
}
