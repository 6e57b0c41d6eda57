package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/infrastructure-search/internal/pkg/utils"
	"github.com/infrastructure-search/internal/taxonomy"
	"github.com/infrastructure-search/internal/usecase/dto"
)

// CatalogHandler отдаёт справочник типов объектов и операторов
type CatalogHandler struct {
	taxonomy *taxonomy.Taxonomy
}

// NewCatalogHandler создает новый экземпляр CatalogHandler
func NewCatalogHandler(tax *taxonomy.Taxonomy) *CatalogHandler {
	return &CatalogHandler{taxonomy: tax}
}

// GetTypes godoc
// @Summary Типы объектов
// @Description Список поддерживаемых типов объектов инфраструктуры
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.AssetTypeResponse}
// @Router /api/v1/types [get]
func (h *CatalogHandler) GetTypes(c *fiber.Ctx) error {
	types := h.taxonomy.Types()

	out := make([]dto.AssetTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, dto.AssetTypeResponse{Key: t.Key, Label: t.Label})
	}

	return utils.SendSuccess(c, out, &utils.Meta{Total: len(out)})
}

// GetOperators godoc
// @Summary Операторы
// @Description Известные операторы и их синонимы
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.OperatorResponse}
// @Router /api/v1/operators [get]
func (h *CatalogHandler) GetOperators(c *fiber.Ctx) error {
	operators := h.taxonomy.Operators()

	out := make([]dto.OperatorResponse, 0, len(operators))
	for _, op := range operators {
		aliases := op.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		out = append(out, dto.OperatorResponse{Name: op.Name, Aliases: aliases})
	}

	return utils.SendSuccess(c, out, &utils.Meta{Total: len(out)})
}
