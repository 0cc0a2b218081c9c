package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/apperror"
	"github.com/hearthstock/shopping-service/internal/auth"
	"github.com/hearthstock/shopping-service/internal/inventory"
	"github.com/hearthstock/shopping-service/internal/inventory/dto"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger *zap.Logger
}

func NewInventoryHandler(uc inventory.UseCase, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/inventory", h.ListItems)
	rg.PUT("/inventory", h.UpsertItem)
	rg.GET("/inventory/low-stock", h.ListLowStock)
	rg.GET("/inventory/:productId/summary", h.StockSummary)
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	filters := &dto.InventoryFilters{
		HouseholdID: householdID,
		ProductID:   c.Query("product_id"),
		Location:    c.Query("location"),
		LowStock:    c.Query("low_stock") == "true",
		Page:        page,
		PageSize:    pageSize,
	}

	items, count, err := h.uc.ListItems(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "failed to list inventory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": count})
}

func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	items, count, err := h.uc.ListLowStock(c.Request.Context(), householdID, page, pageSize)
	if err != nil {
		h.respondError(c, err, "failed to list low stock items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": count})
}

type upsertItemRequest struct {
	ProductID        string  `json:"product_id" binding:"required"`
	Location         string  `json:"location" binding:"required"`
	QuantityOnHand   float64 `json:"quantity_on_hand" binding:"gte=0"`
	Unit             string  `json:"unit" binding:"required,unit"`
	ReorderThreshold float64 `json:"reorder_threshold" binding:"gte=0"`
}

func (h *InventoryHandler) UpsertItem(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	var req upsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.uc.UpsertItem(c.Request.Context(), &dto.UpsertItemInput{
		HouseholdID:      householdID,
		ProductID:        req.ProductID,
		Location:         req.Location,
		QuantityOnHand:   req.QuantityOnHand,
		Unit:             req.Unit,
		ReorderThreshold: req.ReorderThreshold,
	})
	if err != nil {
		h.respondError(c, err, "failed to upsert inventory item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) StockSummary(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	summary, err := h.uc.StockSummary(c.Request.Context(), householdID, c.Param("productId"))
	if err != nil {
		h.respondError(c, err, "failed to compute stock summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *InventoryHandler) respondError(c *gin.Context, err error, msg string) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
