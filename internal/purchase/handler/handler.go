package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/apperror"
	"github.com/hearthstock/shopping-service/internal/auth"
	"github.com/hearthstock/shopping-service/internal/purchase"
	"github.com/hearthstock/shopping-service/internal/purchase/dto"
)

type PurchaseHandler struct {
	uc     purchase.UseCase
	logger *zap.Logger
}

func NewPurchaseHandler(uc purchase.UseCase, log *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/purchases", h.ListTransactions)
	rg.GET("/purchases/search", h.SearchTransactions)
	rg.GET("/purchases/:id", h.GetTransaction)
}

func (h *PurchaseHandler) ListTransactions(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	filters := &dto.PurchaseFilters{
		HouseholdID: householdID,
		StoreLabel:  c.Query("store_label"),
		Page:        queryInt(c, "page", 1),
		PageSize:    queryInt(c, "page_size", 20),
	}
	if from, ok := parseTimeQuery(c, "from"); ok {
		filters.From = &from
	}
	if to, ok := parseTimeQuery(c, "to"); ok {
		filters.To = &to
	}

	transactions, count, err := h.uc.ListTransactions(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "failed to list purchases")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "total": count})
}

func (h *PurchaseHandler) SearchTransactions(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	query := c.Query("q")
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	transactions, count, err := h.uc.SearchTransactions(c.Request.Context(), householdID, query, page, pageSize)
	if err != nil {
		h.respondError(c, err, "failed to search purchases")
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "total": count})
}

func (h *PurchaseHandler) GetTransaction(c *gin.Context) {
	tx, err := h.uc.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get purchase")
		return
	}
	if tx == nil || tx.HouseholdID != auth.GetHouseholdID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if val, err := strconv.Atoi(c.Query(key)); err == nil && val > 0 {
		return val
	}
	return fallback
}

func parseTimeQuery(c *gin.Context, key string) (time.Time, bool) {
	val, ok := c.GetQuery(key)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (h *PurchaseHandler) respondError(c *gin.Context, err error, msg string) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
