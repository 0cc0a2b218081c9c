package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/apperror"
	"github.com/hearthstock/shopping-service/internal/auth"
	"github.com/hearthstock/shopping-service/internal/shoppinglist"
	"github.com/hearthstock/shopping-service/internal/shoppinglist/dto"
)

type ListHandler struct {
	uc     shoppinglist.UseCase
	logger *zap.Logger
}

func NewListHandler(uc shoppinglist.UseCase, log *zap.Logger) *ListHandler {
	return &ListHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ListHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/lists", h.CreateList)
	rg.GET("/lists", h.ListLists)
	rg.GET("/lists/:id", h.GetList)
	rg.PATCH("/lists/:id", h.UpdateList)
	rg.POST("/lists/:id/items", h.AddItem)
	rg.GET("/lists/:id/items", h.ListItems)
	rg.PATCH("/items/:id", h.UpdateItem)
	rg.POST("/items/:id/check", h.CheckItem)
	rg.DELETE("/items/:id", h.RemoveItem)
}

type createListRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ListHandler) CreateList(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.uc.CreateList(c.Request.Context(), &dto.CreateListInput{
		HouseholdID: householdID,
		Name:        req.Name,
	})
	if err != nil {
		h.respondError(c, err, "failed to create list")
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (h *ListHandler) ListLists(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	filters := &dto.ListFilters{HouseholdID: householdID}
	if active, ok := c.GetQuery("active"); ok {
		isActive := active == "true"
		filters.IsActive = &isActive
	}

	lists, count, err := h.uc.ListLists(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err, "failed to list shopping lists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists, "total": count})
}

func (h *ListHandler) GetList(c *gin.Context) {
	list, err := h.uc.GetList(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get list")
		return
	}
	if list == nil || list.HouseholdID != auth.GetHouseholdID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateListRequest struct {
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func (h *ListHandler) UpdateList(c *gin.Context) {
	var req updateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.uc.UpdateList(c.Request.Context(), &dto.UpdateListInput{
		ID:       c.Param("id"),
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.respondError(c, err, "failed to update list")
		return
	}
	c.JSON(http.StatusOK, list)
}

type addItemRequest struct {
	ProductID   string  `json:"product_id" binding:"required"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Unit        string  `json:"unit" binding:"required,unit"`
	Priority    int     `json:"priority"`
	Reason      string  `json:"reason"`
}

func (h *ListHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.uc.AddItem(c.Request.Context(), &dto.AddItemInput{
		ListID:      c.Param("id"),
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Priority:    req.Priority,
		Reason:      req.Reason,
	})
	if err != nil {
		h.respondError(c, err, "failed to add list item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ListHandler) ListItems(c *gin.Context) {
	var checked *bool
	if val, ok := c.GetQuery("checked"); ok {
		b := val == "true"
		checked = &b
	}

	items, err := h.uc.ListItems(c.Request.Context(), c.Param("id"), checked)
	if err != nil {
		h.respondError(c, err, "failed to list items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type updateItemRequest struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Priority int     `json:"priority"`
	Reason   string  `json:"reason"`
}

func (h *ListHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.uc.UpdateItem(c.Request.Context(), &dto.UpdateItemInput{
		ID:       c.Param("id"),
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Priority: req.Priority,
		Reason:   req.Reason,
	})
	if err != nil {
		h.respondError(c, err, "failed to update item")
		return
	}
	c.JSON(http.StatusOK, item)
}

type checkItemRequest struct {
	Checked bool `json:"checked"`
}

func (h *ListHandler) CheckItem(c *gin.Context) {
	var req checkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.uc.CheckItem(c.Request.Context(), c.Param("id"), req.Checked)
	if err != nil {
		h.respondError(c, err, "failed to check item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ListHandler) RemoveItem(c *gin.Context) {
	if err := h.uc.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to remove item")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListHandler) respondError(c *gin.Context, err error, msg string) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
