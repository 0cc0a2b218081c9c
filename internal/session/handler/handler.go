package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/apperror"
	"github.com/hearthstock/shopping-service/internal/auth"
	"github.com/hearthstock/shopping-service/internal/session"
	"github.com/hearthstock/shopping-service/internal/session/dto"
)

type SessionHandler struct {
	uc              session.UseCase
	defaultLocation string
	logger          *zap.Logger
}

func NewSessionHandler(uc session.UseCase, defaultLocation string, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		uc:              uc,
		defaultLocation: defaultLocation,
		logger:          log,
	}
}

func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.StartSession)
	rg.GET("/sessions/active", h.GetActiveSession)
	rg.GET("/sessions/:id", h.GetSession)
	rg.POST("/sessions/:id/abandon", h.AbandonSession)
	rg.POST("/sessions/:id/cart", h.AddToCart)
	rg.PATCH("/sessions/:id/cart/:productId", h.AdjustQuantity)
	rg.DELETE("/sessions/:id/cart/:productId", h.RemoveFromCart)
	rg.GET("/sessions/:id/reconciliation", h.Reconcile)
	rg.POST("/sessions/:id/complete", h.Complete)
}

type startSessionRequest struct {
	StoreLabel *string `json:"store_label"`
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	// The body is optional; a bare POST starts an unlabeled session.
	var req startSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	s, err := h.uc.StartSession(c.Request.Context(), &dto.StartSessionInput{
		HouseholdID: householdID,
		StoreLabel:  req.StoreLabel,
	})
	if err != nil {
		h.respondError(c, err, "failed to start session")
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *SessionHandler) GetActiveSession(c *gin.Context) {
	householdID := auth.GetHouseholdID(c)
	if householdID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing household context"})
		return
	}

	s, err := h.uc.GetActiveSession(c.Request.Context(), householdID)
	if err != nil {
		h.respondError(c, err, "failed to get active session")
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.uc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to get session")
		return
	}
	if s == nil || s.HouseholdID != auth.GetHouseholdID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SessionHandler) AbandonSession(c *gin.Context) {
	if err := h.uc.AbandonSession(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to abandon session")
		return
	}
	c.Status(http.StatusNoContent)
}

type addToCartRequest struct {
	ListID      *string  `json:"list_id"`
	ProductID   string   `json:"product_id" binding:"required"`
	ProductName string   `json:"product_name"`
	Quantity    float64  `json:"quantity" binding:"required,gt=0"`
	Unit        string   `json:"unit" binding:"required,unit"`
	UnitPrice   *float64 `json:"unit_price"`
	Category    string   `json:"category"`
}

func (h *SessionHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matchType, err := h.uc.AddToCart(c.Request.Context(), &dto.AddToCartInput{
		SessionID:   c.Param("id"),
		ListID:      req.ListID,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Category:    req.Category,
	})
	if err != nil {
		h.respondError(c, err, "failed to add to cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"match_type": matchType})
}

type adjustQuantityRequest struct {
	Delta float64 `json:"delta" binding:"required"`
}

func (h *SessionHandler) AdjustQuantity(c *gin.Context) {
	var req adjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.uc.AdjustQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Delta)
	if err != nil {
		h.respondError(c, err, "failed to adjust cart quantity")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) RemoveFromCart(c *gin.Context) {
	err := h.uc.RemoveFromCart(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		h.respondError(c, err, "failed to remove from cart")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Reconcile(c *gin.Context) {
	var listID *string
	if val, ok := c.GetQuery("list_id"); ok && val != "" {
		listID = &val
	}

	rec, err := h.uc.Reconcile(c.Request.Context(), c.Param("id"), listID)
	if err != nil {
		h.respondError(c, err, "failed to reconcile session")
		return
	}
	c.JSON(http.StatusOK, rec)
}

type completeRequest struct {
	ListID   *string `json:"list_id"`
	Location string  `json:"location"`
}

func (h *SessionHandler) Complete(c *gin.Context) {
	var req completeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	location := req.Location
	if location == "" {
		location = h.defaultLocation
	}

	tx, err := h.uc.Complete(c.Request.Context(), &dto.CompleteInput{
		SessionID: c.Param("id"),
		ListID:    req.ListID,
		Location:  location,
	})
	if err != nil {
		h.respondError(c, err, "failed to complete session")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *SessionHandler) respondError(c *gin.Context, err error, msg string) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
