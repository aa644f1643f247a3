package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/dmitrijs2005/stylish/internal/server/services"
	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Pinger reports whether the store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	users     *services.UserService
	purchases *services.PurchaseService
	store     Pinger
	metrics   *Metrics
	log       logging.Logger
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := bindTrimmedJSON(c, &req); err != nil {
		respondError(c, h.log, bindError(err), msgServerError)
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondError(c, h.log, err, msgServerError)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{Message: "User registered", User: user.Identity()})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := bindTrimmedJSON(c, &req); err != nil {
		respondError(c, h.log, bindError(err), msgServerError)
		return
	}

	res, err := h.users.Login(c.Request.Context(), services.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(c, h.log, err, msgServerError)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Message: "Login successful", Token: res.Token, User: res.User})
}

func (h *handlers) recordPurchase(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		respondError(c, h.log, common.ErrMissingAuthHeader, msgServerError)
		return
	}

	var req recordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.purchaseOutcome("rejected")
		respondError(c, h.log, bindError(err), msgRecordFailed)
		return
	}

	purchase, err := h.purchases.Record(c.Request.Context(), identity, req.input())
	if err != nil {
		h.metrics.purchaseOutcome(outcomeOf(err))
		respondError(c, h.log, err, msgRecordFailed)
		return
	}

	h.metrics.purchaseOutcome("recorded")
	c.JSON(http.StatusCreated, purchaseResponse{Message: "Purchase recorded", Purchase: purchase})
}

func (h *handlers) listPurchases(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		respondError(c, h.log, common.ErrMissingAuthHeader, msgServerError)
		return
	}

	list, err := h.purchases.History(c.Request.Context(), identity)
	if err != nil {
		respondError(c, h.log, err, msgHistoryFailed)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now().UTC().Format(time.RFC3339)})
}

func (h *handlers) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn(ctx, "readiness check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
		return
	}
	c.JSON(http.StatusOK, healthResponse{Status: "ready"})
}

func outcomeOf(err error) string {
	for _, cs := range errorCases {
		if cs.status < http.StatusInternalServerError && errors.Is(err, cs.err) {
			return "rejected"
		}
	}
	return "failed"
}
