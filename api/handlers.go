package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"petbroker/models"
	"petbroker/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Handler exposes the broker's operations over HTTP. The request and response
// field names are the public contract shared with the frontend and the bots.
type Handler struct {
	users      service.UserService
	balances   service.BalanceService
	trades     service.TradeService
	history    service.HistoryService
	defaultBot string
}

// NewHandler creates a new API handler
func NewHandler(users service.UserService, balances service.BalanceService, trades service.TradeService, history service.HistoryService, defaultBot string) *Handler {
	return &Handler{
		users:      users,
		balances:   balances,
		trades:     trades,
		history:    history,
		defaultBot: defaultBot,
	}
}

// tradeRequestBody is the submission payload for deposits and withdrawals
type tradeRequestBody struct {
	Username   string             `json:"username"`
	Bot        string             `json:"bot"`
	PetCounts  models.PetCounts   `json:"petCounts"`
	PetDetails []models.PetDetail `json:"petDetails"`
}

// completionBody is a bot's outcome report for a pending request
type completionBody struct {
	Username   string             `json:"username"`
	Bot        string             `json:"bot"`
	Success    bool               `json:"success"`
	PetCounts  models.PetCounts   `json:"petCounts"`
	PetDetails []models.PetDetail `json:"petDetails"`
}

// Health reports service liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// VerifyUser reports whether a user record exists
func (h *Handler) VerifyUser(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username required"})
		return
	}

	verified, err := h.users.VerifyUser(c.Request.Context(), username)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": verified})
}

// GetBalance returns all of a user's pet balances, zero counts included
func (h *Handler) GetBalance(c *gin.Context) {
	username := c.Param("username")

	balances, err := h.balances.GetBalances(c.Request.Context(), username)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":    username,
		"petBalances": balances,
	})
}

// GetAvailablePets returns the pets a user can currently withdraw
func (h *Handler) GetAvailablePets(c *gin.Context) {
	username := c.Param("username")

	available, err := h.balances.GetAvailablePets(c.Request.Context(), username)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":      username,
		"availablePets": available,
	})
}

// Deposit creates a pending deposit request
func (h *Handler) Deposit(c *gin.Context) {
	var body tradeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}
	if body.Bot == "" {
		body.Bot = h.defaultBot
	}

	request, err := h.trades.SubmitDeposit(c.Request.Context(), body.Username, body.Bot, body.PetCounts, body.PetDetails)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Deposit request created - waiting for bot to process",
		"requestId": request.ID,
	})
}

// Withdraw creates a pending withdrawal request after the advisory balance check
func (h *Handler) Withdraw(c *gin.Context) {
	var body tradeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}
	if body.Bot == "" {
		body.Bot = h.defaultBot
	}

	request, err := h.trades.SubmitWithdraw(c.Request.Context(), body.Username, body.Bot, body.PetCounts, body.PetDetails)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Withdrawal request created - waiting for bot to process",
		"requestId": request.ID,
	})
}

// GetPendingRequests returns a bot's pending requests, oldest first
func (h *Handler) GetPendingRequests(c *gin.Context) {
	bot := c.Query("bot")

	requests, err := h.trades.ListPending(c.Request.Context(), bot)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if requests == nil {
		requests = []*models.TradeRequest{}
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// CompleteDeposit processes a bot's outcome report for a pending deposit
func (h *Handler) CompleteDeposit(c *gin.Context) {
	h.complete(c, models.TradeTypeDeposit)
}

// CompleteWithdraw processes a bot's outcome report for a pending withdrawal
func (h *Handler) CompleteWithdraw(c *gin.Context) {
	h.complete(c, models.TradeTypeWithdraw)
}

func (h *Handler) complete(c *gin.Context, tradeType models.TradeType) {
	var body completionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	var message string
	if tradeType == models.TradeTypeDeposit {
		err = h.trades.CompleteDeposit(c.Request.Context(), body.Username, body.Bot, body.Success, body.PetCounts, body.PetDetails)
		message = "Deposit completed"
	} else {
		err = h.trades.CompleteWithdraw(c.Request.Context(), body.Username, body.Bot, body.Success, body.PetCounts, body.PetDetails)
		message = "Withdrawal completed"
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// GetTradeHistory returns completed trades, newest first
func (h *Handler) GetTradeHistory(c *gin.Context) {
	var username *string
	if u := c.Query("username"); u != "" {
		username = &u
	}

	limit := service.DefaultHistoryLimit
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	records, err := h.history.GetHistory(c.Request.Context(), username, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if records == nil {
		records = []*models.TradeHistoryRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

// handleError maps service errors to HTTP responses. Storage faults are
// logged server-side and surfaced as a generic failure.
func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var insufficientErr *service.InsufficientBalanceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         insufficientErr.Error(),
			"availablePets": insufficientErr.Available,
		})
	case errors.Is(err, service.ErrPendingRequestExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoPendingRequest):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Request failed with server error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
