package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"daybook/internal/middleware"
	"daybook/internal/models"
	"daybook/internal/service"
	"daybook/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EntryHandler serves the expense ledger pages.
type EntryHandler struct {
	ledger *service.LedgerService
	auth   *service.AuthService
	clock  service.Clock
	log    *zap.Logger
}

func NewEntryHandler(ledger *service.LedgerService, auth *service.AuthService, clock service.Clock, log *zap.Logger) *EntryHandler {
	return &EntryHandler{ledger: ledger, auth: auth, clock: clock, log: log}
}

// Expenses lists visible entries with totals and the current balances.
func (h *EntryHandler) Expenses(c *gin.Context) {
	sum, err := h.ledger.Summary(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	sess := middleware.CurrentSession(c)
	util.Page(c, http.StatusOK, "expenses.html", "Expenses", gin.H{
		"summary": sum,
		"owner":   sess != nil && h.auth.IsOwner(sess.UserID),
	})
}

func (h *EntryHandler) AddTransactionPage(c *gin.Context) {
	now := h.clock()
	util.Page(c, http.StatusOK, "add_transaction.html", "Add a transaction", gin.H{
		"today": now.Format("2006-01-02"),
		"now":   now.Format("15:04"),
	})
}

func (h *EntryHandler) AddTransaction(c *gin.Context) {
	// An unparsable amount stays zero; AppendTransaction rejects it after
	// the card credit check.
	amount, _ := util.ParseAmount(c.PostForm("amount"))

	tx := service.Transaction{
		Direction: models.Direction(c.PostForm("payment_type")),
		Method:    models.Method(c.PostForm("mode")),
		Account:   models.Account(c.PostForm("account")),
		Amount:    amount,
		Date:      c.PostForm("date"),
		Time:      c.PostForm("time"),
		Purpose:   c.PostForm("purpose"),
	}
	if _, err := h.ledger.AppendTransaction(c.Request.Context(), tx); err != nil {
		fail(c, h.log, err)
		return
	}
	util.Redirect(c, "/home/add_transaction")
}

// SetVisibility hides or shows one entry. Balances are not touched.
func (h *EntryHandler) SetVisibility(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, h.log, fmt.Errorf("%w: entry id %q", service.ErrInvalidInput, c.Param("id")))
		return
	}
	visible, err := strconv.ParseBool(c.DefaultPostForm("visible", "false"))
	if err != nil {
		fail(c, h.log, fmt.Errorf("%w: visible %q", service.ErrInvalidInput, c.PostForm("visible")))
		return
	}
	if err := h.ledger.SetVisibility(c.Request.Context(), uint(id), visible); err != nil {
		fail(c, h.log, err)
		return
	}
	util.Redirect(c, "/home/expenses")
}
