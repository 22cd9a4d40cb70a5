package restapi

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"account_hydrator/internal/app/port"
	"account_hydrator/internal/app/service"
	"account_hydrator/internal/domain/entity"
	"account_hydrator/internal/infrastructure/configloader"
	"account_hydrator/pkg/metrics"
)

// AccountHandler handles HTTP requests related to account hydration.
type AccountHandler struct {
	directory       port.AccountDirectory
	balanceHydrator *service.BalanceHydrator
	fiatHydrator    *service.FiatHydrator
	txHydrator      *service.TransactionFiatHydrator
	orchestrator    *service.RefreshOrchestrator
	cfg             *configloader.Config
	logger          port.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(
	directory port.AccountDirectory,
	balanceHydrator *service.BalanceHydrator,
	fiatHydrator *service.FiatHydrator,
	txHydrator *service.TransactionFiatHydrator,
	orchestrator *service.RefreshOrchestrator,
	cfg *configloader.Config,
	logger port.Logger,
) *AccountHandler {
	return &AccountHandler{
		directory:       directory,
		balanceHydrator: balanceHydrator,
		fiatHydrator:    fiatHydrator,
		txHydrator:      txHydrator,
		orchestrator:    orchestrator,
		cfg:             cfg,
		logger:          logger,
	}
}

// APIAccountsResponse is the response shape of the account listing endpoint.
type APIAccountsResponse struct {
	Data struct {
		Accounts []entity.Account `json:"accounts"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// ListAccountsHandler returns the accounts known to the directory.
func (h *AccountHandler) ListAccountsHandler(c *gin.Context) {
	accounts := h.directory.List()

	response := APIAccountsResponse{}
	response.Data.Accounts = accounts
	if len(accounts) == 0 {
		response.StatusMessage = "No accounts configured. Check the accounts section of the configuration."
	} else {
		response.StatusMessage = "Accounts retrieved successfully."
	}
	c.JSON(http.StatusOK, response)
}

// SelectedAccountHandler returns the currently selected account.
func (h *AccountHandler) SelectedAccountHandler(c *gin.Context) {
	account, ok := h.directory.CurrentSelection()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no account selected"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// RefreshAccountsHandler streams refresh snapshots as server-sent events. The
// first event is the loading-state snapshot; one further event follows per
// completed account.
func (h *AccountHandler) RefreshAccountsHandler(c *gin.Context) {
	currency := c.DefaultQuery("currency", h.cfg.Fiat.TargetCurrency)
	accounts := h.directory.List()

	started := time.Now()
	snapshots := h.orchestrator.Refresh(c.Request.Context(), accounts, currency)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		snapshot, open := <-snapshots
		if !open {
			metrics.RefreshDurationSeconds.Observe(time.Since(started).Seconds())
			return false
		}
		c.SSEvent("snapshot", snapshot)
		return true
	})
}

// HydrateBalanceHandler resolves the native and token balances for one
// account.
func (h *AccountHandler) HydrateBalanceHandler(c *gin.Context) {
	account, ok := h.findAccount(c.Param("accountId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	includeTokens := c.DefaultQuery("tokens", "true") == "true"
	hydrated := h.balanceHydrator.Hydrate(c.Request.Context(), account, includeTokens)
	c.JSON(http.StatusOK, hydrated)
}

// HydrateFiatHandler resolves balances and then the fiat valuation for one
// account.
func (h *AccountHandler) HydrateFiatHandler(c *gin.Context) {
	account, ok := h.findAccount(c.Param("accountId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	currency := c.DefaultQuery("currency", h.cfg.Fiat.TargetCurrency)
	ctx := c.Request.Context()
	withBalance := h.balanceHydrator.Hydrate(ctx, account, true)
	withFiat := h.fiatHydrator.Hydrate(ctx, withBalance, currency)
	c.JSON(http.StatusOK, gin.H{
		"account":   withFiat,
		"totalFiat": withFiat.TotalFiat(),
	})
}

// TransactionFiatRequest is the request body of the transaction valuation
// endpoint.
type TransactionFiatRequest struct {
	Currency     string                          `json:"currency"`
	Transactions []entity.TransactionHistoryItem `json:"transactions"`
}

// HydrateTransactionFiatHandler values a transaction history against
// historical rates.
func (h *AccountHandler) HydrateTransactionFiatHandler(c *gin.Context) {
	var request TransactionFiatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if request.Currency == "" {
		request.Currency = h.cfg.Fiat.TargetCurrency
	}

	hydrated := h.txHydrator.Hydrate(c.Request.Context(), request.Transactions, request.Currency)
	c.JSON(http.StatusOK, gin.H{"transactions": hydrated})
}

func (h *AccountHandler) findAccount(accountID string) (entity.Account, bool) {
	for _, account := range h.directory.List() {
		if account.ID == accountID {
			return account, true
		}
	}
	return entity.Account{}, false
}
