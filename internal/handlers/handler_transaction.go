package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/dto"
	"github.com/softblue/bank_backend/internal/middleware"
)

// IdempotencyKeyHeader lets a client retry a transaction without posting it twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// transactionHandler handles HTTP requests that post ledger entries.
type transactionHandler struct {
	transactionService portssvc.TransactionWriterSvc
}

func newTransactionHandler(ts portssvc.TransactionWriterSvc) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, h *transactionHandler) {
	rg.POST("/transactions", h.applyTransaction)
}

// applyTransaction godoc
// @Summary Post a deposit or withdrawal
// @Description Records the entry and updates the account balance atomically. Repeating a request with the same Idempotency-Key returns the original entry.
// @Tags transactions
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client supplied key for safe retries"
// @Param transaction body dto.ApplyTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or amount"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Idempotency key reused with a different request"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable, safe to retry"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) applyTransaction(c *gin.Context) {
	var req dto.ApplyTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to apply transaction",
		slog.String("account_id", req.AccountID),
		slog.String("type", req.Type))

	txn, err := h.transactionService.ApplyTransaction(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to apply transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
