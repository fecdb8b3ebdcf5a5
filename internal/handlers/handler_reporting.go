package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/dto"
)

// reportingHandler handles HTTP requests related to customer reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to customer reports
func registerReportingRoutes(rg *gin.RouterGroup, h *reportingHandler) {
	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/clients-by-transactions", h.getClientsByDeposits)
		reportingGroup.GET("/clients-with-large-withdrawals", h.getClientsWithLargeWithdrawals)
	}
}

// getClientsByDeposits godoc
// @Summary Rank customers by deposits
// @Description Lists every customer with activity in the month, ordered by the total they deposited
// @Tags reports
// @Produce json
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Success 200 {object} dto.ClientsByDepositsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid period"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/clients-by-transactions [get]
func (h *reportingHandler) getClientsByDeposits(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	rows, err := h.reportingService.ClientsByDeposits(c.Request.Context(), params.Month, params.Year)
	if err != nil {
		respondWithError(c, err, "Failed to generate report")
		return
	}

	c.JSON(http.StatusOK, dto.ClientsByDepositsResponse{Month: params.Month, Year: params.Year, Clients: rows})
}

// getClientsWithLargeWithdrawals godoc
// @Summary List customers with large out-of-town withdrawals
// @Description Customers whose withdrawals on one account in the month exceed the reporting threshold, with at least one made outside the account's origin city
// @Tags reports
// @Produce json
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Success 200 {object} dto.LargeWithdrawalsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid period"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/clients-with-large-withdrawals [get]
func (h *reportingHandler) getClientsWithLargeWithdrawals(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	rows, err := h.reportingService.ClientsWithLargeWithdrawals(c.Request.Context(), params.Month, params.Year)
	if err != nil {
		respondWithError(c, err, "Failed to generate report")
		return
	}

	c.JSON(http.StatusOK, dto.LargeWithdrawalsResponse{Month: params.Month, Year: params.Year, Clients: rows})
}
