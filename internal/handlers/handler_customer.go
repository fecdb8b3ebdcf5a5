package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/dto"
	"github.com/softblue/bank_backend/internal/middleware"
)

// customerHandler handles HTTP requests related to customers.
type customerHandler struct {
	customerService portssvc.CustomerSvcFacade
	accountService  portssvc.AccountReaderSvc
}

func newCustomerHandler(cs portssvc.CustomerSvcFacade, as portssvc.AccountReaderSvc) *customerHandler {
	return &customerHandler{
		customerService: cs,
		accountService:  as,
	}
}

// registerPublicCustomerRoutes registers sign-up and login. loginLimit guards the login route only.
func registerPublicCustomerRoutes(rg *gin.RouterGroup, h *customerHandler, loginLimit gin.HandlerFunc) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.registerCustomer)
		customers.POST("/login", loginLimit, h.login)
	}
}

// registerCustomerRoutes registers the authenticated customer routes.
func registerCustomerRoutes(rg *gin.RouterGroup, h *customerHandler) {
	customers := rg.Group("/customers")
	{
		customers.GET("", h.listCustomers)
		customers.GET("/:customerID", h.getCustomer)
		customers.GET("/:customerID/accounts", h.listCustomerAccounts)
	}
}

// registerCustomer godoc
// @Summary Register a customer
// @Description Creates a customer that can log in and own accounts
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body dto.RegisterCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Failed to register customer"
// @Router /customers [post]
func (h *customerHandler) registerCustomer(c *gin.Context) {
	var req dto.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := h.customerService.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to register customer")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// login godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token
// @Tags customers
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Failure 429 {object} dto.ErrorResponse "Too many attempts"
// @Router /customers/login [post]
func (h *customerHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.customerService.Login(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /customers [get]
func (h *customerHandler) listCustomers(c *gin.Context) {
	var params dto.ListCustomersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	customers, err := h.customerService.ListCustomers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err, "Failed to list customers")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCustomersResponse(customers))
}

// getCustomer godoc
// @Summary Get a customer by ID
// @Tags customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Security BearerAuth
// @Router /customers/{customerID} [get]
func (h *customerHandler) getCustomer(c *gin.Context) {
	customer, err := h.customerService.FindCustomerByID(c.Request.Context(), c.Param("customerID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve customer")
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// listCustomerAccounts godoc
// @Summary List a customer's accounts
// @Tags customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Security BearerAuth
// @Router /customers/{customerID}/accounts [get]
func (h *customerHandler) listCustomerAccounts(c *gin.Context) {
	customerID := c.Param("customerID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))
	logger.Debug("Listing customer accounts")

	accounts, err := h.accountService.ListAccountsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}
