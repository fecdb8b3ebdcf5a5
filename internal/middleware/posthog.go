package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/softblue/bank_backend/internal/utils"
)

var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// PosthogMiddleware captures one analytics event per successful authenticated request.
// The event is named after the method and route template, e.g. "post_api_v1_transactions",
// so raw account and customer IDs never become event names.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		customerID, exists := GetCustomerIDFromContext(c)
		if !exists {
			return
		}

		route := c.FullPath()
		if route == "" {
			return
		}

		props := map[string]any{
			"method":         c.Request.Method,
			"route":          route,
			"status_code":    c.Writer.Status(),
			"account_scoped": c.Param("accountID") != "",
		}
		if key := c.GetHeader("Idempotency-Key"); key != "" {
			props["idempotent"] = true
		}

		posthogClient.Enqueue(customerID, routeEventName(c.Request.Method, route), props)
	}
}

// routeEventName turns "GET" and "/api/v1/accounts/:accountID/balance" into
// "get_api_v1_accounts_accountID_balance".
func routeEventName(method, route string) string {
	name := strings.TrimPrefix(route, "/")
	name = strings.NewReplacer("/", "_", ":", "", "*", "").Replace(name)
	return strings.ToLower(method) + "_" + name
}
