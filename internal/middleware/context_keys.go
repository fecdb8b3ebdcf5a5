package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// customerIDKey is the key used to store the authenticated customer's ID.
const customerIDKey = contextKey("customerID")

// GetCustomerIDFromContext retrieves the authenticated customer ID from the Gin context.
// It returns the customer ID and a boolean indicating if it was found.
func GetCustomerIDFromContext(c *gin.Context) (string, bool) {
	if val, exists := c.Get(string(customerIDKey)); exists {
		customerID, ok := val.(string)
		return customerID, ok && customerID != ""
	}
	// check in the request context as well
	return CustomerIDFromCtx(c.Request.Context())
}

// CustomerIDFromCtx retrieves the authenticated customer ID from a standard context.
func CustomerIDFromCtx(ctx context.Context) (string, bool) {
	customerID, ok := ctx.Value(customerIDKey).(string)
	return customerID, ok && customerID != ""
}

// WithCustomerID returns a copy of ctx carrying the authenticated customer ID.
func WithCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, customerIDKey, customerID)
}
