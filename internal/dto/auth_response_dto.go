package dto

import "time"

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token      string    `json:"token"`
	CustomerID string    `json:"customerID"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
