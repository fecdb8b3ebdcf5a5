package dto

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error     string  `json:"error"`
	Kind      string  `json:"kind,omitempty"`
	Amount    *string `json:"amount,omitempty"`
	Available *string `json:"available,omitempty"`
}
