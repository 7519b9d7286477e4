package dto

import "github.com/skladpro/sklad-api/internal/domain"

// ErrorResponse HTTP error body. Details is populated only for stock
// shortages, one entry per short line.
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []domain.ShortageDetail `json:"details,omitempty"`
}
