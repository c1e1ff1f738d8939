package verification

import "time"

type RequirementsResponse struct {
	Requirements
	Methods []Method `json:"methods"`
}

func NewRequirementsResponse(r Requirements) RequirementsResponse {
	return RequirementsResponse{Requirements: r, Methods: r.Methods()}
}

type DailyCodeResponse struct {
	Code      string    `json:"code"`
	Date      string    `json:"date"`
	ExpiresAt time.Time `json:"expires_at"`
}
