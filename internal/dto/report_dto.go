package dto

import "time"

type SubmitReportRequest struct {
	Text string `json:"text" validate:"required"`
}

type SubmitReportResponse struct {
	Id          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Delivered   bool      `json:"delivered"`
}
