package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// UpdateDeckRequest updates deck metadata. Version is required and must
// match the stored version; a mismatch is rejected with 409.
type UpdateDeckRequest struct {
	Problem       *string         `json:"problem,omitempty"`
	Solution      *string         `json:"solution,omitempty"`
	TargetMarket  *string         `json:"target_market,omitempty"`
	FundingStage  *string         `json:"funding_stage,omitempty"`
	FundingAmount *string         `json:"funding_amount,omitempty"`
	UseOfFunds    *string         `json:"use_of_funds,omitempty"`
	Traction      json.RawMessage `json:"traction,omitempty"`
	Version       int             `json:"version"`
}

type DeckResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	FileName      string          `json:"file_name"`
	MimeType      string          `json:"mime_type"`
	SizeBytes     int64           `json:"size_bytes"`
	Problem       *string         `json:"problem,omitempty"`
	Solution      *string         `json:"solution,omitempty"`
	TargetMarket  *string         `json:"target_market,omitempty"`
	FundingStage  *string         `json:"funding_stage,omitempty"`
	FundingAmount *string         `json:"funding_amount,omitempty"`
	UseOfFunds    *string         `json:"use_of_funds,omitempty"`
	Traction      json.RawMessage `json:"traction"`
	Version       int             `json:"version"`
	UpdatedBy     *uuid.UUID      `json:"updated_by,omitempty"`
}
