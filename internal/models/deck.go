package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Deck is a pitch deck document: the uploaded file plus its narrative and
// financial metadata. Content is loaded only by the file endpoints.
type Deck struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	FileName      string          `json:"file_name"`
	MimeType      string          `json:"mime_type"`
	SizeBytes     int64           `json:"size_bytes"`
	Content       []byte          `json:"-"`
	Problem       *string         `json:"problem,omitempty"`
	Solution      *string         `json:"solution,omitempty"`
	TargetMarket  *string         `json:"target_market,omitempty"`
	FundingStage  *string         `json:"funding_stage,omitempty"`
	FundingAmount *string         `json:"funding_amount,omitempty"`
	UseOfFunds    *string         `json:"use_of_funds,omitempty"`
	Traction      json.RawMessage `json:"traction"`
	Version       int             `json:"version"`
	UploadedBy    *uuid.UUID      `json:"uploaded_by,omitempty"`
	UpdatedBy     *uuid.UUID      `json:"updated_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
