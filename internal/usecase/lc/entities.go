package lc

import (
	"time"

	domain "lcflow/internal/domain/lc"

	"github.com/shopspring/decimal"
)

type CreateInput struct {
	FormData domain.FormData
	UserID   string
}

type DocumentInput struct {
	Type     domain.DocumentType
	Name     string
	MimeType string
	Content  []byte
}

type SubmitDocsInput struct {
	LCID      string
	UserID    string
	Documents []DocumentInput
}

type ApproveInput struct {
	LCID     string
	AdminID  string
	Comments string
	Onchain  domain.OnchainData
}

// AnchorInput approves after recording the exporter document hashes on chain.
type AnchorInput struct {
	LCID     string
	AdminID  string
	Comments string
}

type ShipmentInput struct {
	LCID              string
	Phase             domain.ShipmentPhase
	Provider          string
	Notes             string
	TrackingNumber    string
	EstimatedDelivery *time.Time
}

// Summary backs the dashboard cards.
type Summary struct {
	Total         int                   `json:"total"`
	ByStatus      map[domain.Status]int `json:"byStatus"`
	PendingReview int                   `json:"pendingReview"`
	Onchain       int                   `json:"onchain"`
	InShipment    int                   `json:"inShipment"`
	Completed     int                   `json:"completed"`
	TotalValue    decimal.Decimal       `json:"totalValue"`
}
