package lc

import (
	"errors"
	"time"
)

var (
	ErrNotFound             = errors.New("lc not found")
	ErrInvalidTransition    = errors.New("lc not in a state that allows this action")
	ErrAlreadyApproved      = errors.New("lc already approved")
	ErrDocsAlreadySubmitted = errors.New("exporter documents already submitted")
	ErrInvalidStatus        = errors.New("invalid lc status")
	ErrInvalidPhase         = errors.New("invalid shipment phase")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrInvalidDocument      = errors.New("invalid document")
)

// Upload limits carried over from the exporter upload form.
const MaxDocumentSize = 10 << 20

var AllowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/png":          true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// FormData is the importer's application payload. The state machine never
// looks inside it.
type FormData struct {
	ApplicantName    string `json:"applicantName"`
	ApplicantAddress string `json:"applicantAddress"`
	ContactPerson    string `json:"contactPerson"`
	ContactEmail     string `json:"contactEmail"`
	ContactPhone     string `json:"contactPhone"`

	BeneficiaryName    string `json:"beneficiaryName"`
	BeneficiaryAddress string `json:"beneficiaryAddress"`
	BeneficiaryCountry string `json:"beneficiaryCountry"`

	LCType        string     `json:"lcType"`
	LCAmount      string     `json:"lcAmount"`
	Currency      string     `json:"currency"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	PlaceOfExpiry string     `json:"placeOfExpiry"`

	ApplicantBankName   string `json:"applicantBankName"`
	BeneficiaryBankName string `json:"beneficiaryBankName"`
	SwiftCode           string `json:"swiftCode"`

	DescriptionOfGoods string     `json:"descriptionOfGoods"`
	Quantity           string     `json:"quantity"`
	Unit               string     `json:"unit"`
	Incoterms          string     `json:"incoterms"`
	PortOfLoading      string     `json:"portOfLoading"`
	PortOfDischarge    string     `json:"portOfDischarge"`
	LatestShipmentDate *time.Time `json:"latestShipmentDate,omitempty"`
}

type DocumentType string

const (
	DocInvoice             DocumentType = "INVOICE"
	DocBillOfLading        DocumentType = "BILL_OF_LADING"
	DocAirwayBill          DocumentType = "AIRWAY_BILL"
	DocInsurance           DocumentType = "INSURANCE"
	DocPackingList         DocumentType = "PACKING_LIST"
	DocCertificateOfOrigin DocumentType = "CERTIFICATE_OF_ORIGIN"
	DocOther               DocumentType = "OTHER"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocInvoice, DocBillOfLading, DocAirwayBill, DocInsurance,
		DocPackingList, DocCertificateOfOrigin, DocOther:
		return true
	}
	return false
}

// Document is upload metadata; the bytes live in DocumentBlob.
type Document struct {
	ID         string       `json:"id"`
	Type       DocumentType `json:"type"`
	Name       string       `json:"name"`
	FileSize   int64        `json:"fileSize"`
	MimeType   string       `json:"mimeType"`
	SHA256     string       `json:"sha256"`
	UploadedAt time.Time    `json:"uploadedAt"`
	UploadedBy string       `json:"uploadedBy"`
}

type ReviewState string

const (
	ReviewPending   ReviewState = "PENDING"
	ReviewSubmitted ReviewState = "SUBMITTED"
	ReviewApproved  ReviewState = "APPROVED"
	ReviewRejected  ReviewState = "REJECTED"
)

type ExporterDocuments struct {
	ID          string      `json:"id"`
	LCID        string      `json:"lcId"`
	Status      ReviewState `json:"status"`
	Documents   []Document  `json:"documents"`
	SubmittedAt *time.Time  `json:"submittedAt,omitempty"`
	SubmittedBy string      `json:"submittedBy"`
}

type AdminReview struct {
	ID                 string      `json:"id"`
	LCID               string      `json:"lcId"`
	Status             ReviewState `json:"status"`
	ReviewedAt         *time.Time  `json:"reviewedAt,omitempty"`
	ReviewedBy         string      `json:"reviewedBy"`
	Comments           string      `json:"comments,omitempty"`
	OnchainTxHash      string      `json:"onchainTxHash,omitempty"`
	OnchainBlockNumber string      `json:"onchainBlockNumber,omitempty"`
	OnchainTimestamp   *time.Time  `json:"onchainTimestamp,omitempty"`
}

// OnchainData is the receipt of the transaction that recorded the approval.
type OnchainData struct {
	TxHash      string    `json:"txHash"`
	BlockNumber string    `json:"blockNumber"`
	Timestamp   time.Time `json:"timestamp"`
	Network     string    `json:"network"`
	GasUsed     string    `json:"gasUsed"`
	GasPrice    string    `json:"gasPrice"`
}

type ShipmentStatus struct {
	ID                string        `json:"id"`
	LCID              string        `json:"lcId"`
	Status            ShipmentPhase `json:"status"`
	Provider          string        `json:"provider"`
	TrackingNumber    string        `json:"trackingNumber,omitempty"`
	InitiatedAt       *time.Time    `json:"initiatedAt,omitempty"`
	InTransitAt       *time.Time    `json:"inTransitAt,omitempty"`
	CompletedAt       *time.Time    `json:"completedAt,omitempty"`
	EstimatedDelivery *time.Time    `json:"estimatedDelivery,omitempty"`
	ActualDelivery    *time.Time    `json:"actualDelivery,omitempty"`
	Notes             string        `json:"notes,omitempty"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// Table: lcs. Sub-records are JSON columns; they are written once and then amended.
type LC struct {
	ID           uint64             `gorm:"primaryKey;column:id" json:"-"`
	LCID         string             `gorm:"column:lc_id;size:64;not null;uniqueIndex:ux_lcs_lc_id" json:"id"`
	Reference    string             `gorm:"column:reference;size:32;not null;index:idx_lcs_reference" json:"reference"`
	FormData     FormData           `gorm:"column:form_data;type:text;serializer:json" json:"formData"`
	Status       Status             `gorm:"column:status;size:32;not null;index:idx_lcs_status" json:"status"`
	CreatedBy    string             `gorm:"column:created_by;size:64;index:idx_lcs_created_by" json:"createdBy"`
	ExporterDocs *ExporterDocuments `gorm:"column:exporter_docs;type:text;serializer:json" json:"exporterDocs,omitempty"`
	AdminReview  *AdminReview       `gorm:"column:admin_review;type:text;serializer:json" json:"adminReview,omitempty"`
	Shipment     *ShipmentStatus    `gorm:"column:shipment;type:text;serializer:json" json:"shipment,omitempty"`
	Onchain      *OnchainData       `gorm:"column:onchain;type:text;serializer:json" json:"onchain,omitempty"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (LC) TableName() string { return "lcs" }

// FindDocument returns the exporter document with the given id, if any.
func (l *LC) FindDocument(docID string) (Document, bool) {
	if l.ExporterDocs == nil {
		return Document{}, false
	}
	for _, d := range l.ExporterDocs.Documents {
		if d.ID == docID {
			return d, true
		}
	}
	return Document{}, false
}

// Table: lc_document_blobs
type DocumentBlob struct {
	ID         uint64    `gorm:"primaryKey;column:id"`
	DocumentID string    `gorm:"column:document_id;size:64;not null;uniqueIndex:ux_lc_document_blobs_document_id"`
	LCID       string    `gorm:"column:lc_id;size:64;not null;index:idx_lc_document_blobs_lc_id"`
	Content    []byte    `gorm:"column:content;type:longblob"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DocumentBlob) TableName() string { return "lc_document_blobs" }

// Filter narrows List. Empty fields match everything; Search is a
// case-insensitive substring over reference, applicant and beneficiary names.
type Filter struct {
	Status    Status
	CreatedBy string
	Search    string
}
