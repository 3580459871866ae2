package http

import (
	"mime"
	"net/http"
	"strings"
	"time"

	mw "lcflow/internal/adapter/middleware"
	"lcflow/internal/domain/lc"
	lcuc "lcflow/internal/usecase/lc"

	"github.com/labstack/echo/v4"
)

type LCHandler struct{ uc *lcuc.Usecase }

func NewLCHandler(uc *lcuc.Usecase) *LCHandler { return &LCHandler{uc: uc} }

type createLCReq struct {
	FormData lc.FormData `json:"formData"`
	// falls back to X-User-Id
	UserID string `json:"userId" validate:"required,userid"`
}

type documentReq struct {
	Type     string `json:"type"     validate:"required,doctype"`
	Name     string `json:"name"     validate:"required,max=255"`
	MimeType string `json:"mimeType" validate:"required,mimetype"`
	// base64 in JSON
	Content []byte `json:"content" validate:"required"`
}

type submitDocsReq struct {
	UserID    string        `json:"userId"    validate:"required,userid"`
	Documents []documentReq `json:"documents" validate:"required,min=1,max=20,dive"`
}

type onchainReq struct {
	TxHash      string     `json:"txHash"      validate:"required,max=128"`
	BlockNumber string     `json:"blockNumber" validate:"required,numeric"`
	Timestamp   *time.Time `json:"timestamp"`
	Network     string     `json:"network"     validate:"max=64"`
	GasUsed     string     `json:"gasUsed"     validate:"omitempty,numeric"`
	GasPrice    string     `json:"gasPrice"    validate:"omitempty,numeric"`
}

// Without onchain the server anchors the document hashes itself.
type approveReq struct {
	AdminID  string      `json:"adminId"  validate:"required,userid"`
	Comments string      `json:"comments" validate:"max=2000"`
	Onchain  *onchainReq `json:"onchain"`
}

type shipmentReq struct {
	Status            string     `json:"status"         validate:"required,phase"`
	Provider          string     `json:"provider"       validate:"required,max=128"`
	Notes             string     `json:"notes"          validate:"max=2000"`
	TrackingNumber    string     `json:"trackingNumber" validate:"max=128"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

func headerUser(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(mw.HeaderUserID))
}

func (h *LCHandler) Create(c echo.Context) error {
	var req createLCReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.UserID == "" {
		req.UserID = headerUser(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), lcuc.CreateInput{FormData: req.FormData, UserID: req.UserID})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *LCHandler) List(c echo.Context) error {
	f := lc.Filter{
		CreatedBy: strings.TrimSpace(c.QueryParam("created_by")),
		Search:    strings.TrimSpace(c.QueryParam("q")),
	}
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		s, err := lc.ParseStatus(strings.ToUpper(raw))
		if err != nil {
			return writeError(c, err)
		}
		f.Status = s
	}
	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []lc.LC{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LCHandler) Summary(c echo.Context) error {
	out, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LCHandler) Get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("lc_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LCHandler) SubmitDocuments(c echo.Context) error {
	var req submitDocsReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.UserID == "" {
		req.UserID = headerUser(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	docs := make([]lcuc.DocumentInput, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, lcuc.DocumentInput{
			Type:     lc.DocumentType(d.Type),
			Name:     d.Name,
			MimeType: d.MimeType,
			Content:  d.Content,
		})
	}
	out, err := h.uc.SubmitExporterDocs(c.Request().Context(), lcuc.SubmitDocsInput{
		LCID:      c.Param("lc_id"),
		UserID:    req.UserID,
		Documents: docs,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LCHandler) DownloadDocument(c echo.Context) error {
	doc, content, err := h.uc.DocumentContent(c.Request().Context(), c.Param("lc_id"), c.Param("doc_id"))
	if err != nil {
		return writeError(c, err)
	}
	hdr := c.Response().Header()
	hdr.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	hdr.Set("X-Content-Sha256", doc.SHA256)
	return c.Blob(http.StatusOK, doc.MimeType, content)
}

func (h *LCHandler) Approve(c echo.Context) error {
	var req approveReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.AdminID == "" {
		req.AdminID = headerUser(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	ctx := c.Request().Context()
	lcID := c.Param("lc_id")
	var (
		out *lc.LC
		err error
	)
	if req.Onchain == nil {
		out, err = h.uc.ApproveAndAnchor(ctx, lcuc.AnchorInput{LCID: lcID, AdminID: req.AdminID, Comments: req.Comments})
	} else {
		data := lc.OnchainData{
			TxHash:      req.Onchain.TxHash,
			BlockNumber: req.Onchain.BlockNumber,
			Network:     req.Onchain.Network,
			GasUsed:     req.Onchain.GasUsed,
			GasPrice:    req.Onchain.GasPrice,
		}
		if req.Onchain.Timestamp != nil {
			data.Timestamp = req.Onchain.Timestamp.UTC()
		}
		out, err = h.uc.Approve(ctx, lcuc.ApproveInput{
			LCID:     lcID,
			AdminID:  req.AdminID,
			Comments: req.Comments,
			Onchain:  data,
		})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LCHandler) UpdateShipment(c echo.Context) error {
	var req shipmentReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.Provider == "" {
		req.Provider = headerUser(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.UpdateShipmentStatus(c.Request().Context(), lcuc.ShipmentInput{
		LCID:              c.Param("lc_id"),
		Phase:             lc.ShipmentPhase(req.Status),
		Provider:          req.Provider,
		Notes:             req.Notes,
		TrackingNumber:    req.TrackingNumber,
		EstimatedDelivery: req.EstimatedDelivery,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
