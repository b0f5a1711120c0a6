package batches

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tembill/tembill/internal/batch"
	"github.com/tembill/tembill/internal/charge"
	chargestore "github.com/tembill/tembill/internal/charge/store"
	"github.com/tembill/tembill/internal/export"
	"github.com/tembill/tembill/internal/http/auth"
	"github.com/tembill/tembill/internal/ingest"
	"github.com/tembill/tembill/internal/reader"
)

type Handler struct {
	ingestSvc *ingest.Service
	batchSvc  *batch.Service
	exportSvc *export.Service
	charges   *chargestore.Store
	maxUpload int64
}

func NewHandler(ingestSvc *ingest.Service, batchSvc *batch.Service, exportSvc *export.Service, charges *chargestore.Store, maxUpload int64) *Handler {
	return &Handler{
		ingestSvc: ingestSvc,
		batchSvc:  batchSvc,
		exportSvc: exportSvc,
		charges:   charges,
		maxUpload: maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/", h.list)
	r.Get("/{id}/staged", h.staged)
	r.Get("/{id}/final", h.final)
	r.Get("/{id}/export", h.export)
	r.Post("/{id}/decision", h.decide)
	r.Patch("/charges/{table}/{id}/recurring", h.correctRecurring)
}

type batchResponse struct {
	ID              uuid.UUID    `json:"id"`
	Carrier         string       `json:"carrier"`
	Status          batch.Status `json:"status"`
	SourceFilename  string       `json:"source_filename"`
	SourceType      string       `json:"source_type"`
	SourceSize      int64        `json:"source_size"`
	UploadedBy      string       `json:"uploaded_by"`
	CreatedAt       time.Time    `json:"created_at"`
	ReviewedBy      *string      `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewed_at,omitempty"`
	RejectionReason *string      `json:"rejection_reason,omitempty"`
}

type chargeResponse struct {
	ID             uuid.UUID  `json:"id"`
	SourceFilename string     `json:"source_filename"`
	AccountNumber  string     `json:"account_number"`
	InvoiceNumber  string     `json:"invoice_number"`
	InvoiceDate    *time.Time `json:"invoice_date,omitempty"`
	Department     string     `json:"department,omitempty"`
	VisCode        string     `json:"vis_code,omitempty"`
	ItemNumber     string     `json:"item_number,omitempty"`
	ProductID      string     `json:"product_id,omitempty"`
	Provider       string     `json:"provider,omitempty"`
	Quantity       int        `json:"quantity"`
	Minutes        float64    `json:"minutes"`
	ContractRate   int64      `json:"contract_rate"`
	TotalCharge    int64      `json:"total_charge"`
	Recurring      int64      `json:"recurring_charge"`
	BillPeriod     string     `json:"bill_period,omitempty"`
	ChargeType     string     `json:"charge_type,omitempty"`
	BTN            string     `json:"btn,omitempty"`
	ServiceID      string     `json:"service_id,omitempty"`
	Description    string     `json:"description,omitempty"`
}

type uploadResponse struct {
	Batch  batchResponse `json:"batch"`
	Staged int           `json:"staged"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	carrier := r.FormValue("carrier")
	if carrier == "" {
		http.Error(w, "carrier field is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "reading upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	b, staged, err := h.ingestSvc.Ingest(r.Context(), ingest.UploadParams{
		Carrier:    carrier,
		Filename:   header.Filename,
		Size:       header.Size,
		UploadedBy: auth.Identity(r.Context()),
		Inventory:  r.FormValue("inventory") == "true",
		Data:       data,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Batch: toBatchResponse(b), Staged: staged})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter batch.ListFilter

	if s := r.URL.Query().Get("status"); s != "" {
		status := batch.Status(s)
		filter.Status = &status
	}

	batches, err := h.batchSvc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]batchResponse, 0, len(batches))
	for _, b := range batches {
		resp = append(resp, toBatchResponse(b))
	}

	writeJSON(w, http.StatusOK, resp)
}

type reviewResponse struct {
	Batch   batchResponse    `json:"batch"`
	Charges []chargeResponse `json:"charges"`
}

func (h *Handler) staged(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid batch id", http.StatusBadRequest)
		return
	}

	b, charges, err := h.batchSvc.Staged(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewResponse(b, charges))
}

func (h *Handler) final(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid batch id", http.StatusBadRequest)
		return
	}

	b, charges, err := h.batchSvc.Final(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewResponse(b, charges))
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid batch id", http.StatusBadRequest)
		return
	}

	data, name, err := h.exportSvc.ExportBatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

type decisionRequest struct {
	Action batch.Action `json:"action"`
	Reason string       `json:"reason"`
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid batch id", http.StatusBadRequest)
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.batchSvc.Decide(r.Context(), id, req.Action, auth.Identity(r.Context()), req.Reason); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type correctionRequest struct {
	RecurringCharge int64 `json:"recurring_charge"`
}

// correctRecurring is the sanctioned post-hoc correction of a final record.
// It deliberately bypasses the batch pipeline.
func (h *Handler) correctRecurring(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid charge id", http.StatusBadRequest)
		return
	}

	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.charges.CorrectRecurringCharge(r.Context(), chi.URLParam(r, "table"), id, req.RecurringCharge); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toBatchResponse(b *batch.Batch) batchResponse {
	return batchResponse{
		ID:              b.ID,
		Carrier:         b.Carrier,
		Status:          b.Status,
		SourceFilename:  b.SourceFilename,
		SourceType:      b.SourceType,
		SourceSize:      b.SourceSize,
		UploadedBy:      b.UploadedBy,
		CreatedAt:       b.CreatedAt,
		ReviewedBy:      b.ReviewedBy,
		ReviewedAt:      b.ReviewedAt,
		RejectionReason: b.RejectionReason,
	}
}

func toReviewResponse(b *batch.Batch, charges []*charge.Charge) reviewResponse {
	resp := reviewResponse{Batch: toBatchResponse(b), Charges: make([]chargeResponse, 0, len(charges))}

	for _, c := range charges {
		resp.Charges = append(resp.Charges, chargeResponse{
			ID:             c.ID,
			SourceFilename: c.SourceFilename,
			AccountNumber:  c.AccountNumber,
			InvoiceNumber:  c.InvoiceNumber,
			InvoiceDate:    c.InvoiceDate,
			Department:     c.Department,
			VisCode:        c.VisCode,
			ItemNumber:     c.ItemNumber,
			ProductID:      c.ProductID,
			Provider:       c.Provider,
			Quantity:       c.Quantity,
			Minutes:        c.Minutes,
			ContractRate:   c.ContractRate,
			TotalCharge:    c.TotalCharge,
			Recurring:      c.RecurringCharge,
			BillPeriod:     c.BillPeriod,
			ChargeType:     c.ChargeType,
			BTN:            c.BTN,
			ServiceID:      c.ServiceID,
			Description:    c.Description,
		})
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		missing     *reader.MissingHeadersError
		approvalErr *batch.ApprovalError
	)

	switch {
	case errors.Is(err, batch.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, batch.ErrAlreadyDecided), errors.Is(err, batch.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, batch.ErrUnknownCarrier):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, batch.ErrNoUsableRows),
		errors.Is(err, ingest.ErrEmptyFile),
		errors.Is(err, ingest.ErrUnsupportedType),
		errors.Is(err, reader.ErrMalformed),
		errors.As(err, &missing):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &approvalErr):
		// The batch is already FAILED; tell the reviewer why.
		http.Error(w, approvalErr.Reason, http.StatusInternalServerError)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
