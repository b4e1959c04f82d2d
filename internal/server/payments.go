package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/models"
	"agencydesk/internal/payments"
)

type quotationRequest struct {
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	QuotationURL string  `json:"quotationUrl"`
	DueDate      string  `json:"dueDate"`
}

type receiptRequest struct {
	AmountPaid float64 `json:"amountPaid"`
	ReceiptURL string  `json:"receiptUrl"`
}

// handleListPayments returns a project's payments with receipts.
func (s *Server) handleListPayments(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}

	ledger := payments.NewLedger(s.store, project.ID)
	if err := ledger.Refresh(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"payments": ledger.Payments(),
		"status":   ledger.Status(),
		"totals":   ledger.Totals(),
	})
}

// handleCreateQuotation records an uploaded quotation as a pending
// payment. Admin only; due date defaults to 30 days out when omitted.
func (s *Server) handleCreateQuotation(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}

	var req quotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	var dueDate time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			s.respondError(c, models.Validationf("dueDate", "must be an RFC 3339 timestamp"))
			return
		}
		dueDate = parsed
	}

	ledger := payments.NewLedger(s.store, project.ID)
	if err := ledger.Refresh(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}

	payment, err := ledger.CreateQuotation(c.Request.Context(), req.Amount, req.Description, req.QuotationURL, dueDate)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"payment": payment})
}

// handleAddReceipt appends a receipt to a payment and returns the payment
// with its recomputed status.
func (s *Server) handleAddReceipt(c *gin.Context) {
	payment, err := s.store.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	project, err := s.store.GetProject(c.Request.Context(), payment.ProjectID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !canAccessProject(currentUser(c), project) {
		respondStatus(c, http.StatusNotFound, "payment "+payment.ID+" not found")
		return
	}

	var req receiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ledger := payments.NewLedger(s.store, project.ID)
	if err := ledger.Refresh(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}

	updated, err := ledger.AddReceipt(c.Request.Context(), payment.ID, req.AmountPaid, req.ReceiptURL)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"payment": updated})
}

// handlePaymentSummary returns the project-level money rollup.
func (s *Server) handlePaymentSummary(c *gin.Context) {
	project, ok := s.visibleProject(c)
	if !ok {
		return
	}

	ledger := payments.NewLedger(s.store, project.ID)
	if err := ledger.Refresh(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"status": ledger.Status(),
		"totals": ledger.Totals(),
	})
}
