package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ei-sanu/someshprofile/internal/models"
)

// CreatePaymentRequest is the admin body for a new payment request.
type CreatePaymentRequest struct {
	ClientEmail string          `json:"client_email" binding:"required,email"`
	ClientPhone string          `json:"client_phone"`
	ClientName  string          `json:"client_name" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Description string          `json:"description" binding:"required"`
	Remarks     string          `json:"remarks"`
}

// EditPaymentRequest carries the fields an admin may change before approval.
// Omitted fields are left untouched.
type EditPaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Remarks     *string          `json:"remarks"`
}

func (r EditPaymentRequest) edits() models.PaymentRequestEdits {
	return models.PaymentRequestEdits{
		Amount:      r.Amount,
		Description: r.Description,
		Remarks:     r.Remarks,
	}
}

// ReasonRequest is the body of reject and cancel.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// ListPaymentsQuery filters the admin listing.
type ListPaymentsQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// AuditResponse reports whether the stored status matches the history.
type AuditResponse struct {
	Valid  bool                 `json:"valid"`
	Status models.PaymentStatus `json:"status,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func (s *HTTPServer) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindOptionalJSON binds the body into obj when one was sent.
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}

func (s *HTTPServer) createPayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBindError(c, err)
		return
	}

	pr, err := s.desk.CreatePaymentRequest(c.Request.Context(), currentAccount(c), models.CreatePaymentRequestInput{
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		ClientName:  req.ClientName,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Remarks:     req.Remarks,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, pr)
}

func (s *HTTPServer) listPayments(c *gin.Context) {
	var query ListPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.respondBindError(c, err)
		return
	}

	prs, err := s.desk.ListPaymentRequests(c.Request.Context(), models.PaymentRequestFilter{
		Status: models.PaymentStatus(query.Status),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, prs)
}

func (s *HTTPServer) listClientPayments(c *gin.Context) {
	prs, err := s.desk.ListClientPaymentRequests(c.Request.Context(), currentAccount(c))
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, prs)
}

// getPayment serves both the client and the admin route, the service
// enforces ownership.
func (s *HTTPServer) getPayment(c *gin.Context) {
	pr, err := s.desk.GetPaymentRequest(c.Request.Context(), currentAccount(c), c.Param("id"))
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, pr)
}

func (s *HTTPServer) submitPayment(c *gin.Context) {
	s.respondTransition(c)(s.desk.SubmitPaymentRequest(c.Request.Context(), currentAccount(c), c.Param("id")))
}

func (s *HTTPServer) acceptPayment(c *gin.Context) {
	s.respondTransition(c)(s.desk.AcceptPaymentRequest(c.Request.Context(), currentAccount(c), c.Param("id")))
}

func (s *HTTPServer) approvePayment(c *gin.Context) {
	var req EditPaymentRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.respondBindError(c, err)
		return
	}
	s.respondTransition(c)(s.desk.ApprovePaymentRequest(c.Request.Context(), currentAccount(c), c.Param("id"), req.edits()))
}

func (s *HTTPServer) rejectPayment(c *gin.Context) {
	var req ReasonRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.respondBindError(c, err)
		return
	}
	s.respondTransition(c)(s.desk.RejectPaymentRequest(c.Request.Context(), currentAccount(c), c.Param("id"), req.Reason))
}

func (s *HTTPServer) cancelPayment(c *gin.Context) {
	var req ReasonRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.respondBindError(c, err)
		return
	}
	s.respondTransition(c)(s.desk.CancelPaymentRequest(c.Request.Context(), currentAccount(c), c.Param("id"), req.Reason))
}

func (s *HTTPServer) editPayment(c *gin.Context) {
	var req EditPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBindError(c, err)
		return
	}
	s.respondTransition(c)(s.desk.EditPaymentRequest(c.Request.Context(), currentAccount(c), c.Param("id"), req.edits()))
}

// respondTransition writes the result of a lifecycle command.
func (s *HTTPServer) respondTransition(c *gin.Context) func(*models.PaymentRequest, error) {
	return func(pr *models.PaymentRequest, err error) {
		if err != nil {
			s.respondServiceError(c, err)
			return
		}
		respondOK(c, http.StatusOK, pr)
	}
}

func (s *HTTPServer) initiatePayment(c *gin.Context) {
	form, err := s.desk.InitiatePayment(c.Request.Context(), currentAccount(c), c.Param("id"))
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, form)
}

func (s *HTTPServer) paymentHistory(c *gin.Context) {
	entries, err := s.desk.GetPaymentHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, entries)
}

func (s *HTTPServer) auditPayment(c *gin.Context) {
	status, err := s.desk.VerifyAuditTrail(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		respondOK(c, http.StatusOK, AuditResponse{Valid: true, Status: status})
	case isNotFound(err):
		s.respondServiceError(c, err)
	default:
		s.logger.Warn("Audit trail verification failed", "payment_request_id", c.Param("id"), "error", err)
		respondOK(c, http.StatusOK, AuditResponse{Valid: false, Status: status, Error: err.Error()})
	}
}

func (s *HTTPServer) dashboardStats(c *gin.Context) {
	stats, err := s.desk.DashboardStats(c.Request.Context())
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stats)
}

func (s *HTTPServer) monthlyEarnings(c *gin.Context) {
	var query struct {
		Months int `form:"months" binding:"omitempty,min=1,max=24"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		s.respondBindError(c, err)
		return
	}

	earnings, err := s.desk.MonthlyEarnings(c.Request.Context(), query.Months)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, earnings)
}
