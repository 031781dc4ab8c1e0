package http_api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/internal/payu"
)

// gatewayResult handles the browser redirect PayU sends to surl and furl.
// In development a POST is bounced to the GET form so the parameters show
// up in the address bar.
func (s *HTTPServer) gatewayResult(c *gin.Context) {
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err != nil {
			s.logger.Warn("Failed to parse gateway form", "error", err)
		}
		if s.config.Development {
			target := url.URL{Path: c.Request.URL.Path, RawQuery: c.Request.PostForm.Encode()}
			c.Redirect(http.StatusFound, target.String())
			return
		}
	}

	values := c.Request.URL.Query()
	if c.Request.Method == http.MethodPost {
		values = c.Request.PostForm
	}

	result, err := s.desk.HandleGatewayResponse(c.Request.Context(), values)
	if err != nil {
		s.logger.Warn("Gateway response rejected", "path", c.FullPath(), "txnid", values.Get("txnid"), "error", err)
		result = rejectedResult(values)
	}

	if s.config.ResultRedirectURL == "" {
		respondOK(c, http.StatusOK, result)
		return
	}
	target, err := resultURL(s.config.ResultRedirectURL, result)
	if err != nil {
		s.logger.Error("Invalid RESULT_REDIRECT_URL", "error", err)
		respondOK(c, http.StatusOK, result)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// rejectedResult describes a response that could not be applied. It is
// always a failure and never hash verified.
func rejectedResult(values url.Values) *models.CallbackResult {
	amount, _ := decimal.NewFromString(values.Get("amount"))
	msg := payu.StatusMessage(string(models.OutcomeFailure))
	return &models.CallbackResult{
		Outcome:              models.OutcomeFailure,
		PaymentRequestID:     values.Get("udf1"),
		PaymentNumber:        values.Get("udf2"),
		Amount:               amount,
		TransactionID:        values.Get("txnid"),
		GatewayTransactionID: values.Get("mihpayid"),
		PaymentMethod:        values.Get("mode"),
		Title:                msg.Title,
		Message:              msg.Message,
	}
}

func resultURL(base string, result *models.CallbackResult) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("outcome", string(result.Outcome))
	q.Set("payment_number", result.PaymentNumber)
	q.Set("amount", result.Amount.StringFixed(2))
	q.Set("txnid", result.TransactionID)
	q.Set("mihpayid", result.GatewayTransactionID)
	q.Set("mode", result.PaymentMethod)
	q.Set("hash_verified", strconv.FormatBool(result.HashVerified))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
