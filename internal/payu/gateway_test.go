package payu

import (
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ei-sanu/someshprofile/internal/config"
)

func testPayUConfig(mode string) config.PayU {
	return config.PayU{
		MerchantKey:  testKey,
		MerchantSalt: testSalt,
		Mode:         mode,
		SuccessURL:   "https://pay.example.com/payment/success",
		FailureURL:   "https://pay.example.com/payment/failure",
	}
}

func TestNewGateway_Endpoint(t *testing.T) {
	g, err := NewGateway(testPayUConfig(config.PayUModeTest))
	require.NoError(t, err)
	assert.Equal(t, TestEndpoint, g.Endpoint())

	g, err = NewGateway(testPayUConfig(config.PayUModeProduction))
	require.NoError(t, err)
	assert.Equal(t, ProductionEndpoint, g.Endpoint())

	_, err = NewGateway(testPayUConfig("sandbox"))
	assert.Error(t, err)

	cfg := testPayUConfig(config.PayUModeTest)
	cfg.MerchantSalt = ""
	_, err = NewGateway(cfg)
	assert.ErrorIs(t, err, ErrMissingMerchantSalt)
}

func TestGateway_Checkout(t *testing.T) {
	g, err := NewGateway(testPayUConfig(config.PayUModeTest))
	require.NoError(t, err)

	form := g.Checkout(testParams())
	assert.Equal(t, TestEndpoint, form.Action)
	assert.Equal(t, testKey, form.Fields["key"])
	assert.Equal(t, "500.00", form.Fields["amount"])
	assert.Equal(t, "pr-1", form.Fields["udf1"])
	assert.Equal(t, "PAY-202610-ABC123", form.Fields["udf2"])
	assert.Equal(t, "", form.Fields["udf5"])
	assert.Equal(t, "9876543210", form.Fields["phone"])
	assert.Equal(t, "https://pay.example.com/payment/success", form.Fields["surl"])
	assert.Equal(t, "https://pay.example.com/payment/failure", form.Fields["furl"])
	assert.Equal(t, g.Signer().Sign(testParams()), form.Fields["hash"])
	assert.Len(t, form.Fields, 15)
}

func TestParseResponse(t *testing.T) {
	values := url.Values{
		"status":        {"failure"},
		"txnid":         {"TXN1"},
		"amount":        {"10.00"},
		"hash":          {"abc"},
		"udf1":          {"pr-1"},
		"mihpayid":      {"999"},
		"mode":          {"CC"},
		"bank_ref_num":  {"BRN1"},
		"error_Message": {"Bank was unable to authenticate."},
	}
	r, err := ParseResponse(values)
	require.NoError(t, err)
	assert.Equal(t, "pr-1", r.PaymentRequestID())
	assert.False(t, r.IsSuccess())
	assert.Equal(t, "999", r.MihPayID)
	assert.Equal(t, "CC", r.Mode)
	assert.Equal(t, "BRN1", r.BankRefNum)
	assert.Equal(t, "Bank was unable to authenticate.", r.ErrorMessage)
	assert.Equal(t, "TXN1", r.Fields["txnid"])

	raw, err := r.RawJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"mihpayid":"999"`)
}

func TestParseResponse_Malformed(t *testing.T) {
	_, err := ParseResponse(url.Values{"status": {"success"}})
	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "txnid")
	assert.Contains(t, err.Error(), "hash")
	assert.Contains(t, err.Error(), "udf1")
}

func TestIDs(t *testing.T) {
	now := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)

	assert.Regexp(t, regexp.MustCompile(`^TXN\d{13}\d{1,6}$`), NewTransactionID(now))
	assert.Regexp(t, regexp.MustCompile(`^INV-202603-\d{1,4}$`), NewInvoiceNumber(now))
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "Payment Successful!", StatusMessage("SUCCESS").Title)
	assert.Equal(t, "error", StatusMessage("failure").Type)
	assert.Equal(t, "Payment Pending", StatusMessage("pending").Title)
	assert.Equal(t, "Payment Cancelled", StatusMessage("cancelled").Title)
	assert.Equal(t, "Unknown Status", StatusMessage("bounced").Title)
}
