package payu

import (
	"fmt"

	"github.com/ei-sanu/someshprofile/internal/config"
)

const (
	TestEndpoint       = "https://test.payu.in/_payment"
	ProductionEndpoint = "https://secure.payu.in/_payment"
)

// Gateway builds signed checkout forms for the configured PayU account.
type Gateway struct {
	signer     *Signer
	endpoint   string
	successURL string
	failureURL string
}

// CheckoutForm is posted by the browser to PayU.
type CheckoutForm struct {
	Action string            `json:"action"`
	Fields map[string]string `json:"fields"`
}

func NewGateway(cfg config.PayU) (*Gateway, error) {
	signer, err := NewSigner(cfg.MerchantKey, cfg.MerchantSalt)
	if err != nil {
		return nil, err
	}

	var endpoint string
	switch cfg.Mode {
	case config.PayUModeProduction:
		endpoint = ProductionEndpoint
	case config.PayUModeTest, "":
		endpoint = TestEndpoint
	default:
		return nil, fmt.Errorf("payu: unknown mode %q", cfg.Mode)
	}

	return &Gateway{
		signer:     signer,
		endpoint:   endpoint,
		successURL: cfg.SuccessURL,
		failureURL: cfg.FailureURL,
	}, nil
}

func (g *Gateway) Signer() *Signer {
	return g.signer
}

func (g *Gateway) Endpoint() string {
	return g.endpoint
}

// Checkout signs p and returns the form fields PayU expects.
func (g *Gateway) Checkout(p PaymentParams) *CheckoutForm {
	fields := map[string]string{
		"key":         g.signer.Key(),
		"txnid":       p.TxnID,
		"amount":      FormatAmount(p.Amount),
		"productinfo": p.ProductInfo,
		"firstname":   p.FirstName,
		"email":       p.Email,
		"phone":       p.Phone,
		"surl":        g.successURL,
		"furl":        g.failureURL,
		"hash":        g.signer.Sign(p),
	}
	for i, udf := range p.UDF {
		fields[fmt.Sprintf("udf%d", i+1)] = udf
	}
	return &CheckoutForm{Action: g.endpoint, Fields: fields}
}
