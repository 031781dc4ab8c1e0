package payu

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const statusSuccess = "success"

// Response is a parsed PayU result redirect.
type Response struct {
	Status      string
	TxnID       string
	Amount      string
	ProductInfo string
	FirstName   string
	Email       string
	Phone       string
	UDF         [5]string
	Hash        string

	// MihPayID is PayU's own transaction id.
	MihPayID     string
	Mode         string
	BankRefNum   string
	ErrorMessage string

	// Fields keeps every received field for the gateway_response column.
	Fields map[string]string
}

// ParseResponse reads the result fields posted or redirected by PayU.
// status, txnid, hash and udf1 are required.
func ParseResponse(values url.Values) (*Response, error) {
	r := &Response{
		Status:       strings.TrimSpace(values.Get("status")),
		TxnID:        strings.TrimSpace(values.Get("txnid")),
		Amount:       strings.TrimSpace(values.Get("amount")),
		ProductInfo:  values.Get("productinfo"),
		FirstName:    values.Get("firstname"),
		Email:        values.Get("email"),
		Phone:        values.Get("phone"),
		Hash:         strings.TrimSpace(values.Get("hash")),
		MihPayID:     values.Get("mihpayid"),
		Mode:         values.Get("mode"),
		BankRefNum:   values.Get("bank_ref_num"),
		ErrorMessage: firstNonEmpty(values.Get("error_Message"), values.Get("error_message")),
		Fields:       make(map[string]string, len(values)),
	}
	for i := range r.UDF {
		r.UDF[i] = values.Get(fmt.Sprintf("udf%d", i+1))
	}
	for k := range values {
		r.Fields[k] = values.Get(k)
	}

	var missing []string
	if r.Status == "" {
		missing = append(missing, "status")
	}
	if r.TxnID == "" {
		missing = append(missing, "txnid")
	}
	if r.Hash == "" {
		missing = append(missing, "hash")
	}
	if r.UDF[0] == "" {
		missing = append(missing, "udf1")
	}
	if len(missing) > 0 {
		return r, fmt.Errorf("%w: missing %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}
	return r, nil
}

// PaymentRequestID is the id round-tripped in udf1.
func (r *Response) PaymentRequestID() string {
	return r.UDF[0]
}

// IsSuccess reports whether the gateway literally reported success.
func (r *Response) IsSuccess() bool {
	return strings.EqualFold(r.Status, statusSuccess)
}

// ParsedAmount returns the echoed amount as a decimal.
func (r *Response) ParsedAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Amount)
}

// RawJSON encodes all received fields.
func (r *Response) RawJSON() ([]byte, error) {
	return json.Marshal(r.Fields)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
