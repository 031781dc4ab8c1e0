// Package payu signs checkout requests for the PayU hosted payment page and
// verifies the signed responses PayU posts back to the result URLs.
package payu

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingMerchantKey  = errors.New("payu: merchant key is not configured")
	ErrMissingMerchantSalt = errors.New("payu: merchant salt is not configured")
	// ErrMalformedResponse means the gateway redirect lacked required fields.
	ErrMalformedResponse = errors.New("payu: malformed gateway response")
	// ErrHashMismatch means the response hash did not match the recomputed one.
	ErrHashMismatch = errors.New("payu: response hash does not match")
)

// reservedFields is the number of empty udf6..udf10 slots in both hash strings.
const reservedFields = 5

// Signer computes and verifies PayU SHA-512 hashes with one merchant key and salt.
type Signer struct {
	key  string
	salt string
}

// NewSigner fails fast when either credential is missing.
func NewSigner(key, salt string) (*Signer, error) {
	if key == "" {
		return nil, ErrMissingMerchantKey
	}
	if salt == "" {
		return nil, ErrMissingMerchantSalt
	}
	return &Signer{key: key, salt: salt}, nil
}

// Key is the merchant key posted with the checkout form.
func (s *Signer) Key() string {
	return s.key
}

// PaymentParams are the values bound by the outbound hash.
type PaymentParams struct {
	TxnID       string
	Amount      decimal.Decimal
	ProductInfo string
	FirstName   string
	Email       string
	Phone       string
	// UDF holds udf1..udf5. udf1 carries the payment request id.
	UDF [5]string
}

// FormatAmount renders amount with exactly two decimals. Both hash legs use it.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Sign returns the lowercase hex SHA-512 of
// key|txnid|amount|productinfo|firstname|email|udf1|udf2|udf3|udf4|udf5||||||salt.
func (s *Signer) Sign(p PaymentParams) string {
	return hashHex(s.requestHashString(p))
}

func (s *Signer) requestHashString(p PaymentParams) string {
	fields := []string{s.key, p.TxnID, FormatAmount(p.Amount), p.ProductInfo, p.FirstName, p.Email}
	fields = append(fields, p.UDF[:]...)
	for i := 0; i < reservedFields; i++ {
		fields = append(fields, "")
	}
	fields = append(fields, s.salt)
	return strings.Join(fields, "|")
}

// ResponseHash returns the lowercase hex SHA-512 of the reverse string
// salt|status||||||udf5|udf4|udf3|udf2|udf1|email|firstname|productinfo|amount|txnid|key.
// The amount is hashed exactly as PayU echoed it.
func (s *Signer) ResponseHash(r *Response) string {
	return hashHex(s.responseHashString(r))
}

func (s *Signer) responseHashString(r *Response) string {
	fields := []string{s.salt, r.Status}
	for i := 0; i < reservedFields; i++ {
		fields = append(fields, "")
	}
	for i := len(r.UDF) - 1; i >= 0; i-- {
		fields = append(fields, r.UDF[i])
	}
	fields = append(fields, r.Email, r.FirstName, r.ProductInfo, r.Amount, r.TxnID, s.key)
	return strings.Join(fields, "|")
}

// Verify reports whether the response hash matches, in constant time.
func (s *Signer) Verify(r *Response) bool {
	if r == nil || r.Hash == "" {
		return false
	}
	expected := []byte(s.ResponseHash(r))
	supplied := []byte(strings.ToLower(strings.TrimSpace(r.Hash)))
	return subtle.ConstantTimeCompare(expected, supplied) == 1
}

func hashHex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
