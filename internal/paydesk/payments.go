package paydesk

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ei-sanu/someshprofile/internal/lifecycle"
	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/internal/payu"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

const (
	defaultFirstName        = "Customer"
	hashVerificationFailure = "hash verification failed"
)

// InitiatePayment records a new gateway attempt and returns the signed form
// the client posts to PayU. The attempt is committed before the form is
// returned.
func (p *Paydesk) InitiatePayment(ctx context.Context, client *models.Account, id string) (*payu.CheckoutForm, error) {
	pr, err := p.repo.GetPaymentRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(client, pr); err != nil {
		return nil, err
	}

	now := p.now()
	txnID := payu.NewTransactionID(now)
	next, events, err := lifecycle.Apply(*pr, lifecycle.InitiatePayment{ActorID: accountID(client), TransactionID: txnID}, now)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ID:               uuid.NewString(),
		PaymentRequestID: pr.ID,
		UserID:           accountID(client),
		TransactionID:    txnID,
		Amount:           next.Amount,
		Currency:         next.Currency,
		Status:           models.TransactionInitiated,
		PaymentGateway:   models.GatewayPayU,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := p.commit(ctx, pr, next, events, func(repo models.Repository) error {
		return repo.CreateTransaction(ctx, txn)
	}); err != nil {
		return nil, err
	}
	p.logger.Info("Payment initiated", "payment_request_id", pr.ID, "txnid", txnID, "amount", next.Amount.StringFixed(2))
	p.notify(ctx, next, events)

	return p.gateway.Checkout(payu.PaymentParams{
		TxnID:       txnID,
		Amount:      next.Amount,
		ProductInfo: next.Description,
		FirstName:   firstName(next, client),
		Email:       next.ClientEmail,
		Phone:       next.ClientPhone,
		UDF:         [5]string{next.ID, next.PaymentNumber},
	}), nil
}

// HandleGatewayResponse verifies a PayU result redirect and applies it to the
// payment request it names in udf1. Repeated deliveries are answered from the
// stored outcome without side effects.
func (p *Paydesk) HandleGatewayResponse(ctx context.Context, values url.Values) (*models.CallbackResult, error) {
	resp, err := payu.ParseResponse(values)
	if err != nil {
		p.logger.Warn("Malformed gateway response", "error", err)
		return nil, err
	}
	log := p.logger.With("txnid", resp.TxnID, "payment_request_id", resp.PaymentRequestID(), "gateway_status", resp.Status)

	verified := p.gateway.Signer().Verify(resp)
	if !verified {
		log.Warn("Gateway response hash mismatch")
	}

	// Only a signed response may settle the marker; a forged one must not
	// shadow the genuine delivery for the same txnid.
	if verified {
		processed, err := p.callbacks.IsProcessed(ctx, resp.TxnID)
		if err != nil {
			log.Warn("Failed to read callback marker", "error", err)
		}
		if processed {
			result, err := p.storedOutcome(ctx, resp)
			if err == nil {
				log.Debug("Gateway response already processed")
				return result, nil
			}
			log.Warn("Failed to load stored outcome, reapplying", "error", err)
		}
	}

	var result *models.CallbackResult
	for attempt := 0; attempt < 2; attempt++ {
		result, err = p.applyGatewayResponse(ctx, log, resp, verified)
		if !errors.Is(err, models.ErrConcurrentModification) {
			break
		}
		log.Info("Payment request changed concurrently, reconciling")
	}
	if err != nil {
		return nil, err
	}

	if verified {
		if _, err := p.callbacks.MarkProcessed(ctx, resp.TxnID, callbackTTL); err != nil {
			log.Warn("Failed to mark callback processed", "error", err)
		}
	}
	return result, nil
}

func (p *Paydesk) applyGatewayResponse(ctx context.Context, log *logger.Logger, resp *payu.Response, verified bool) (*models.CallbackResult, error) {
	pr, err := p.repo.GetPaymentRequest(ctx, resp.PaymentRequestID())
	if err != nil {
		return nil, err
	}

	txn, err := p.repo.GetTransactionByReference(ctx, resp.TxnID)
	isNew := false
	switch {
	case isNotFound(err):
		log.Warn("Gateway response for unknown transaction, recording it")
		txn = p.recoveredTransaction(pr, resp)
		isNew = true
	case err != nil:
		return nil, err
	case txn.PaymentRequestID != pr.ID:
		return nil, fmt.Errorf("%w: transaction %s belongs to another payment request", payu.ErrMalformedResponse, resp.TxnID)
	}

	settled, err := p.repo.GetSuccessfulTransaction(ctx, pr.ID)
	switch {
	case err == nil:
		if settled.TransactionID != resp.TxnID {
			log.Warn("Gateway response for a payment request that is already paid", "settled_txnid", settled.TransactionID)
		}
		return callbackResult(pr, settled, true), nil
	case !isNotFound(err):
		return nil, err
	}
	if !isNew && txn.Status == models.TransactionFailed {
		if !resp.IsSuccess() || !verified {
			return callbackResult(pr, txn, true), nil
		}
		log.Warn("Signed success for a transaction recorded as failed, applying it")
	}

	now := p.now()
	cmd := p.gatewayCommand(resp, verified)
	if failure, ok := cmd.(lifecycle.RecordFailure); ok && supersededAttempt(pr, resp.TxnID) {
		reason := failure.Reason
		recordGatewayFields(txn, resp, verified, now)
		txn.Status = models.TransactionFailed
		txn.ErrorMessage = &reason
		if err := saveTransaction(ctx, p.repo, txn, isNew); err != nil {
			return nil, err
		}
		log.Info("Failure recorded for a superseded attempt", "payment_status", pr.Status)
		return callbackResult(pr, txn, false), nil
	}

	recordGatewayFields(txn, resp, verified, now)
	switch c := cmd.(type) {
	case lifecycle.RecordSuccess:
		invoice := payu.NewInvoiceNumber(now)
		txn.Status = models.TransactionSuccess
		txn.InvoiceNumber = &invoice
		txn.ErrorMessage = nil
	case lifecycle.RecordFailure:
		reason := c.Reason
		txn.Status = models.TransactionFailed
		txn.ErrorMessage = &reason
	}

	next, events, err := lifecycle.Apply(*pr, cmd, now)
	if err != nil {
		var illegal *lifecycle.IllegalTransitionError
		if errors.As(err, &illegal) {
			p.holdForReconciliation(ctx, log, pr, txn, resp, isNew)
		}
		return nil, err
	}

	if err := p.commit(ctx, pr, next, events, func(repo models.Repository) error {
		return saveTransaction(ctx, repo, txn, isNew)
	}); err != nil {
		return nil, err
	}
	log.Info("Gateway response applied", "status", next.Status, "hash_verified", verified)

	p.notify(ctx, next, events)
	return callbackResult(next, txn, false), nil
}

// gatewayCommand picks the lifecycle command for a verified or unverified response.
func (p *Paydesk) gatewayCommand(resp *payu.Response, verified bool) lifecycle.Command {
	allowUnverified := p.config.PayU.AllowUnverifiedSuccess
	switch {
	case resp.IsSuccess() && (verified || allowUnverified):
		return lifecycle.RecordSuccess{
			TransactionID:        resp.TxnID,
			GatewayTransactionID: resp.MihPayID,
			HashVerified:         verified,
			AllowUnverified:      allowUnverified,
		}
	case resp.IsSuccess():
		return lifecycle.RecordFailure{TransactionID: resp.TxnID, Reason: hashVerificationFailure, SignatureFailure: true}
	}
	reason := resp.ErrorMessage
	if reason == "" {
		reason = resp.Status
	}
	return lifecycle.RecordFailure{TransactionID: resp.TxnID, Reason: reason}
}

// supersededAttempt reports whether a failure for txnID must stay on the
// transaction. Only the newest open attempt of a request awaiting payment may
// fail the request; an older attempt, or any attempt of a request that has
// already failed, leaves the request alone.
func supersededAttempt(pr *models.PaymentRequest, txnID string) bool {
	switch pr.Status {
	case models.StatusFailed:
		return true
	case models.StatusPaymentPending:
		latest := latestOpenAttempt(pr.Transactions)
		return latest != nil && latest.TransactionID != txnID
	}
	return false
}

// latestOpenAttempt returns the most recently created initiated transaction.
func latestOpenAttempt(txns []models.Transaction) *models.Transaction {
	var latest *models.Transaction
	for i := range txns {
		txn := &txns[i]
		if txn.Status != models.TransactionInitiated {
			continue
		}
		if latest == nil || txn.CreatedAt.After(latest.CreatedAt) {
			latest = txn
		}
	}
	return latest
}

// holdForReconciliation parks the transaction in processing when the request
// can no longer take the gateway outcome, e.g. it was cancelled mid-payment.
func (p *Paydesk) holdForReconciliation(ctx context.Context, log *logger.Logger, pr *models.PaymentRequest, txn *models.Transaction, resp *payu.Response, isNew bool) {
	msg := fmt.Sprintf("gateway reported %s while payment request was %s", resp.Status, pr.Status)
	txn.Status = models.TransactionProcessing
	txn.ErrorMessage = &msg
	txn.InvoiceNumber = nil

	if err := saveTransaction(ctx, p.repo, txn, isNew); err != nil {
		log.Error("Failed to hold transaction for reconciliation", "error", err)
		return
	}
	log.Error("Gateway outcome needs manual reconciliation", "payment_status", pr.Status)
}

func (p *Paydesk) recoveredTransaction(pr *models.PaymentRequest, resp *payu.Response) *models.Transaction {
	amount, err := resp.ParsedAmount()
	if err != nil {
		amount = pr.Amount
	}
	now := p.now()
	return &models.Transaction{
		ID:               uuid.NewString(),
		PaymentRequestID: pr.ID,
		UserID:           pr.UserID,
		TransactionID:    resp.TxnID,
		Amount:           amount,
		Currency:         pr.Currency,
		Status:           models.TransactionInitiated,
		PaymentGateway:   models.GatewayPayU,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// storedOutcome rebuilds the result of an already applied callback.
func (p *Paydesk) storedOutcome(ctx context.Context, resp *payu.Response) (*models.CallbackResult, error) {
	txn, err := p.repo.GetTransactionByReference(ctx, resp.TxnID)
	if err != nil {
		return nil, err
	}
	pr, err := p.repo.GetPaymentRequest(ctx, txn.PaymentRequestID)
	if err != nil {
		return nil, err
	}
	return callbackResult(pr, txn, true), nil
}

func recordGatewayFields(txn *models.Transaction, resp *payu.Response, verified bool, now time.Time) {
	if raw, err := resp.RawJSON(); err == nil {
		txn.GatewayResponse = datatypes.JSON(raw)
	}
	txn.GatewayTransactionID = resp.MihPayID
	txn.PaymentMethod = resp.Mode
	txn.BankRefNum = resp.BankRefNum
	txn.HashVerified = &verified
	txn.UpdatedAt = now
}

func saveTransaction(ctx context.Context, repo models.Repository, txn *models.Transaction, isNew bool) error {
	if isNew {
		return repo.CreateTransaction(ctx, txn)
	}
	return repo.UpdateTransaction(ctx, txn)
}

func callbackResult(pr *models.PaymentRequest, txn *models.Transaction, alreadyProcessed bool) *models.CallbackResult {
	outcome := models.OutcomeFailure
	if txn.Status == models.TransactionSuccess {
		outcome = models.OutcomeSuccess
	}
	msg := payu.StatusMessage(string(outcome))
	return &models.CallbackResult{
		Outcome:              outcome,
		PaymentRequestID:     pr.ID,
		PaymentNumber:        pr.PaymentNumber,
		Amount:               txn.Amount,
		Currency:             txn.Currency,
		TransactionID:        txn.TransactionID,
		GatewayTransactionID: txn.GatewayTransactionID,
		PaymentMethod:        txn.PaymentMethod,
		HashVerified:         txn.HashVerified != nil && *txn.HashVerified,
		AlreadyProcessed:     alreadyProcessed,
		Title:                msg.Title,
		Message:              msg.Message,
	}
}

func firstName(pr *models.PaymentRequest, client *models.Account) string {
	if client != nil && client.FirstName != "" {
		return client.FirstName
	}
	if pr.ClientName != "" {
		return pr.ClientName
	}
	return defaultFirstName
}
