package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"paystack-donation-api/ledger"
	"paystack-donation-api/models"
	"paystack-donation-api/pending"
	"paystack-donation-api/services/payment"
	"paystack-donation-api/services/payment/paystack"
	"paystack-donation-api/utils"
)

const (
	sessionName = "donation_session"

	successFragment = "/#success"
	cancelFragment  = "/#cancel"

	msgVerified           = "Payment verified successfully"
	msgVerificationFailed = "Payment verification failed"
	msgInitFailed         = "Payment initialization failed"

	completionTimeout = 15 * time.Second
)

// DonationNotifier is satisfied by email.Notifier.
type DonationNotifier interface {
	NotifyDonation(ctx context.Context, donation models.Donation)
}

type DonationHandler struct {
	gateway     payment.Gateway
	pending     pending.Store
	recorder    ledger.Recorder
	notifier    DonationNotifier
	sessions    sessions.Store
	publicKey   string
	callbackURL string
	now         func() time.Time
}

type DonationHandlerConfig struct {
	PublicKey   string
	CallbackURL string
}

func NewDonationHandler(gw payment.Gateway, ps pending.Store, rec ledger.Recorder, n DonationNotifier, ss sessions.Store, cfg DonationHandlerConfig) (*DonationHandler, error) {
	if gw == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if ps == nil {
		return nil, fmt.Errorf("pending store is required")
	}
	if rec == nil {
		return nil, fmt.Errorf("donation recorder is required")
	}
	if n == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if ss == nil {
		return nil, fmt.Errorf("session store is required")
	}

	return &DonationHandler{
		gateway:     gw,
		pending:     ps,
		recorder:    rec,
		notifier:    n,
		sessions:    ss,
		publicKey:   cfg.PublicKey,
		callbackURL: cfg.CallbackURL,
		now:         time.Now,
	}, nil
}

// Pay handles POST /pay with form fields name, email and amount (whole naira).
func (h *DonationHandler) Pay(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	if err := r.ParseForm(); err != nil {
		log.Printf("[RequestID: %s] Invalid form body: %v", requestID, err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))

	amount, err := models.ParseNaira(r.PostFormValue("amount"))
	if err != nil {
		log.Printf("[RequestID: %s] Rejected amount %q: %v", requestID, r.PostFormValue("amount"), err)
		utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid amount: please enter a whole number of naira")
		return
	}

	minimum := h.gateway.MinimumAmount()
	if amount < minimum {
		log.Printf("[RequestID: %s] Amount %s below minimum %s", requestID, amount, minimum)
		utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Minimum donation is NGN %s", minimum))
		return
	}

	reference := utils.GenerateReference()
	log.Printf("[RequestID: %s] Starting donation %s for NGN %s", requestID, reference, amount)

	ctx := r.Context()
	if err := h.pending.Save(ctx, models.PendingDonation{
		Reference: reference,
		Name:      name,
		Email:     email,
		Amount:    amount,
		CreatedAt: h.now(),
	}); err != nil {
		// verification falls back to gateway-reported details
		log.Printf("[RequestID: %s] Warning: failed to store pending donation: %v", requestID, err)
	}

	data, err := h.gateway.Initialize(ctx, payment.InitializeParams{
		Email:       email,
		Amount:      amount,
		Reference:   reference,
		CallbackURL: h.callbackURL,
		Metadata:    map[string]string{"donor_name": name},
	})
	if err != nil {
		h.discardPending(ctx, requestID, reference)

		var gwErr *payment.GatewayError
		switch {
		case errors.Is(err, payment.ErrAmountBelowMinimum):
			utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Minimum donation is NGN %s", minimum))
		case errors.As(err, &gwErr):
			log.Printf("[RequestID: %s] Gateway rejected initialization: %v", requestID, err)
			message := gwErr.Message
			if message == "" {
				message = msgInitFailed
			}
			utils.SendErrorResponse(w, http.StatusBadRequest, message)
		default:
			log.Printf("[RequestID: %s] Initialization error: %v", requestID, err)
			utils.SendErrorResponse(w, http.StatusInternalServerError, msgInitFailed)
		}
		return
	}

	log.Printf("[RequestID: %s] Donation %s initialized", requestID, reference)
	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Authorization URL created",
		Data:    data,
	})
}

// VerifyReference handles GET /verify/{reference}. Donor details are taken from
// the pending donation, never from the query string.
func (h *DonationHandler) VerifyReference(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	reference := strings.TrimSpace(mux.Vars(r)["reference"])

	if err := h.completeDonation(r.Context(), requestID, reference); err != nil {
		var gwErr *payment.GatewayError
		switch {
		case errors.Is(err, payment.ErrMissingReference), errors.As(err, &gwErr):
			utils.SendErrorResponse(w, http.StatusBadRequest, msgVerificationFailed)
		default:
			utils.SendErrorResponse(w, http.StatusInternalServerError, msgVerificationFailed)
		}
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: msgVerified,
	})
}

// VerifyCallback handles the browser redirect from the gateway:
// GET /verify-payment?reference=... (Paystack also sends trxref).
func (h *DonationHandler) VerifyCallback(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	query := r.URL.Query()
	reference := strings.TrimSpace(query.Get("reference"))
	if reference == "" {
		reference = strings.TrimSpace(query.Get("trxref"))
	}

	target, flash := successFragment, "Thank you! Your donation was received."
	if err := h.completeDonation(r.Context(), requestID, reference); err != nil {
		target, flash = cancelFragment, "Your donation could not be confirmed."
	}

	h.addFlash(w, r, requestID, flash)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *DonationHandler) completeDonation(ctx context.Context, requestID, reference string) error {
	if reference == "" {
		log.Printf("[RequestID: %s] Verification requested without reference", requestID)
		return payment.ErrMissingReference
	}

	tx, err := h.gateway.Verify(ctx, reference)
	if err != nil {
		log.Printf("[RequestID: %s] Verification of %s failed: %v", requestID, reference, err)
		return err
	}

	// The gateway has confirmed payment; a client hanging up must not leave the
	// reference marked verified without its ledger row.
	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	first, err := h.pending.MarkVerified(ctx, reference)
	if err != nil {
		log.Printf("[RequestID: %s] Warning: could not mark %s verified: %v", requestID, reference, err)
		first = true
	}
	if !first {
		log.Printf("[RequestID: %s] Donation %s already recorded", requestID, reference)
		return nil
	}

	pend, err := h.pending.Get(ctx, reference)
	if err != nil {
		if !errors.Is(err, pending.ErrNotFound) {
			log.Printf("[RequestID: %s] Warning: failed to load pending donation %s: %v", requestID, reference, err)
		}
		pend = nil
	}

	donation := h.buildDonation(reference, tx, pend)

	if err := h.recorder.Append(ctx, donation); err != nil {
		log.Printf("[RequestID: %s] ERROR: failed to record donation %s: %v", requestID, reference, err)
	}

	h.notifier.NotifyDonation(ctx, donation)

	if pend != nil {
		h.discardPending(ctx, requestID, reference)
	}

	log.Printf("[RequestID: %s] Donation %s verified: NGN %s from %s", requestID, reference, donation.Amount, donation.Email)
	return nil
}

// buildDonation prefers the amount the gateway actually charged.
func (h *DonationHandler) buildDonation(reference string, tx *paystack.Transaction, pend *models.PendingDonation) models.Donation {
	donation := models.Donation{
		Timestamp: h.now(),
		Name:      models.UnknownDonor,
		Email:     models.UnknownDonor,
		Reference: reference,
		Status:    models.DonationStatusSuccess,
	}

	if pend != nil {
		donation.Name = models.DonorNameOrUnknown(pend.Name)
		if pend.Email != "" {
			donation.Email = pend.Email
		}
		donation.Amount = pend.Amount
	}

	if tx != nil {
		if donation.Email == models.UnknownDonor && tx.Customer.Email != "" {
			donation.Email = tx.Customer.Email
		}
		if tx.Amount > 0 {
			donation.Amount = models.Kobo(tx.Amount).Naira()
		}
	}

	return donation
}

func (h *DonationHandler) discardPending(ctx context.Context, requestID, reference string) {
	if err := h.pending.Delete(ctx, reference); err != nil {
		log.Printf("[RequestID: %s] Warning: failed to delete pending donation %s: %v", requestID, reference, err)
	}
}

func (h *DonationHandler) addFlash(w http.ResponseWriter, r *http.Request, requestID, message string) {
	session, err := h.sessions.Get(r, sessionName)
	if err != nil {
		// a stale or tampered cookie still yields a fresh session
		log.Printf("[RequestID: %s] Discarding unreadable session: %v", requestID, err)
	}
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		log.Printf("[RequestID: %s] Failed to save session: %v", requestID, err)
	}
}
