package tracking

import (
	"time"

	"fulfillment/internal/pkg/errs"
)

// ProofOfDelivery captures evidence that the shipment reached the customer.
// Signature and photo are stored elsewhere; this holds their references.
type ProofOfDelivery struct {
	receivedBy   string
	signatureRef string
	photoRef     string
	capturedAt   time.Time
}

// NewProofOfDelivery records delivery proof. At least one of a signature or a
// photo reference is required alongside the receiver's name.
func NewProofOfDelivery(receivedBy, signatureRef, photoRef string, capturedAt time.Time) (ProofOfDelivery, error) {
	if receivedBy == "" {
		return ProofOfDelivery{}, errs.NewValueIsRequiredError("received by")
	}
	if signatureRef == "" && photoRef == "" {
		return ProofOfDelivery{}, errs.NewValueIsRequiredError("signature or photo reference")
	}
	if capturedAt.IsZero() {
		return ProofOfDelivery{}, errs.NewValueIsRequiredError("captured at")
	}

	return ProofOfDelivery{
		receivedBy:   receivedBy,
		signatureRef: signatureRef,
		photoRef:     photoRef,
		capturedAt:   capturedAt,
	}, nil
}

// ReceivedBy returns who accepted the shipment.
func (p ProofOfDelivery) ReceivedBy() string { return p.receivedBy }

// SignatureRef returns the stored signature reference, or empty.
func (p ProofOfDelivery) SignatureRef() string { return p.signatureRef }

// PhotoRef returns the stored photo reference, or empty.
func (p ProofOfDelivery) PhotoRef() string { return p.photoRef }

// CapturedAt returns when the proof was captured.
func (p ProofOfDelivery) CapturedAt() time.Time { return p.capturedAt }
