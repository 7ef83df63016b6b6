package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// FeedbackProcessor defines the contract for the feedback collaborator,
// which receives customer feedback captured at confirmation.
type FeedbackProcessor interface {
	// Process hands captured feedback over for analysis.
	Process(ctx context.Context, confirmationID kernel.UUID, feedback string, tenant kernel.Tenant) error
}
