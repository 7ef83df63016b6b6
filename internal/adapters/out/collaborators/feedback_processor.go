package collaborators

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// HTTPFeedbackProcessor implements FeedbackProcessor against the feedback
// analysis service.
type HTTPFeedbackProcessor struct {
	client httpClient
}

// NewHTTPFeedbackProcessor creates a feedback client for the service at baseURL.
func NewHTTPFeedbackProcessor(baseURL string, timeout time.Duration) (*HTTPFeedbackProcessor, error) {
	client, err := newHTTPClient(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &HTTPFeedbackProcessor{client: client}, nil
}

type feedbackRequest struct {
	ConfirmationID string `json:"confirmation_id"`
	Feedback       string `json:"feedback"`
	Tenant         string `json:"tenant"`
}

// Process hands captured feedback over for analysis.
func (p *HTTPFeedbackProcessor) Process(
	ctx context.Context, confirmationID kernel.UUID, feedback string, tenant kernel.Tenant,
) error {
	if err := confirmationID.Validate(); err != nil {
		return err
	}
	if feedback == "" {
		return errs.NewValueIsRequiredError("feedback")
	}
	if err := tenant.Validate(); err != nil {
		return err
	}

	request := feedbackRequest{
		ConfirmationID: confirmationID.String(),
		Feedback:       feedback,
		Tenant:         tenant.String(),
	}

	if err := p.client.postJSON(ctx, "/feedback", request, nil); err != nil {
		return fmt.Errorf("process feedback: %w", err)
	}
	return nil
}
