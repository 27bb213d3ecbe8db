package webhooks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sanmiadewale/modaville-backend/internal/checkout"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/sanmiadewale/modaville-backend/pkg/metrics"
	"github.com/sanmiadewale/modaville-backend/pkg/paystack"
)

// reconciler is the slice of the checkout service the webhook intake drives.
type reconciler interface {
	Confirm(ctx context.Context, input checkout.ConfirmInput) (*checkout.ConfirmResult, error)
}

// PaystackService routes verified gateway events into payment reconciliation.
type PaystackService struct {
	checkout reconciler
	logg     zerolog.Logger
}

// NewPaystackService constructs the webhook event service.
func NewPaystackService(reconciler reconciler, logg zerolog.Logger) (*PaystackService, error) {
	if reconciler == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	return &PaystackService{checkout: reconciler, logg: logg}, nil
}

// HandleEvent dispatches one decoded webhook delivery. Unknown event types
// are acknowledged and dropped; Paystack retries anything we fail.
func (s *PaystackService) HandleEvent(ctx context.Context, event *paystack.WebhookEvent) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "empty webhook event")
	}

	switch event.Event {
	case paystack.EventChargeSuccess:
		return s.handleChargeSuccess(ctx, event.Data)
	default:
		s.logg.Debug().Str("event", event.Event).Msg("ignoring unhandled webhook event")
		return nil
	}
}

func (s *PaystackService) handleChargeSuccess(ctx context.Context, data paystack.WebhookEventData) error {
	if data.Reference == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "webhook event missing reference")
	}
	if data.Metadata == nil || data.Metadata.UserID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "webhook event missing user metadata")
	}
	userID, err := uuid.Parse(data.Metadata.UserID)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "webhook event carries malformed user id")
	}

	result, err := s.checkout.Confirm(ctx, checkout.ConfirmInput{
		UserID:    userID,
		Reference: data.Reference,
		Trigger:   metrics.TriggerWebhook,
	})
	if err != nil {
		return err
	}

	s.logg.Info().
		Str("reference", data.Reference).
		Str("order_id", result.Order.ID.String()).
		Bool("replayed", result.Replayed).
		Msg("charge.success reconciled")
	return nil
}
