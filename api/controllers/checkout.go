package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sanmiadewale/modaville-backend/api/responses"
	"github.com/sanmiadewale/modaville-backend/api/validators"
	checkoutsvc "github.com/sanmiadewale/modaville-backend/internal/checkout"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/sanmiadewale/modaville-backend/pkg/logger"
	"github.com/sanmiadewale/modaville-backend/pkg/metrics"
	"github.com/sanmiadewale/modaville-backend/pkg/types"
)

type beginCheckoutRequest struct {
	Email           string                `json:"email" validate:"required,email"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
}

type confirmCheckoutRequest struct {
	Reference string `json:"reference" validate:"required"`
}

// CheckoutBegin snapshots the cart and opens a hosted payment page.
func CheckoutBegin(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload beginCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Begin(r.Context(), checkoutsvc.BeginInput{
			UserID:          userID,
			Email:           payload.Email,
			ShippingAddress: payload.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CheckoutConfirm reconciles payment after the buyer returns from the
// gateway. A webhook racing this call yields a replayed result, not an error.
func CheckoutConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload confirmCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Confirm(r.Context(), checkoutsvc.ConfirmInput{
			UserID:    userID,
			Reference: payload.Reference,
			Trigger:   metrics.TriggerCallback,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func CheckoutAbandon(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Abandon(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "abandoned"})
	}
}

// CheckoutConfirmation resolves a reference the storefront landed with,
// reconciling on demand when neither trigger has persisted the order yet.
func CheckoutConfirmation(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reference := strings.TrimSpace(chi.URLParam(r, "reference"))
		if reference == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "reference is required"))
			return
		}

		result, err := svc.Lookup(r.Context(), userID, reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
