package controllers

import (
	"net/http"
	"time"

	"github.com/sanmiadewale/modaville-backend/api/responses"
	"github.com/sanmiadewale/modaville-backend/api/validators"
	analyticsvc "github.com/sanmiadewale/modaville-backend/internal/analytics"
	"github.com/sanmiadewale/modaville-backend/pkg/logger"
)

const (
	defaultRevenueWindowDays = 30
	maxRevenueWindowDays     = 365

	defaultTopProducts = 10
	maxTopProducts     = 50
)

func AnalyticsSummary(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// AnalyticsRevenue buckets paid-order revenue by calendar day over a
// trailing window.
func AnalyticsRevenue(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", defaultRevenueWindowDays, 1, maxRevenueWindowDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		since := time.Now().UTC().AddDate(0, 0, -days)
		buckets, err := svc.RevenueByDay(r.Context(), since)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"buckets": buckets})
	}
}

func AnalyticsTopProducts(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", defaultTopProducts, 1, maxTopProducts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.TopProducts(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}
