package controllers

import (
	"net/http"
	"strings"

	"github.com/sanmiadewale/modaville-backend/api/responses"
	"github.com/sanmiadewale/modaville-backend/api/validators"
	productsvc "github.com/sanmiadewale/modaville-backend/internal/products"
	"github.com/sanmiadewale/modaville-backend/pkg/logger"
)

// ProductList serves the public storefront browse endpoint. Inactive
// products never appear here.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseProductListInput(r, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func parseProductListInput(r *http.Request, includeInactive bool) (productsvc.ListProductsInput, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return productsvc.ListProductsInput{}, err
	}

	filters := productsvc.ProductListFilters{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		filters.Category = &category
	}
	if brand := strings.TrimSpace(r.URL.Query().Get("brand")); brand != "" {
		filters.Brand = &brand
	}
	if featured, err := validators.ParseQueryBool(r, "featured"); err != nil {
		return productsvc.ListProductsInput{}, err
	} else if featured != nil {
		filters.Featured = featured
	}
	if priceMin, err := validators.ParseQueryDecimal(r, "price_min"); err != nil {
		return productsvc.ListProductsInput{}, err
	} else if priceMin != nil {
		filters.PriceMin = priceMin
	}
	if priceMax, err := validators.ParseQueryDecimal(r, "price_max"); err != nil {
		return productsvc.ListProductsInput{}, err
	} else if priceMax != nil {
		filters.PriceMax = priceMax
	}

	return productsvc.ListProductsInput{
		Filters:         filters,
		Pagination:      params,
		IncludeInactive: includeInactive,
	}, nil
}
