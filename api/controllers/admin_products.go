package controllers

import (
	"net/http"

	"github.com/sanmiadewale/modaville-backend/api/responses"
	"github.com/sanmiadewale/modaville-backend/api/validators"
	productsvc "github.com/sanmiadewale/modaville-backend/internal/products"
	"github.com/sanmiadewale/modaville-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type productImagePayload struct {
	Color     string `json:"color"`
	ColorCode string `json:"color_code"`
	URL       string `json:"url" validate:"required,url"`
}

type createProductRequest struct {
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description"`
	Category    string                `json:"category" validate:"required"`
	Brand       string                `json:"brand"`
	Price       decimal.Decimal       `json:"price" validate:"required"`
	Tags        []string              `json:"tags"`
	IsActive    bool                  `json:"is_active"`
	IsFeatured  bool                  `json:"is_featured"`
	Images      []productImagePayload `json:"images" validate:"dive"`
}

type updateProductRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Category    *string                `json:"category"`
	Brand       *string                `json:"brand"`
	Price       *decimal.Decimal       `json:"price"`
	Tags        *[]string              `json:"tags"`
	IsActive    *bool                  `json:"is_active"`
	IsFeatured  *bool                  `json:"is_featured"`
	Images      *[]productImagePayload `json:"images" validate:"omitempty,dive"`
}

// AdminProductList is the back-office catalog view. Unlike the storefront
// browse, it includes inactive products.
func AdminProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseProductListInput(r, true)
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

func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), productsvc.CreateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Category:    payload.Category,
			Brand:       payload.Brand,
			Price:       payload.Price,
			Tags:        payload.Tags,
			IsActive:    payload.IsActive,
			IsFeatured:  payload.IsFeatured,
			Images:      toImageInputs(payload.Images),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Category:    payload.Category,
			Brand:       payload.Brand,
			Price:       payload.Price,
			Tags:        payload.Tags,
			IsActive:    payload.IsActive,
			IsFeatured:  payload.IsFeatured,
		}
		if payload.Images != nil {
			images := toImageInputs(*payload.Images)
			input.Images = &images
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func AdminProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func toImageInputs(payloads []productImagePayload) []productsvc.ProductImageInput {
	if len(payloads) == 0 {
		return nil
	}
	images := make([]productsvc.ProductImageInput, len(payloads))
	for i, img := range payloads {
		images[i] = productsvc.ProductImageInput{
			Color:     img.Color,
			ColorCode: img.ColorCode,
			URL:       img.URL,
		}
	}
	return images
}
