package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// requestWithURLParam seeds a chi route parameter the way the router would.
func requestWithURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}
