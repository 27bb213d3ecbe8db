package controllers

import (
	"net/http"
	"strings"

	"github.com/sanmiadewale/modaville-backend/api/responses"
	"github.com/sanmiadewale/modaville-backend/api/validators"
	usersvc "github.com/sanmiadewale/modaville-backend/internal/users"
	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/sanmiadewale/modaville-backend/pkg/logger"
)

type setUserActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type setUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func AdminUserList(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := usersvc.UserListFilters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if role := strings.TrimSpace(r.URL.Query().Get("role")); role != "" {
			filters.Role = &role
		}
		if active, parseErr := validators.ParseQueryBool(r, "active"); parseErr != nil {
			responses.WriteError(r.Context(), logg, w, parseErr)
			return
		} else if active != nil {
			filters.Active = active
		}

		result, err := svc.ListUsers(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func AdminUserDetail(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParseUUIDParam(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AdminUserSetActive deactivates or reinstates an account. Deactivated
// users fail login until reactivated.
func AdminUserSetActive(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParseUUIDParam(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setUserActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.SetUserActive(r.Context(), userID, *payload.Active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

func AdminUserSetRole(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParseUUIDParam(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setUserRoleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		user, err := svc.SetUserRole(r.Context(), userID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}
