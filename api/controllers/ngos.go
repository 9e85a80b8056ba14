package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sharehub-app/sharehub-backend/api/responses"
	"github.com/sharehub-app/sharehub-backend/api/validators"
	"github.com/sharehub-app/sharehub-backend/internal/ngos"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/logger"
)

type registerNGORequest struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Description   string   `json:"description" validate:"required,max=2000"`
	Mission       *string  `json:"mission,omitempty" validate:"omitempty,max=1000"`
	Website       *string  `json:"website,omitempty" validate:"omitempty,url"`
	ContactEmail  string   `json:"contact_email" validate:"required,email"`
	ContactPhone  *string  `json:"contact_phone,omitempty" validate:"omitempty,max=32"`
	Address       *string  `json:"address,omitempty" validate:"omitempty,max=255"`
	City          *string  `json:"city,omitempty" validate:"omitempty,max=80"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	AcceptedKinds []string `json:"accepted_kinds,omitempty"`
}

type updateNGORequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=120"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Mission       *string  `json:"mission,omitempty" validate:"omitempty,max=1000"`
	Website       *string  `json:"website,omitempty" validate:"omitempty,url"`
	ContactEmail  *string  `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone  *string  `json:"contact_phone,omitempty" validate:"omitempty,max=32"`
	Address       *string  `json:"address,omitempty" validate:"omitempty,max=255"`
	City          *string  `json:"city,omitempty" validate:"omitempty,max=80"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	ClearCoords   bool     `json:"clear_coords,omitempty"`
	AcceptedKinds []string `json:"accepted_kinds,omitempty"`
}

type verifyNGORequest struct {
	Verified bool `json:"verified"`
}

func RegisterNGO(svc ngos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ngo service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req registerNGORequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Register(r.Context(), userID, ngos.RegisterInput{
			Name:          req.Name,
			Description:   req.Description,
			Mission:       req.Mission,
			Website:       req.Website,
			ContactEmail:  req.ContactEmail,
			ContactPhone:  req.ContactPhone,
			Address:       req.Address,
			City:          req.City,
			Latitude:      req.Latitude,
			Longitude:     req.Longitude,
			AcceptedKinds: req.AcceptedKinds,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func UpdateNGO(svc ngos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ngo service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ngoID, err := uuidParam(r, "ngoID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateNGORequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Update(r.Context(), userID, ngoID, ngos.UpdateInput{
			Name:          req.Name,
			Description:   req.Description,
			Mission:       req.Mission,
			Website:       req.Website,
			ContactEmail:  req.ContactEmail,
			ContactPhone:  req.ContactPhone,
			Address:       req.Address,
			City:          req.City,
			Latitude:      req.Latitude,
			Longitude:     req.Longitude,
			ClearCoords:   req.ClearCoords,
			AcceptedKinds: req.AcceptedKinds,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func GetNGO(svc ngos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ngo service unavailable"))
			return
		}
		ngoID, err := uuidParam(r, "ngoID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		viewer, err := viewerPoint(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Get(r.Context(), ngoID, viewer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// GetOwnNGO returns the organization registered by the caller.
func GetOwnNGO(svc ngos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ngo service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetByOwner(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ListNGOs(svc ngos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ngo service unavailable"))
			return
		}
		viewer, err := viewerPoint(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := ngos.ListInput{
			AcceptedKind: strings.TrimSpace(r.URL.Query().Get("accepted_kind")),
			City:         strings.TrimSpace(r.URL.Query().Get("city")),
			Viewer:       viewer,
			Pagination:   pageParams(r),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("verified_only")); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid verified_only value"))
				return
			}
			input.VerifiedOnly = value
		}
		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// VerifyNGO toggles the admin verification flag.
func VerifyNGO(svc ngos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ngo service unavailable"))
			return
		}
		ngoID, err := uuidParam(r, "ngoID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req verifyNGORequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.SetVerified(r.Context(), ngoID, req.Verified)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// RequestDonation lets a verified organization express interest in a
// donation listing.
func RequestDonation(svc ngos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ngo service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuidParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RequestDonation(r.Context(), userID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "requested"})
	}
}
