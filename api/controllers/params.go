package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sharehub-app/sharehub-backend/api/middleware"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
)

func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func parseUUIDField(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func pageParams(r *http.Request) pagination.Params {
	params := pagination.Params{}
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			params.Page = value
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			params.Limit = value
		}
	}
	return params.Normalize()
}

// viewerPoint reads the optional lat/lng query pair, accepting the
// long-form latitude/longitude names as aliases. Both must be present
// and in range for a point to be returned.
func viewerPoint(r *http.Request) (*geo.Point, error) {
	rawLat := coordParam(r, "lat", "latitude")
	rawLng := coordParam(r, "lng", "longitude")
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}
	if rawLat == "" || rawLng == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be provided together")
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lat")
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lng")
	}
	point := geo.Point{Lat: lat, Lng: lng}
	if !point.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinates are out of range")
	}
	return &point, nil
}

func coordParam(r *http.Request, name, alias string) string {
	if raw := strings.TrimSpace(r.URL.Query().Get(name)); raw != "" {
		return raw
	}
	return strings.TrimSpace(r.URL.Query().Get(alias))
}
