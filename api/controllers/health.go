package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/sharehub-app/sharehub-backend/api/responses"
	"github.com/sharehub-app/sharehub-backend/pkg/config"
	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShareHub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores respond.
func HealthReady(cfg *config.Config, db, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		var checkErr error
		if db != nil {
			if err := db.Ping(ctx); err != nil {
				checkErr = multierr.Append(checkErr, err)
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				checkErr = multierr.Append(checkErr, err)
			}
		}

		w.Header().Set("X-ShareHub-Env", cfg.App.Env)
		if checkErr != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, checkErr, "readiness check"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
