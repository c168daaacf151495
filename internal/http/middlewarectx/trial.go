package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/trial"
)

// ExpiryChecker проверяет срок пробного периода зала.
type ExpiryChecker interface {
	CheckExpiry(ctx context.Context, gymID string) (trial.Expiry, error)
}

// TrialGate отвечает 403 со ссылкой на продление, если пробный период зала
// пользователя истёк. Данные зала не меняются. Суперадмин и запросы без
// зала проходят без проверки.
func TrialGate(log *slog.Logger, checker ExpiryChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.TrialGate"

			p := PrincipalFrom(r.Context())
			if p == nil || p.Role == models.RoleSuperAdmin || p.GymID == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("gym_id", p.GymID),
			)

			exp, err := checker.CheckExpiry(r.Context(), p.GymID)
			if err != nil {
				log.Error("failed to check trial expiry", sl.Err(err))
				response.WriteError(w, r, err)
				return
			}
			if exp.Expired() {
				log.Info("trial expired, access denied")
				response.Render(w, r, http.StatusForbidden, response.ErrorWithData(trial.ErrTrialExpired.Error(), map[string]string{
					"gym_id":    exp.GymID,
					"renew_url": exp.RenewURL,
				}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
