package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/gymhub/internal/services/access"
	"github.com/magabrotheeeer/gymhub/internal/services/admin"
	"github.com/magabrotheeeer/gymhub/internal/services/auth"
	"github.com/magabrotheeeer/gymhub/internal/services/membership"
	"github.com/magabrotheeeer/gymhub/internal/services/trial"
	"github.com/magabrotheeeer/gymhub/internal/session"
	"github.com/magabrotheeeer/gymhub/internal/storage/repository"
)

// MsgStoreUnavailable — ответ на любую ошибку хранилища или сети.
const MsgStoreUnavailable = "store unavailable"

// FromError сопоставляет доменную ошибку HTTP-статусу и тексту ответа.
// Всё нераспознанное считается недоступностью хранилища.
func FromError(err error) (int, string) {
	switch {
	case errors.Is(err, access.ErrSessionMissing), errors.Is(err, session.ErrSessionMissing):
		return http.StatusUnauthorized, access.ErrSessionMissing.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, access.ErrRoleMismatch):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, trial.ErrTrialExpired):
		return http.StatusForbidden, trial.ErrTrialExpired.Error()
	case errors.Is(err, trial.ErrTrialKeyNotFound):
		return http.StatusNotFound, trial.ErrTrialKeyNotFound.Error()
	case errors.Is(err, trial.ErrTrialKeyAlreadyUsed):
		return http.StatusConflict, trial.ErrTrialKeyAlreadyUsed.Error()
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, auth.ErrEmailTaken.Error()
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, "already exists"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, membership.ErrInvalidPayment):
		return http.StatusBadRequest, membership.ErrInvalidPayment.Error()
	case errors.Is(err, admin.ErrInvalidCount):
		return http.StatusBadRequest, admin.ErrInvalidCount.Error()
	default:
		return http.StatusServiceUnavailable, MsgStoreUnavailable
	}
}

// WriteError пишет ответ для err по таблице FromError.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := FromError(err)
	Render(w, r, code, Error(msg))
}
