// Package request декодирует и валидирует JSON-тела запросов.
package request

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
)

var validate = validator.New()

// Decode читает JSON из тела r в dst и проверяет теги validate.
// При ошибке пишет ответ 400 или 422 и возвращает false.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Render(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			response.Render(w, r, http.StatusBadRequest, response.Error("invalid request body"))
			return false
		}
		log.Info("validation failed", sl.Err(err))
		response.Render(w, r, http.StatusUnprocessableEntity, response.ValidationError(verrs))
		return false
	}
	return true
}
