// Package sessioninfo отдаёт личность текущей сессии.
package sessioninfo

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gymhub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/services/access"
)

// ServeHTTP godoc
// @Summary Текущая сессия
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Router /api/v1/session [get]
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := middlewarectx.PrincipalFrom(r.Context())
	if p == nil {
		response.WriteError(w, r, access.ErrSessionMissing)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(p))
}
