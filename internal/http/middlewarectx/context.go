// Package middlewarectx содержит HTTP middleware gymhub: загрузку сессии,
// проверку доступа к панелям, пробного периода, ролей и ограничение частоты.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// PrincipalKey — ключ личности текущей сессии.
	PrincipalKey Key = "principal"
	// SessionIDKey — ключ идентификатора сессии.
	SessionIDKey Key = "session_id"
)

// WithPrincipal кладёт сессию в контекст.
func WithPrincipal(ctx context.Context, sid string, p *models.Principal) context.Context {
	ctx = context.WithValue(ctx, PrincipalKey, p)
	return context.WithValue(ctx, SessionIDKey, sid)
}

// PrincipalFrom достаёт личность из контекста. Без сессии возвращает nil.
func PrincipalFrom(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(PrincipalKey).(*models.Principal)
	return p
}

// SessionIDFrom достаёт идентификатор сессии из контекста.
func SessionIDFrom(ctx context.Context) string {
	sid, _ := ctx.Value(SessionIDKey).(string)
	return sid
}
