package live

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gymhub/internal/cache"
	"github.com/magabrotheeeer/gymhub/internal/config"
	"github.com/magabrotheeeer/gymhub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/live"
	"github.com/magabrotheeeer/gymhub/internal/storage/repository"
)

type UsersMock struct {
	mock.Mock
}

func (m *UsersMock) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	args := m.Called(ctx, handle)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func setup(t *testing.T) (*live.Service, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return live.NewService(c, sl.NewDiscard()), mr
}

func withSession(p *models.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middlewarectx.WithPrincipal(r.Context(), "sid", p)))
		})
	}
}

func TestHandler_Follow(t *testing.T) {
	svc, _ := setup(t)
	users := new(UsersMock)
	users.On("GetUserByHandle", mock.Anything, "anna").Return(&models.User{UID: "u1"}, nil)
	users.On("GetUserByHandle", mock.Anything, "ghost").Return(nil, fmt.Errorf("storage: %w", repository.ErrNotFound))

	r := chi.NewRouter()
	r.Post("/community/{handle}/follow-requests", New(sl.NewDiscard(), svc, users).Follow)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/community/anna/follow-requests", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending":1`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/community/ghost/follow-requests", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_StreamWithoutHandle(t *testing.T) {
	svc, _ := setup(t)
	r := chi.NewRouter()
	r.With(withSession(&models.Principal{Role: models.RoleOwner})).
		Get("/live/follow-requests", New(sl.NewDiscard(), svc, new(UsersMock)).Stream)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live/follow-requests", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_Stream(t *testing.T) {
	svc, mr := setup(t)
	h := New(sl.NewDiscard(), svc, new(UsersMock))

	r := chi.NewRouter()
	r.With(withSession(&models.Principal{Role: models.RoleMember, CommunityHandle: "anna"})).
		Get("/live/follow-requests", h.Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/live/follow-requests", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if strings.HasPrefix(sc.Text(), "data: ") {
				lines <- strings.TrimPrefix(sc.Text(), "data: ")
			}
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l := <-lines:
			return l
		case <-time.After(2 * time.Second):
			t.Fatal("no event received")
			return ""
		}
	}

	assert.Equal(t, "0", next())
	_, err = svc.FollowRequested(context.Background(), "anna")
	require.NoError(t, err)
	assert.Equal(t, "1", next())

	cancel()
	assert.Eventually(t, func() bool {
		return len(mr.PubSubChannels(live.Key("anna"))) == 0
	}, 2*time.Second, 20*time.Millisecond)
}
