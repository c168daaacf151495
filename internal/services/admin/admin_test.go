package admin

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/renewal"
	"github.com/magabrotheeeer/gymhub/internal/storage/repository"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) InsertTrialKeys(ctx context.Context, keys []string) ([]*models.TrialKey, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrialKey), args.Error(1)
}

func (m *MockRepository) ListTrialKeys(ctx context.Context) ([]*models.TrialKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrialKey), args.Error(1)
}

func (m *MockRepository) ListGyms(ctx context.Context) ([]*models.Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Gym), args.Error(1)
}

func (m *MockRepository) RenewGym(ctx context.Context, gymID, planID string, nextDue func(*time.Time, int) time.Time) (*models.Gym, error) {
	args := m.Called(ctx, gymID, planID, nextDue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gym), args.Error(1)
}

type MockGymCache struct{ mock.Mock }

func (m *MockGymCache) InvalidateGym(ctx context.Context, gymID string) {
	m.Called(ctx, gymID)
}

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newService(repo Repository, c GymCache) *Service {
	s := NewService(repo, c, sl.NewDiscard())
	s.now = func() time.Time { return now }
	return s
}

func TestRandomKey(t *testing.T) {
	for range 50 {
		k, err := randomKey()
		require.NoError(t, err)
		assert.Len(t, k, keyLength)
		for _, r := range k {
			assert.Contains(t, keyAlphabet, string(r))
		}
	}
}

func TestService_IssueTrialKeys(t *testing.T) {
	t.Run("issues requested count", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("InsertTrialKeys", mock.Anything, mock.MatchedBy(func(keys []string) bool {
			return len(keys) == 3
		})).Return([]*models.TrialKey{{Key: "A"}, {Key: "B"}, {Key: "C"}}, nil).Once()

		keys, err := newService(repo, new(MockGymCache)).IssueTrialKeys(context.Background(), 3)
		require.NoError(t, err)
		assert.Len(t, keys, 3)
		repo.AssertExpectations(t)
	})

	t.Run("retries on collision", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("InsertTrialKeys", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("storage.InsertTrialKeys: %w", repository.ErrAlreadyExists)).Once()
		repo.On("InsertTrialKeys", mock.Anything, mock.Anything).
			Return([]*models.TrialKey{{Key: "A"}}, nil).Once()

		keys, err := newService(repo, new(MockGymCache)).IssueTrialKeys(context.Background(), 1)
		require.NoError(t, err)
		assert.Len(t, keys, 1)
		repo.AssertExpectations(t)
	})

	t.Run("invalid count", func(t *testing.T) {
		svc := newService(new(MockRepository), new(MockGymCache))
		_, err := svc.IssueTrialKeys(context.Background(), 0)
		assert.ErrorIs(t, err, ErrInvalidCount)
		_, err = svc.IssueTrialKeys(context.Background(), maxIssueBatch+1)
		assert.ErrorIs(t, err, ErrInvalidCount)
	})

	t.Run("duplicate generator output is skipped", func(t *testing.T) {
		svc := newService(new(MockRepository), new(MockGymCache))
		seq := []string{"AAAA1111", "AAAA1111", "BBBB2222"}
		i := 0
		svc.newKey = func() (string, error) {
			k := seq[i]
			i++
			return k, nil
		}
		keys, err := svc.generate(2)
		require.NoError(t, err)
		assert.Equal(t, []string{"AAAA1111", "BBBB2222"}, keys)
	})
}

func TestService_TrialKeysState(t *testing.T) {
	activated := now.Add(-time.Hour)
	expires := now.Add(time.Hour)
	expired := now.Add(-time.Minute)
	repo := new(MockRepository)
	repo.On("ListTrialKeys", mock.Anything).Return([]*models.TrialKey{
		{Key: "NEW"},
		{Key: "LIVE", ActivatedAt: &activated, ExpiresAt: &expires},
		{Key: "OLD", ActivatedAt: &activated, ExpiresAt: &expired},
	}, nil).Once()

	views, err := newService(repo, new(MockGymCache)).TrialKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TrialKeyUnissued, views[0].State)
	assert.Equal(t, models.TrialKeyActivated, views[1].State)
	assert.Equal(t, models.TrialKeyExpired, views[2].State)
}

func TestService_Gyms(t *testing.T) {
	expired := now.Add(-time.Minute)
	repo := new(MockRepository)
	repo.On("ListGyms", mock.Anything).Return([]*models.Gym{{ID: "g1", IsTrial: true, ExpiresAt: &expired}}, nil).Once()

	views, err := newService(repo, new(MockGymCache)).Gyms(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, renewal.StatusExpired, views[0].Renewal.Status)
}

func TestService_RenewGym(t *testing.T) {
	t.Run("renews and invalidates cache", func(t *testing.T) {
		repo := new(MockRepository)
		gc := new(MockGymCache)
		var due time.Time
		repo.On("RenewGym", mock.Anything, "g1", "monthly", mock.Anything).Run(func(args mock.Arguments) {
			due = args.Get(3).(func(*time.Time, int) time.Time)(nil, 1)
		}).Return(&models.Gym{ID: "g1"}, nil).Once()
		gc.On("InvalidateGym", mock.Anything, "g1").Once()

		gym, err := newService(repo, gc).RenewGym(context.Background(), "g1", "monthly")
		require.NoError(t, err)
		assert.Equal(t, "g1", gym.ID)
		assert.Equal(t, time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC), due)
		repo.AssertExpectations(t)
		gc.AssertExpectations(t)
	})

	t.Run("missing gym keeps cache", func(t *testing.T) {
		repo := new(MockRepository)
		gc := new(MockGymCache)
		repo.On("RenewGym", mock.Anything, "nope", "monthly", mock.Anything).
			Return(nil, fmt.Errorf("storage.RenewGym: %w", repository.ErrNotFound)).Once()

		_, err := newService(repo, gc).RenewGym(context.Background(), "nope", "monthly")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		gc.AssertNotCalled(t, "InvalidateGym", mock.Anything, mock.Anything)
	})
}
