package renewal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

type MockGyms struct {
	mock.Mock
}

func (m *MockGyms) Gym(ctx context.Context, gymID string) (*models.Gym, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gym), args.Error(1)
}

type MockPlans struct {
	mock.Mock
}

func (m *MockPlans) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func TestEvaluate(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		due  *time.Time
		want Status
	}{
		{name: "no due date", now: due, due: nil, want: StatusActive},
		{name: "before due", now: due.Add(-time.Millisecond), due: &due, want: StatusActive},
		{name: "at due", now: due, due: &due, want: StatusExpired},
		{name: "after due", now: due.Add(time.Hour), due: &due, want: StatusExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.now, tt.due))
		})
	}
}

func TestForGym(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	trial := ForGym(&models.Gym{ID: "t", IsTrial: true, ExpiresAt: &past, NextDueDate: &future}, now)
	assert.Equal(t, StatusExpired, trial.Status, "trial gyms use expires_at")
	assert.Equal(t, "/renew/t", trial.RenewPath)

	paid := ForGym(&models.Gym{ID: "p", ExpiresAt: &past, NextDueDate: &future}, now)
	assert.Equal(t, StatusActive, paid.Status, "paid gyms use next_due_date")
	assert.Equal(t, &future, paid.DueAt)
}

func TestService_Offer(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	due := now.Add(-24 * time.Hour)
	gym := &models.Gym{ID: "g1", NextDueDate: &due,
		Contact: models.Contact{Email: "owner@gym.test", Phone: "+100"}}
	plans := []*models.Plan{{ID: "monthly", DurationMonths: 1}}

	gyms := new(MockGyms)
	gyms.On("Gym", ctx, "g1").Return(gym, nil)
	catalogue := new(MockPlans)
	catalogue.On("ListPlans", ctx).Return(plans, nil).Once()

	s := NewService(gyms, catalogue)
	s.now = func() time.Time { return now }

	offer, err := s.Offer(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, offer.State.Status)
	assert.Equal(t, plans, offer.Plans)

	raw, err := json.Marshal(offer)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "owner@gym.test")
	assert.NotContains(t, string(raw), "+100")

	st, err := s.GymStatus(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, st.Status)

	gyms.AssertExpectations(t)
	catalogue.AssertExpectations(t)
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	gyms := new(MockGyms)
	gyms.On("Gym", ctx, "missing").Return(nil, errors.New("not found"))
	gyms.On("Gym", ctx, "g1").Return(&models.Gym{ID: "g1"}, nil)
	catalogue := new(MockPlans)
	catalogue.On("ListPlans", ctx).Return(nil, errors.New("db down"))

	s := NewService(gyms, catalogue)
	_, err := s.GymStatus(ctx, "missing")
	assert.Error(t, err)
	_, err = s.Offer(ctx, "g1")
	assert.ErrorContains(t, err, "db down")
}
