package renewal

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gymhub/internal/cache"
	"github.com/magabrotheeeer/gymhub/internal/config"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
)

func TestCachedPlans_ListPlans(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	plans := []*models.Plan{{ID: "monthly", Name: "Monthly", DurationMonths: 1, Price: 1500, Benefits: []string{"Locker"}}}
	store := new(MockPlans)
	store.On("ListPlans", ctx).Return(plans, nil).Once()

	cp := NewCachedPlans(store, c, sl.NewDiscard())
	for range 3 {
		got, err := cp.ListPlans(ctx)
		require.NoError(t, err)
		assert.Equal(t, plans, got)
	}
	store.AssertExpectations(t)
	assert.True(t, mr.Exists("plans:all"))
}
