package notification_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/notification"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/memory"
)

func TestList_LimiteYOrden(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for i := 0; i < 60; i++ {
		require.NoError(t, store.Repos().Notifications.Append(ctx, &entity.Notification{Actor: "Rita", Item: fmt.Sprintf("item-%d", i), Quantity: 1}))
	}
	uc := notification.NewUseCase(store.Repos().Notifications)

	list, err := uc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, notification.DefaultLimit)
	assert.Equal(t, "item-59", list[0].Item)

	list, err = uc.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestList_FalloDeStore(t *testing.T) {
	store := memory.NewStore()
	store.FailOn("notifications.list", errors.New("timeout"))
	_, err := notification.NewUseCase(store.Repos().Notifications).List(context.Background(), 10)
	assert.ErrorIs(t, err, domain.ErrStore)
}
