package localstore

import (
	"context"
	"testing"

	"app/internal/domain/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupStore(t *testing.T) (*RedisLocalCartStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisLocalCartStore(client, "session-1"), mr
}

func TestRedisLocalCartStore_MissingKey_IsEmptyCart(t *testing.T) {
	store, _ := setupStore(t)

	lines := store.GetCart(context.Background())
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestRedisLocalCartStore_SaveAndGet(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	in := []model.CartLine{
		{ID: "guest-1", ProductID: 1, Name: "LP Template", Price: 100, Quantity: 2},
	}
	assert.NoError(t, store.SaveCart(ctx, in))

	out := store.GetCart(ctx)
	assert.Equal(t, in, out)
}

func TestRedisLocalCartStore_CorruptPayload_IsEmptyCart(t *testing.T) {
	store, mr := setupStore(t)

	//壊れたJSONは空カート扱い（エラーにしない）
	mr.Set("cart:session-1", "{not json")
	assert.Empty(t, store.GetCart(context.Background()))
}

func TestRedisLocalCartStore_Clear(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	assert.NoError(t, store.SaveCart(ctx, []model.CartLine{{ID: "guest-1", ProductID: 1, Quantity: 1}}))
	assert.NoError(t, store.Clear(ctx))

	assert.False(t, mr.Exists("cart:session-1"))
	assert.Empty(t, store.GetCart(ctx))
}

func TestRedisLocalCartStore_RedisDown_GetIsEmpty_SaveErrors(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	mr.Close()

	//読めない場合も空カート、書き込みはエラーを返す（呼び出し側がログする）
	assert.Empty(t, store.GetCart(ctx))
	assert.Error(t, store.SaveCart(ctx, []model.CartLine{{ID: "guest-1", ProductID: 1, Quantity: 1}}))
}

func TestRedisLocalCartStore_SessionID(t *testing.T) {
	store, _ := setupStore(t)
	assert.Equal(t, "session-1", store.SessionID())
}
