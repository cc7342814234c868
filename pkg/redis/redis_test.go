package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		SetClient(nil)
	})
	return mr
}

func TestCacheSummary_RoundTrip(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, CacheSummary(ctx, "all", `{"total":3}`, time.Minute))
	assert.True(t, mr.Exists("inventory:summary:all"))

	payload, found, err := GetCachedSummary(ctx, "all")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"total":3}`, payload)
}

func TestGetCachedSummary_Miss(t *testing.T) {
	setupMiniredis(t)

	payload, found, err := GetCachedSummary(context.Background(), "variant:42")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, payload)
}

func TestCacheSummary_HonorsTTL(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, CacheSummary(ctx, "all", "{}", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, found, err := GetCachedSummary(ctx, "all")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidateSummaries_DropsOnlySummaryKeys(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, CacheSummary(ctx, "all", "{}", time.Minute))
	require.NoError(t, CacheSummary(ctx, "variant:7", "{}", time.Minute))
	require.NoError(t, mr.Set("unrelated:key", "keep"))

	require.NoError(t, InvalidateSummaries(ctx))

	assert.False(t, mr.Exists("inventory:summary:all"))
	assert.False(t, mr.Exists("inventory:summary:variant:7"))
	assert.True(t, mr.Exists("unrelated:key"))
}

func TestNilClient_Degrades(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	assert.NoError(t, CacheSummary(ctx, "all", "{}", time.Minute))

	_, found, err := GetCachedSummary(ctx, "all")
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, InvalidateSummaries(ctx))
}
