package workflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bsm/redislock"
	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
)

const (
	postingLockTTL   = 10 * time.Second
	postingLockRetry = 100 * time.Millisecond
)

// acquirePostingLock serializes stock-affecting documents per shop when the
// POSTING_LOCK flag is on and redis is configured. Shop ids are locked in
// sorted order so two documents touching the same pair of shops cannot
// deadlock each other. The returned release function is always safe to call.
func acquirePostingLock(ctx context.Context, shopIds ...int) (func(), error) {
	release := func() {}
	locker := config.GetRedisLock()
	if locker == nil || !config.PostingLock() {
		return release, nil
	}
	ids := utils.UniqueSlice(shopIds)
	sort.Ints(ids)
	var held []*redislock.Lock
	release = func() {
		for i := len(held) - 1; i >= 0; i-- {
			_ = held[i].Release(context.Background())
		}
	}
	backoff := redislock.LimitRetry(redislock.LinearBackoff(postingLockRetry), 20)
	for _, shopId := range ids {
		lock, err := locker.Obtain(ctx, fmt.Sprintf("posting:shop:%d", shopId), postingLockTTL, &redislock.Options{RetryStrategy: backoff})
		if err != nil {
			release()
			return func() {}, fmt.Errorf("acquiring posting lock for shop %d: %w", shopId, err)
		}
		held = append(held, lock)
	}
	return release, nil
}
