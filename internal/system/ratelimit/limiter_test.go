/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_SlidingWindow(t *testing.T) {

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewMemoryLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := rl.Allow(ctx, "acceptgdpr:user-1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
		now = now.Add(time.Second)
	}
	ok, _ := rl.Allow(ctx, "acceptgdpr:user-1")
	assert.False(t, ok, "sixth request inside the window")

	ok, _ = rl.Allow(ctx, "acceptgdpr:user-2")
	assert.True(t, ok, "other subjects have their own window")

	// The first request falls out of the window 60s after it was made.
	now = time.Date(2025, 1, 1, 0, 1, 0, 0, time.UTC)
	ok, _ = rl.Allow(ctx, "acceptgdpr:user-1")
	assert.True(t, ok)
}

func TestMemoryLimiter_ConcurrentCallersNeverExceedLimit(t *testing.T) {

	rl := NewMemoryLimiter(5, time.Minute)
	var admitted int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow(context.Background(), "k"); ok {
				atomic.AddInt32(&admitted, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(5), admitted)
}

func TestRedisLimiter_SlidingWindow(t *testing.T) {

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRedisLimiter(client, 5, time.Minute)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := rl.Allow(ctx, Key("rejectgdpr", "user-1"))
		require.NoError(t, err)
		assert.True(t, ok)
		now = now.Add(time.Second)
	}
	ok, err := rl.Allow(ctx, Key("rejectgdpr", "user-1"))
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, err = rl.Allow(ctx, Key("rejectgdpr", "user-1"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "acceptgdpr:42", Key("acceptgdpr", "42"))
}
