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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

const redisKeyPrefix = "tcs:ratelimit:"

// slidingWindowScript trims expired events, then records the new one only when under the limit.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// RedisLimiter is a sliding window limiter shared by every server instance using the same Redis.
type RedisLimiter struct {
	client  redis.UniversalClient
	maxReqs int
	window  time.Duration
	now     func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		maxReqs: maxRequests,
		window:  window,
		now:     time.Now,
	}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {

	nowMillis := rl.now().UnixMilli()
	allowed, err := slidingWindowScript.Run(ctx, rl.client, []string{redisKeyPrefix + key},
		nowMillis, rl.window.Milliseconds(), rl.maxReqs, fmt.Sprintf("%d-%s", nowMillis, uuid.New().String())).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script failed for key %s: %w", key, err)
	}
	if allowed == 0 {
		log.GetLogger().Warn("Rate limit exceeded", log.String("key", key), log.Int("limit", rl.maxReqs))
		return false, nil
	}
	return true, nil
}
