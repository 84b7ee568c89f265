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
	"time"

	"github.com/wso2/tracker-consent-service/internal/system/log"
)

// Limiter admits at most a fixed number of events per key within a sliding window.
// Allow checks and records an event atomically; a rejected event is not recorded.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter is a process local sliding window limiter.
type MemoryLimiter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	maxReqs  int
	window   time.Duration
	now      func() time.Time
}

// NewMemoryLimiter creates a limiter allowing maxRequests per window for every key.
func NewMemoryLimiter(maxRequests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		requests: make(map[string][]time.Time),
		maxReqs:  maxRequests,
		window:   window,
		now:      time.Now,
	}
}

func (rl *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	var validRequests []time.Time
	for _, reqTime := range rl.requests[key] {
		if now.Sub(reqTime) < rl.window {
			validRequests = append(validRequests, reqTime)
		}
	}

	if len(validRequests) >= rl.maxReqs {
		rl.requests[key] = validRequests
		log.GetLogger().Warn("Rate limit exceeded", log.String("key", key),
			log.Int("requests", len(validRequests)), log.Int("limit", rl.maxReqs))
		return false, nil
	}

	rl.requests[key] = append(validRequests, now)
	return true, nil
}

// Key builds the limiter key for an action performed by a subject.
func Key(action, subjectID string) string {
	return action + ":" + subjectID
}
