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

package store

import (
	"context"
	"sync"
)

// MemoryOptionStore keeps options in process.
type MemoryOptionStore struct {
	mu      sync.RWMutex
	options map[string]string
}

func NewMemoryOptionStore() *MemoryOptionStore {
	return &MemoryOptionStore{options: map[string]string{}}
}

func (s *MemoryOptionStore) GetOptions(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.options))
	for k, v := range s.options {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryOptionStore) UpsertOptions(_ context.Context, options map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range options {
		s.options[k] = v
	}
	return nil
}
