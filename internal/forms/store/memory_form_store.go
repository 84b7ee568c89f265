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
	"sort"
	"sync"

	"github.com/wso2/tracker-consent-service/internal/forms/model"
)

// MemoryFormStore holds forms in process. Used with the memory backend and in tests.
type MemoryFormStore struct {
	mu    sync.RWMutex
	forms map[string]model.Form
}

func NewMemoryFormStore(forms ...model.Form) *MemoryFormStore {
	store := &MemoryFormStore{forms: make(map[string]model.Form, len(forms))}
	for _, form := range forms {
		store.forms[form.ID] = form
	}
	return store
}

func (s *MemoryFormStore) GetForm(_ context.Context, formID string) (*model.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	form, ok := s.forms[formID]
	if !ok {
		return nil, nil
	}
	return &form, nil
}

func (s *MemoryFormStore) ListForms(_ context.Context) ([]model.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	forms := make([]model.Form, 0, len(s.forms))
	for _, form := range s.forms {
		forms = append(forms, form)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	return forms, nil
}

func (s *MemoryFormStore) UpdateForm(_ context.Context, form model.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[form.ID] = form
	return nil
}
