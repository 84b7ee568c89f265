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

	"github.com/wso2/tracker-consent-service/internal/consent/model"
)

// MemoryConsentRecordStore is a process local RecordStore for the memory backend.
type MemoryConsentRecordStore struct {
	mu      sync.Mutex
	records map[string]model.ConsentRecord
}

func NewMemoryConsentRecordStore() *MemoryConsentRecordStore {
	return &MemoryConsentRecordStore{records: map[string]model.ConsentRecord{}}
}

func (s *MemoryConsentRecordStore) Get(_ context.Context, subjectID string) (*model.ConsentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[subjectID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *MemoryConsentRecordStore) SetFirstAcceptedIfEmpty(_ context.Context, subjectID, at string) error {
	s.update(subjectID, func(r *model.ConsentRecord) {
		if r.AcceptedAtFirst == "" {
			r.AcceptedAtFirst = at
		}
	})
	return nil
}

func (s *MemoryConsentRecordStore) SetMostRecentAccepted(_ context.Context, subjectID, at string) error {
	s.update(subjectID, func(r *model.ConsentRecord) { r.AcceptedAtMostRecent = at })
	return nil
}

func (s *MemoryConsentRecordStore) SetRejected(_ context.Context, subjectID, at string) error {
	s.update(subjectID, func(r *model.ConsentRecord) { r.RejectedAt = at })
	return nil
}

func (s *MemoryConsentRecordStore) Delete(_ context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, subjectID)
	return nil
}

func (s *MemoryConsentRecordStore) ListSubjectIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryConsentRecordStore) Stats(_ context.Context) (*model.ConsentStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &model.ConsentStats{}
	for _, r := range s.records {
		stats.Count(r)
	}
	return stats, nil
}

func (s *MemoryConsentRecordStore) update(subjectID string, apply func(*model.ConsentRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.records[subjectID]
	record.SubjectID = subjectID
	apply(&record)
	s.records[subjectID] = record
}
