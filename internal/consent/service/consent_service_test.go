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

package service

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wso2/tracker-consent-service/internal/consent/model"
	"github.com/wso2/tracker-consent-service/internal/consent/store"
	settingsModel "github.com/wso2/tracker-consent-service/internal/settings/model"
	"github.com/wso2/tracker-consent-service/internal/system/database/lock"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

func init() {
	log.Init("DEBUG")
}

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Get(ctx context.Context, subjectID string) (*model.ConsentRecord, error) {
	args := m.Called(ctx, subjectID)
	record, _ := args.Get(0).(*model.ConsentRecord)
	return record, args.Error(1)
}

func (m *MockRecordStore) SetFirstAcceptedIfEmpty(ctx context.Context, subjectID, at string) error {
	return m.Called(ctx, subjectID, at).Error(0)
}

func (m *MockRecordStore) SetMostRecentAccepted(ctx context.Context, subjectID, at string) error {
	return m.Called(ctx, subjectID, at).Error(0)
}

func (m *MockRecordStore) SetRejected(ctx context.Context, subjectID, at string) error {
	return m.Called(ctx, subjectID, at).Error(0)
}

func (m *MockRecordStore) Delete(ctx context.Context, subjectID string) error {
	return m.Called(ctx, subjectID).Error(0)
}

func (m *MockRecordStore) ListSubjectIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockRecordStore) Stats(ctx context.Context) (*model.ConsentStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*model.ConsentStats)
	return stats, args.Error(1)
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newMemoryService(start time.Time) (*ConsentService, *store.MemoryConsentRecordStore, *fixedClock) {
	recordStore := store.NewMemoryConsentRecordStore()
	clock := &fixedClock{now: start}
	svc := NewConsentService(recordStore, lock.NewLocalLock())
	svc.now = clock.Now
	return svc, recordStore, clock
}

func TestAcceptNow_UsesOneInstantForBothFields(t *testing.T) {

	mockStore := new(MockRecordStore)
	svc := NewConsentService(mockStore, lock.NewLocalLock())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	mockStore.On("SetFirstAcceptedIfEmpty", mock.Anything, "user-1", "2024-05-01 10:00:00 UTC").Return(nil)
	mockStore.On("SetMostRecentAccepted", mock.Anything, "user-1", "2024-05-01 10:00:00 UTC").Return(nil)

	require.NoError(t, svc.AcceptNow(context.Background(), "user-1"))
	mockStore.AssertExpectations(t)
}

func TestAcceptNow_StoreFailureStopsBeforeMostRecent(t *testing.T) {

	mockStore := new(MockRecordStore)
	svc := NewConsentService(mockStore, lock.NewLocalLock())
	mockStore.On("SetFirstAcceptedIfEmpty", mock.Anything, "user-1", mock.Anything).Return(errors.New("down"))

	assert.Error(t, svc.AcceptNow(context.Background(), "user-1"))
	mockStore.AssertNotCalled(t, "SetMostRecentAccepted", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptNow_RequiresSubject(t *testing.T) {

	svc, _, _ := newMemoryService(time.Now())
	assert.Error(t, svc.AcceptNow(context.Background(), ""))
	assert.Error(t, svc.RejectNow(context.Background(), ""))
}

// First acceptance is written once; later acceptances only move the most recent one.
func TestAcceptNow_FirstAcceptanceIsImmutable(t *testing.T) {

	ctx := context.Background()
	t1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc, recordStore, clock := newMemoryService(t1)

	require.NoError(t, svc.AcceptNow(ctx, "42"))
	clock.Advance(48 * time.Hour)
	require.NoError(t, svc.AcceptNow(ctx, "42"))

	record, err := recordStore.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 09:00:00 UTC", record.AcceptedAtFirst)
	assert.Equal(t, "2024-01-03 09:00:00 UTC", record.AcceptedAtMostRecent)
}

func TestRejectThenAccept_TracksBothDecisions(t *testing.T) {

	ctx := context.Background()
	svc, _, clock := newMemoryService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, svc.RejectNow(ctx, "user-1"))
	clock.Advance(time.Hour)
	require.NoError(t, svc.AcceptNow(ctx, "user-1"))

	accepted, err := svc.HasAccepted(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, accepted)

	rejected, err := svc.HasRejected(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, rejected)

	when, err := svc.WhenAccepted(ctx, "user-1", "2006-01-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", when)

	whenRejected, err := svc.WhenRejected(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 00:00:00 UTC", whenRejected)
}

func TestWhenAccepted_IgnoresInvalidStoredValues(t *testing.T) {

	ctx := context.Background()
	svc, recordStore, _ := newMemoryService(time.Now())
	require.NoError(t, recordStore.SetMostRecentAccepted(ctx, "old", "2015-06-01 00:00:00 UTC"))
	require.NoError(t, recordStore.SetMostRecentAccepted(ctx, "garbled", "not a date"))

	for _, subjectID := range []string{"old", "garbled", "nobody", ""} {
		accepted, err := svc.HasAccepted(ctx, subjectID)
		require.NoError(t, err)
		assert.False(t, accepted, subjectID)
	}
}

func TestClearAll(t *testing.T) {

	ctx := context.Background()
	svc, _, _ := newMemoryService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, svc.AcceptNow(ctx, "user-1"))
	require.NoError(t, svc.RejectNow(ctx, "user-1"))

	require.NoError(t, svc.ClearAll(ctx, "user-1"))

	status, err := svc.Status(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, status.HasAccepted)
	assert.False(t, status.HasRejected)
	assert.Empty(t, status.FirstAccepted)
}

func TestResetAll(t *testing.T) {

	ctx := context.Background()
	svc, recordStore, _ := newMemoryService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, svc.AcceptNow(ctx, id))
	}

	cleared, err := svc.ResetAll(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, 3, cleared)

	ids, _ := recordStore.ListSubjectIDs(ctx)
	assert.Empty(t, ids)
}

func TestResetAll_RejectsConcurrentReset(t *testing.T) {

	ctx := context.Background()
	resetLock := lock.NewLocalLock()
	acquired, err := resetLock.Acquire(ctx, "tcs-reset-all-consents")
	require.NoError(t, err)
	require.True(t, acquired)

	mockStore := new(MockRecordStore)
	svc := NewConsentService(mockStore, resetLock)

	_, err = svc.ResetAll(ctx, "admin")
	assert.Error(t, err)
	mockStore.AssertNotCalled(t, "ListSubjectIDs", mock.Anything)
}

func TestResetAll_ReleasesLockOnFailure(t *testing.T) {

	ctx := context.Background()
	resetLock := lock.NewLocalLock()
	mockStore := new(MockRecordStore)
	mockStore.On("ListSubjectIDs", mock.Anything).Return([]string{"a"}, nil)
	mockStore.On("Delete", mock.Anything, "a").Return(errors.New("down"))

	svc := NewConsentService(mockStore, resetLock)
	_, err := svc.ResetAll(ctx, "admin")
	assert.Error(t, err)

	acquired, err := resetLock.Acquire(ctx, "tcs-reset-all-consents")
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestStats_DerivesUndecided(t *testing.T) {

	mockStore := new(MockRecordStore)
	mockStore.On("Stats", mock.Anything).Return(&model.ConsentStats{Accepted: 3, Rejected: 2, Decided: 4}, nil)
	svc := NewConsentService(mockStore, lock.NewLocalLock())

	stats, err := svc.Stats(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.Undecided)
	assert.Equal(t, int64(10), stats.Total)
}

func TestAcceptOnNewOrder(t *testing.T) {

	ctx := context.Background()
	svc, _, _ := newMemoryService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	accepted, err := svc.AcceptOnNewOrder(ctx, "customer", settingsModel.Values{})
	require.NoError(t, err)
	assert.False(t, accepted)

	optedIn := settingsModel.Values{settingsModel.OptConsentOnNewOrder: "1"}
	accepted, err = svc.AcceptOnNewOrder(ctx, "", optedIn)
	require.NoError(t, err)
	assert.False(t, accepted)

	accepted, err = svc.AcceptOnNewOrder(ctx, "customer", optedIn)
	require.NoError(t, err)
	assert.True(t, accepted)

	has, _ := svc.HasAccepted(ctx, "customer")
	assert.True(t, has)
}

func TestAcceptOnRegistration(t *testing.T) {

	ctx := context.Background()
	svc, _, _ := newMemoryService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	accepted, err := svc.AcceptOnRegistration(ctx, "new-user", url.Values{"terms": {"0"}})
	require.NoError(t, err)
	assert.False(t, accepted)

	accepted, err = svc.AcceptOnRegistration(ctx, "new-user", url.Values{"terms": {"on"}})
	require.NoError(t, err)
	assert.True(t, accepted)
}
