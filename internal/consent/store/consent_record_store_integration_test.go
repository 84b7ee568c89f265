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

//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/tracker-consent-service/test/setup"
)

func TestConsentRecordStore_Postgres(t *testing.T) {

	ctx := context.Background()
	testDB, err := setup.SetupTestDB(ctx)
	require.NoError(t, err)
	defer func() { _ = testDB.Teardown(ctx) }()

	store := NewConsentRecordStore(staticProvider{db: testDB.DB})

	t.Run("first acceptance is kept", func(t *testing.T) {
		require.NoError(t, store.SetFirstAcceptedIfEmpty(ctx, "user-1", "2024-01-01 10:00:00 UTC"))
		require.NoError(t, store.SetMostRecentAccepted(ctx, "user-1", "2024-01-01 10:00:00 UTC"))
		require.NoError(t, store.SetFirstAcceptedIfEmpty(ctx, "user-1", "2024-06-01 10:00:00 UTC"))
		require.NoError(t, store.SetMostRecentAccepted(ctx, "user-1", "2024-06-01 10:00:00 UTC"))

		record, err := store.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01 10:00:00 UTC", record.AcceptedAtFirst)
		assert.Equal(t, "2024-06-01 10:00:00 UTC", record.AcceptedAtMostRecent)
	})

	t.Run("stats and delete", func(t *testing.T) {
		require.NoError(t, store.SetRejected(ctx, "user-2", "2024-02-01 10:00:00 UTC"))

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Accepted)
		assert.Equal(t, int64(1), stats.Rejected)
		assert.Equal(t, int64(2), stats.Decided)

		ids, err := store.ListSubjectIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"user-1", "user-2"}, ids)

		require.NoError(t, store.Delete(ctx, "user-2"))
		record, err := store.Get(ctx, "user-2")
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}
