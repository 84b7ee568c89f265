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
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/tracker-consent-service/internal/system/database/client"
)

type staticProvider struct {
	db *sql.DB
}

func (p staticProvider) GetDBClient() (client.DBClientInterface, error) {
	return client.NewSharedDBClient(p.db), nil
}

type failingProvider struct{}

func (failingProvider) GetDBClient() (client.DBClientInterface, error) {
	return nil, errors.New("connection refused")
}

func newMockStore(t *testing.T) (*ConsentRecordStore, sqlmock.Sqlmock) {

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewConsentRecordStore(staticProvider{db: db}), mock
}

func TestConsentRecordStore_Get(t *testing.T) {

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT subject_id, accepted_first, accepted_recent, rejected_at FROM consent_records").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "accepted_first", "accepted_recent", "rejected_at"}).
			AddRow("user-1", "2024-01-01 10:00:00 UTC", []byte("2024-02-01 10:00:00 UTC"), nil))

	record, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "2024-01-01 10:00:00 UTC", record.AcceptedAtFirst)
	assert.Equal(t, "2024-02-01 10:00:00 UTC", record.AcceptedAtMostRecent)
	assert.Empty(t, record.RejectedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentRecordStore_Get_Missing(t *testing.T) {

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT subject_id").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "accepted_first", "accepted_recent", "rejected_at"}))

	record, err := store.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestConsentRecordStore_SetFirstAcceptedIfEmpty(t *testing.T) {

	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("NULLIF\\(consent_records.accepted_first, ''\\)").
		WithArgs("user-1", "2024-01-01 10:00:00 UTC").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.SetFirstAcceptedIfEmpty(context.Background(), "user-1", "2024-01-01 10:00:00 UTC")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentRecordStore_SetRejected_RollsBackOnFailure(t *testing.T) {

	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO consent_records").
		WithArgs("user-1", "2024-01-01 10:00:00 UTC").
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := store.SetRejected(context.Background(), "user-1", "2024-01-01 10:00:00 UTC")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentRecordStore_ListSubjectIDs(t *testing.T) {

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT subject_id FROM consent_records").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id"}).AddRow("a").AddRow("b"))

	ids, err := store.ListSubjectIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestConsentRecordStore_Stats(t *testing.T) {

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT accepted_recent, rejected_at FROM consent_records").
		WillReturnRows(sqlmock.NewRows([]string{"accepted_recent", "rejected_at"}).
			AddRow("2024-01-01 10:00:00 UTC", nil).
			AddRow("2024-02-01 10:00:00 UTC", "2024-03-01 10:00:00 UTC").
			AddRow(nil, "2023-06-01 10:00:00 UTC").
			AddRow("2015-01-01 10:00:00 UTC", nil).
			AddRow("not a date", "2016-05-05 10:00:00 UTC"))

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Accepted)
	assert.Equal(t, int64(2), stats.Rejected)
	assert.Equal(t, int64(3), stats.Decided)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentRecordStore_ClientFailure(t *testing.T) {

	store := NewConsentRecordStore(failingProvider{})
	_, err := store.Get(context.Background(), "user-1")
	assert.Error(t, err)
	assert.Error(t, store.Delete(context.Background(), "user-1"))
}
