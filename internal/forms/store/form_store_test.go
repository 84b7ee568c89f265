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
	"github.com/wso2/tracker-consent-service/internal/forms/model"
	"github.com/wso2/tracker-consent-service/internal/system/database/client"
)

type staticProvider struct {
	db *sql.DB
}

func (p staticProvider) GetDBClient() (client.DBClientInterface, error) {
	return client.NewSharedDBClient(p.db), nil
}

func TestPostgresFormStore_GetForm(t *testing.T) {

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT form_id, title, body, mail_body FROM forms WHERE form_id").
		WithArgs("42").
		WillReturnRows(sqlmock.NewRows([]string{"form_id", "title", "body", "mail_body"}).
			AddRow("42", "Contact", "[text your-name]\n[submit \"Send\"]", "From: [your-name]"))

	form, err := NewPostgresFormStore(staticProvider{db: db}).GetForm(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.Equal(t, "Contact", form.Title)
	assert.Equal(t, "From: [your-name]", form.MailBody)
}

func TestPostgresFormStore_GetForm_Missing(t *testing.T) {

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT form_id").WithArgs("7").
		WillReturnRows(sqlmock.NewRows([]string{"form_id", "title", "body", "mail_body"}))

	form, err := NewPostgresFormStore(staticProvider{db: db}).GetForm(context.Background(), "7")
	require.NoError(t, err)
	assert.Nil(t, form)
}

func TestPostgresFormStore_UpdateForm_RollsBack(t *testing.T) {

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE forms SET").WithArgs("42", "Contact", "body", "mail").
		WillReturnError(errors.New("read only"))
	mock.ExpectRollback()

	err = NewPostgresFormStore(staticProvider{db: db}).UpdateForm(context.Background(),
		model.Form{ID: "42", Title: "Contact", Body: "body", MailBody: "mail"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryFormStore(t *testing.T) {

	store := NewMemoryFormStore(model.Form{ID: "b"}, model.Form{ID: "a"})
	require.NoError(t, store.UpdateForm(context.Background(), model.Form{ID: "a", Title: "Updated"}))

	forms, err := store.ListForms(context.Background())
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "a", forms[0].ID)
	assert.Equal(t, "Updated", forms[0].Title)

	missing, err := store.GetForm(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
