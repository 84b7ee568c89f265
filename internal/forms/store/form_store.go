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
	"fmt"

	"github.com/wso2/tracker-consent-service/internal/forms/model"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
	"github.com/wso2/tracker-consent-service/internal/system/database/provider"
	"github.com/wso2/tracker-consent-service/internal/system/database/scripts"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

// FormStore gives access to the contact forms the consent checkbox is installed into.
type FormStore interface {
	GetForm(ctx context.Context, formID string) (*model.Form, error)
	ListForms(ctx context.Context) ([]model.Form, error)
	UpdateForm(ctx context.Context, form model.Form) error
}

// PostgresFormStore reads and writes the forms table.
type PostgresFormStore struct {
	dbProvider provider.DBProviderInterface
}

func NewPostgresFormStore(dbProvider provider.DBProviderInterface) *PostgresFormStore {
	return &PostgresFormStore{dbProvider: dbProvider}
}

// GetForm returns nil when no form has the given id.
func (s *PostgresFormStore) GetForm(ctx context.Context, formID string) (*model.Form, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching form: %s", formID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetForm[constants.BackendPostgres], formID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to execute query for fetching form: %s", formID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	form := mapToForm(results[0])
	return &form, nil
}

func (s *PostgresFormStore) ListForms(ctx context.Context) ([]model.Form, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for listing forms."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.ListForms[constants.BackendPostgres])
	if err != nil {
		errorMsg := "Failed to execute query for listing forms."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}

	forms := make([]model.Form, 0, len(results))
	for _, row := range results {
		forms = append(forms, mapToForm(row))
	}
	return forms, nil
}

func (s *PostgresFormStore) UpdateForm(ctx context.Context, form model.Form) error {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for updating form: %s", form.ID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for updating form: %s", form.ID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}

	_, err = tx.ExecContext(ctx, scripts.UpdateForm[constants.BackendPostgres], form.ID, form.Title, form.Body, form.MailBody)
	if err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to update form: %s", form.ID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}
	return tx.Commit()
}

func mapToForm(row map[string]interface{}) model.Form {
	return model.Form{
		ID:       asString(row["form_id"]),
		Title:    asString(row["title"]),
		Body:     asString(row["body"]),
		MailBody: asString(row["mail_body"]),
	}
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
