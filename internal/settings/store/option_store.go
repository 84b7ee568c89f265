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

	"github.com/wso2/tracker-consent-service/internal/system/constants"
	"github.com/wso2/tracker-consent-service/internal/system/database/provider"
	"github.com/wso2/tracker-consent-service/internal/system/database/scripts"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

// OptionStoreInterface persists site options as key/value rows.
type OptionStoreInterface interface {
	GetOptions(ctx context.Context) (map[string]string, error)
	UpsertOptions(ctx context.Context, options map[string]string) error
}

// OptionStore is the postgres backed option store.
type OptionStore struct {
	dbProvider provider.DBProviderInterface
}

func NewOptionStore(dbProvider provider.DBProviderInterface) *OptionStore {
	return &OptionStore{dbProvider: dbProvider}
}

func (s *OptionStore) GetOptions(ctx context.Context) (map[string]string, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for fetching site options."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_SETTINGS.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetOptions[constants.BackendPostgres])
	if err != nil {
		errorMsg := "Failed to execute query for fetching site options."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_SETTINGS.WithDescription(errorMsg), err)
	}

	options := make(map[string]string, len(results))
	for _, row := range results {
		key, ok := row["option_key"].(string)
		if !ok {
			continue
		}
		options[key] = asString(row["option_value"])
	}
	return options, nil
}

func (s *OptionStore) UpsertOptions(ctx context.Context, options map[string]string) error {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for updating site options."
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.UPDATE_SETTINGS.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		errorMsg := "Failed to begin transaction for updating site options."
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.UPDATE_SETTINGS.WithDescription(errorMsg), err)
	}

	query := scripts.UpsertOption[constants.BackendPostgres]
	for key, value := range options {
		if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
			_ = tx.Rollback()
			errorMsg := fmt.Sprintf("Failed to update site option: %s", key)
			logger.Debug(errorMsg, log.Error(err))
			return errors2.NewServerError(errors2.UPDATE_SETTINGS.WithDescription(errorMsg), err)
		}
	}
	return tx.Commit()
}

// asString normalises text columns, which lib/pq may return as []byte.
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
