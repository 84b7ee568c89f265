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

	"github.com/wso2/tracker-consent-service/internal/consent/model"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
	"github.com/wso2/tracker-consent-service/internal/system/database/provider"
	"github.com/wso2/tracker-consent-service/internal/system/database/scripts"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

// RecordStore persists the durable consent tier, one record per subject.
// Each setter writes a single field so concurrent writers never clobber each other's fields.
type RecordStore interface {
	Get(ctx context.Context, subjectID string) (*model.ConsentRecord, error)
	SetFirstAcceptedIfEmpty(ctx context.Context, subjectID, at string) error
	SetMostRecentAccepted(ctx context.Context, subjectID, at string) error
	SetRejected(ctx context.Context, subjectID, at string) error
	Delete(ctx context.Context, subjectID string) error
	ListSubjectIDs(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*model.ConsentStats, error)
}

// ConsentRecordStore is the postgres backed RecordStore.
type ConsentRecordStore struct {
	dbProvider provider.DBProviderInterface
}

func NewConsentRecordStore(dbProvider provider.DBProviderInterface) *ConsentRecordStore {
	return &ConsentRecordStore{dbProvider: dbProvider}
}

// Get returns the record for subjectID, or nil when the subject has none.
func (s *ConsentRecordStore) Get(ctx context.Context, subjectID string) (*model.ConsentRecord, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching consent record of: %s", subjectID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_CONSENT_RECORD.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.GetConsentRecord[constants.BackendPostgres], subjectID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to execute query for fetching consent record of: %s", subjectID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_CONSENT_RECORD.WithDescription(errorMsg), err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	row := results[0]
	return &model.ConsentRecord{
		SubjectID:            asString(row["subject_id"]),
		AcceptedAtFirst:      asString(row["accepted_first"]),
		AcceptedAtMostRecent: asString(row["accepted_recent"]),
		RejectedAt:           asString(row["rejected_at"]),
	}, nil
}

func (s *ConsentRecordStore) SetFirstAcceptedIfEmpty(ctx context.Context, subjectID, at string) error {
	return s.exec(ctx, scripts.SetFirstAcceptedIfEmpty[constants.BackendPostgres], errors2.ACCEPT_CONSENT,
		"recording first consent acceptance", subjectID, at)
}

func (s *ConsentRecordStore) SetMostRecentAccepted(ctx context.Context, subjectID, at string) error {
	return s.exec(ctx, scripts.SetMostRecentAccepted[constants.BackendPostgres], errors2.ACCEPT_CONSENT,
		"recording consent acceptance", subjectID, at)
}

func (s *ConsentRecordStore) SetRejected(ctx context.Context, subjectID, at string) error {
	return s.exec(ctx, scripts.SetRejected[constants.BackendPostgres], errors2.REJECT_CONSENT,
		"recording consent rejection", subjectID, at)
}

func (s *ConsentRecordStore) Delete(ctx context.Context, subjectID string) error {
	return s.exec(ctx, scripts.DeleteConsentRecord[constants.BackendPostgres], errors2.CLEAR_CONSENT,
		"clearing consent record", subjectID)
}

func (s *ConsentRecordStore) ListSubjectIDs(ctx context.Context) ([]string, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for listing consent subjects."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.RESET_CONSENTS.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.ListConsentSubjects[constants.BackendPostgres])
	if err != nil {
		errorMsg := "Failed to execute query for listing consent subjects."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.RESET_CONSENTS.WithDescription(errorMsg), err)
	}

	subjectIDs := make([]string, 0, len(results))
	for _, row := range results {
		if id := asString(row["subject_id"]); id != "" {
			subjectIDs = append(subjectIDs, id)
		}
	}
	return subjectIDs, nil
}

// Stats tallies decided rows in process so invalid timestamps are skipped exactly as Get readers skip them.
func (s *ConsentRecordStore) Stats(ctx context.Context) (*model.ConsentStats, error) {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed to get db client for computing consent statistics."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_CONSENT_STATS.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(ctx, scripts.ListDecidedConsentRecords[constants.BackendPostgres])
	if err != nil {
		errorMsg := "Failed to execute query for computing consent statistics."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_CONSENT_STATS.WithDescription(errorMsg), err)
	}

	stats := &model.ConsentStats{}
	for _, row := range results {
		stats.Count(model.ConsentRecord{
			AcceptedAtMostRecent: asString(row["accepted_recent"]),
			RejectedAt:           asString(row["rejected_at"]),
		})
	}
	return stats, nil
}

func (s *ConsentRecordStore) exec(ctx context.Context, query string, code errors2.ErrorMessage, operation string,
	args ...interface{}) error {

	logger := log.GetLogger()
	dbClient, err := s.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for %s.", operation)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(code.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx(ctx)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for %s.", operation)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(code.WithDescription(errorMsg), err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed while %s.", operation)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(code.WithDescription(errorMsg), err)
	}
	return tx.Commit()
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
