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

package lock

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/wso2/tracker-consent-service/internal/system/database/provider"
	"github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

// DistributedLock guards work that must not run concurrently across server instances.
type DistributedLock interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// PostgresLock implements DistributedLock using PostgreSQL advisory locks.
type PostgresLock struct {
	dbProvider provider.DBProviderInterface
}

func NewPostgresLock(dbProvider provider.DBProviderInterface) *PostgresLock {
	return &PostgresLock{dbProvider: dbProvider}
}

// generateLockKey hashes key into the bigint space used by pg_advisory_lock.
func generateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	if _, err := h.Write([]byte(key)); err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors.NewServerError(errors.LOCK_KEY_GEN.WithDescription(errorMsg), err)
	}
	return int64(h.Sum64()), nil
}

func (l *PostgresLock) Acquire(ctx context.Context, key string) (bool, error) {

	logger := log.GetLogger()
	dbClient, err := l.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed during DB client creation for advisory lock acquiring."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.DB_CLIENT_INIT.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	lockID, err := generateLockKey(key)
	if err != nil {
		return false, err
	}
	logger.Debug(fmt.Sprintf("Generated lock Id: %d", lockID))

	results, err := dbClient.ExecuteQuery(ctx, "SELECT pg_try_advisory_lock($1)", lockID)
	if err != nil {
		errorMsg := "Failed to execute pg_try_advisory_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.LOCK_ACQUIRE.WithDescription(errorMsg), err)
	}

	acquired, ok := boolResult(results, "pg_try_advisory_lock")
	if !ok {
		errorMsg := fmt.Sprintf("pg_try_advisory_lock returned no results or invalid field for lock Id %d", lockID)
		logger.Error(errorMsg)
		return false, errors.NewServerError(errors.LOCK_RESULT_INVALID.WithDescription(errorMsg), nil)
	}
	return acquired, nil
}

func (l *PostgresLock) Release(ctx context.Context, key string) error {

	logger := log.GetLogger()
	dbClient, err := l.dbProvider.GetDBClient()
	if err != nil {
		errorMsg := "Failed during DB client creation for advisory lock releasing."
		logger.Debug(errorMsg, log.Error(err))
		return errors.NewServerError(errors.DB_CLIENT_INIT.WithDescription(errorMsg), err)
	}
	defer dbClient.Close()

	lockID, err := generateLockKey(key)
	if err != nil {
		return err
	}

	results, err := dbClient.ExecuteQuery(ctx, "SELECT pg_advisory_unlock($1)", lockID)
	if err != nil {
		errorMsg := "pg_advisory_unlock failed"
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.LOCK_RELEASE.WithDescription(errorMsg), err)
	}
	if released, ok := boolResult(results, "pg_advisory_unlock"); !ok || !released {
		errorMsg := fmt.Sprintf("Advisory lock %d was not held by this session", lockID)
		logger.Error(errorMsg)
		return errors.NewServerError(errors.LOCK_RELEASE.WithDescription(errorMsg), nil)
	}
	logger.Debug(fmt.Sprintf("Advisory lock released for lock id: %d", lockID))
	return nil
}

func boolResult(results []map[string]interface{}, column string) (bool, bool) {

	if len(results) == 0 {
		return false, false
	}
	value, ok := results[0][column].(bool)
	return value, ok
}

// LocalLock is a process local DistributedLock for deployments without postgres.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocalLock() *LocalLock {
	return &LocalLock{held: map[string]bool{}}
}

func (l *LocalLock) Acquire(_ context.Context, key string) (bool, error) {

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *LocalLock) Release(_ context.Context, key string) error {

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
