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
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/tracker-consent-service/internal/system/database/client"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

func init() {
	log.Init("DEBUG")
}

type staticProvider struct {
	db *sql.DB
}

func (p staticProvider) GetDBClient() (client.DBClientInterface, error) {
	return client.NewSharedDBClient(p.db), nil
}

func TestCheckReadiness_AllPass(t *testing.T) {

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(`SELECT 1`).WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	svc := NewHealthCheckService(map[string]ReadinessCheck{
		"postgres": PostgresCheck(staticProvider{db: db}),
		"redis":    RedisCheck(rdb),
	})
	assert.NoError(t, svc.CheckReadiness(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckReadiness_ReportsFailingBackend(t *testing.T) {

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(`SELECT 1`).WillReturnError(errors.New("connection reset"))

	svc := NewHealthCheckService(map[string]ReadinessCheck{
		"postgres": PostgresCheck(staticProvider{db: db}),
	})
	err = svc.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres connectivity check failed")
}

func TestCheckReadiness_RedisDown(t *testing.T) {

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	err := NewHealthCheckService(map[string]ReadinessCheck{"redis": RedisCheck(rdb)}).CheckReadiness(context.Background())
	assert.Error(t, err)
}
