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

package provider

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/wso2/tracker-consent-service/internal/system/config"
	"github.com/wso2/tracker-consent-service/internal/system/database/client"
)

// DBConfig represents the local database configuration.
type DBConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct{}

var (
	pool     *sql.DB
	poolLock sync.Mutex
)

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// SetTestDB makes every client handed out by the provider use db.
func SetTestDB(db *sql.DB) {

	poolLock.Lock()
	defer poolLock.Unlock()
	pool = db
}

// GetDBClient returns a client over the process wide connection pool, opening it on first use.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	poolLock.Lock()
	defer poolLock.Unlock()

	if pool != nil {
		return client.NewSharedDBClient(pool), nil
	}

	dbConfig := getDBConfig(config.GetTCSRuntime().Config)
	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool = db
	return client.NewSharedDBClient(pool), nil
}

// ClosePool closes the shared connection pool on shutdown.
func ClosePool() error {

	poolLock.Lock()
	defer poolLock.Unlock()
	if pool == nil {
		return nil
	}
	err := pool.Close()
	pool = nil
	return err
}

// getDBConfig returns the database configuration based on the provided data source.
func getDBConfig(cfg config.Config) DBConfig {

	var dbConfig DBConfig

	dbConfig.driverName = "postgres"
	dbConfig.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DataSource.Hostname, cfg.DataSource.Port, cfg.DataSource.Username, cfg.DataSource.Password,
		cfg.DataSource.Name, cfg.DataSource.SSLMode)

	return dbConfig
}
