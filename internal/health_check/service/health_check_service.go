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
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/wso2/tracker-consent-service/internal/system/database/provider"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessCheck probes one backing service.
type ReadinessCheck func(ctx context.Context) error

// HealthCheckService runs the readiness checks of the configured backends.
type HealthCheckService struct {
	checks map[string]ReadinessCheck
}

func NewHealthCheckService(checks map[string]ReadinessCheck) *HealthCheckService {
	return &HealthCheckService{checks: checks}
}

// CheckReadiness runs every check in name order and stops at the first failure.
func (h *HealthCheckService) CheckReadiness(ctx context.Context) error {

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			log.GetLogger().Warn("Readiness check failed", log.String("check", name), log.Error(err))
			return fmt.Errorf("%s connectivity check failed: %v", name, err)
		}
	}
	return nil
}

// PostgresCheck runs a lightweight query through the shared pool.
func PostgresCheck(dbProvider provider.DBProviderInterface) ReadinessCheck {
	return func(ctx context.Context) error {
		dbClient, err := dbProvider.GetDBClient()
		if err != nil {
			return fmt.Errorf("failed to create database client: %v", err)
		}
		defer dbClient.Close()

		_, err = dbClient.ExecuteQuery(ctx, "SELECT 1;")
		return err
	}
}

func MongoCheck(client *mongo.Client) ReadinessCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

func RedisCheck(client redis.UniversalClient) ReadinessCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
