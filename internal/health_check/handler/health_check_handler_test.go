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

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wso2/tracker-consent-service/internal/health_check/service"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

func init() {
	log.Init("DEBUG")
}

func TestHandleHealth(t *testing.T) {

	rec := httptest.NewRecorder()
	NewHealthHandler(service.NewHealthCheckService(nil)).HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHandleReadiness(t *testing.T) {

	ready := service.NewHealthCheckService(map[string]service.ReadinessCheck{
		"mongodb": func(context.Context) error { return nil },
	})
	rec := httptest.NewRecorder()
	NewHealthHandler(ready).HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())

	down := service.NewHealthCheckService(map[string]service.ReadinessCheck{
		"mongodb": func(context.Context) error { return errors.New("no reachable servers") },
	})
	rec = httptest.NewRecorder()
	NewHealthHandler(down).HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "mongodb connectivity check failed: no reachable servers")
}
