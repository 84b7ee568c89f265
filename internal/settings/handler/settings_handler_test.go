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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wso2/tracker-consent-service/internal/settings/model"
)

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Snapshot(ctx context.Context) (model.Values, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Values), args.Error(1)
}

func (m *MockSettingsService) UpdateSettings(ctx context.Context, options map[string]string) (model.Values, error) {
	args := m.Called(ctx, options)
	return args.Get(0).(model.Values), args.Error(1)
}

func TestGetSettings(t *testing.T) {

	svc := new(MockSettingsService)
	svc.On("Snapshot", mock.Anything).Return(model.Values{model.OptSiteName: "Shop"}, nil)

	rec := httptest.NewRecorder()
	NewSettingsHandler(svc).GetSettings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body model.SettingsAPI
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Shop", body.Options[model.OptSiteName])
}

func TestUpdateSettings_BadPayload(t *testing.T) {

	svc := new(MockSettingsService)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(`{"opts":{}}`))
	NewSettingsHandler(svc).UpdateSettings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown field")
	svc.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything)
}

func TestUpdateSettings(t *testing.T) {

	svc := new(MockSettingsService)
	update := map[string]string{model.OptConsentDuration: "90"}
	svc.On("UpdateSettings", mock.Anything, update).Return(model.Values{model.OptConsentDuration: "90"}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(`{"options":{"mwg_consent_duration":"90"}}`))
	NewSettingsHandler(svc).UpdateSettings(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
