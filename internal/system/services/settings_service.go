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

package services

import (
	"fmt"
	"net/http"

	"github.com/wso2/tracker-consent-service/internal/settings/handler"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
	"github.com/wso2/tracker-consent-service/internal/system/security"
)

type SettingsService struct {
	handler *handler.SettingsHandler
	guard   *security.Guard
}

func NewSettingsService(mux *http.ServeMux, apiBasePath string, settingsHandler *handler.SettingsHandler,
	guard *security.Guard) *SettingsService {

	instance := &SettingsService{
		handler: settingsHandler,
		guard:   guard,
	}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *SettingsService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	path := fmt.Sprintf("%s/%s", apiBasePath, constants.SettingsApiPath)
	mux.HandleFunc("GET "+path, s.guard.RequireAdmin(s.handler.GetSettings))
	mux.HandleFunc("PUT "+path, s.guard.RequireAdmin(s.handler.UpdateSettings))
}
