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

package managers

import (
	"net/http"

	blockerHandler "github.com/wso2/tracker-consent-service/internal/blocker/handler"
	consentHandler "github.com/wso2/tracker-consent-service/internal/consent/handler"
	healthHandler "github.com/wso2/tracker-consent-service/internal/health_check/handler"
	settingsHandler "github.com/wso2/tracker-consent-service/internal/settings/handler"
	"github.com/wso2/tracker-consent-service/internal/system/security"
	"github.com/wso2/tracker-consent-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

// Handlers carries the wired request handlers of every service.
type Handlers struct {
	Guard    *security.Guard
	Consent  *consentHandler.ConsentHandler
	Blocker  *blockerHandler.BlockerHandler
	Settings *settingsHandler.SettingsHandler
	Health   *healthHandler.HealthHandler
}

type ServiceManager struct {
	mux      *http.ServeMux
	handlers Handlers
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, handlers Handlers) ServiceManagerInterface {

	return &ServiceManager{
		mux:      mux,
		handlers: handlers,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	services.NewConsentService(sm.mux, apiBasePath, sm.handlers.Consent, sm.handlers.Guard)
	services.NewScriptGateService(sm.mux, apiBasePath, sm.handlers.Blocker, sm.handlers.Guard)
	services.NewSettingsService(sm.mux, apiBasePath, sm.handlers.Settings, sm.handlers.Guard)
	services.NewHealthService(sm.mux, sm.handlers.Health)
	return nil
}
