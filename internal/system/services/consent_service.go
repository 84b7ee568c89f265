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

	"github.com/wso2/tracker-consent-service/internal/consent/handler"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
	"github.com/wso2/tracker-consent-service/internal/system/security"
)

// ConsentService registers the consent query and write routes.
type ConsentService struct {
	handler *handler.ConsentHandler
	guard   *security.Guard
}

func NewConsentService(mux *http.ServeMux, apiBasePath string, consentHandler *handler.ConsentHandler,
	guard *security.Guard) *ConsentService {

	instance := &ConsentService{
		handler: consentHandler,
		guard:   guard,
	}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *ConsentService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	base := fmt.Sprintf("%s/%s", apiBasePath, constants.ConsentApiPath)
	mux.HandleFunc(fmt.Sprintf("POST %s/accept", base), s.guard.RequireSubject(s.handler.Accept))
	mux.HandleFunc(fmt.Sprintf("POST %s/reject", base), s.guard.RequireSubject(s.handler.Reject))
	mux.HandleFunc(fmt.Sprintf("GET %s/status", base), s.guard.RequireSubject(s.handler.GetStatus))
	mux.HandleFunc(fmt.Sprintf("POST %s/reset-all", base), s.guard.RequireAdmin(s.handler.ResetAll))
	mux.HandleFunc(fmt.Sprintf("POST %s/forms/install-checkbox", base), s.guard.RequireAdmin(s.handler.InstallConsentCheckbox))
	mux.HandleFunc(fmt.Sprintf("GET %s/stats", base), s.guard.RequireAdmin(s.handler.GetStats))
}
