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
	"encoding/json"
	"net/http"

	"github.com/wso2/tracker-consent-service/internal/settings/model"
	"github.com/wso2/tracker-consent-service/internal/settings/service"
	"github.com/wso2/tracker-consent-service/internal/system/authn"
	"github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
	"github.com/wso2/tracker-consent-service/internal/system/utils"
)

// SettingsHandler handles GET and PUT operations for site options.
type SettingsHandler struct {
	service service.SettingsServiceInterface
}

// NewSettingsHandler returns a new SettingsHandler instance.
func NewSettingsHandler(settingsService service.SettingsServiceInterface) *SettingsHandler {
	return &SettingsHandler{service: settingsService}
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {

	values, err := h.service.Snapshot(r.Context())
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, model.SettingsAPI{Options: values})
}

// UpdateSettings handles PUT /settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {

	var update model.SettingsUpdateAPI
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&update); err != nil {
		clientError := errors.NewClientError(
			errors.UPDATE_SETTINGS_BAD_REQUEST.WithDescription(utils.HandleDecodeError(err, "settings")),
			http.StatusBadRequest)
		utils.HandleError(w, r, clientError)
		return
	}

	values, err := h.service.UpdateSettings(r.Context(), update.Options)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	initiator := ""
	if principal := authn.PrincipalFromContext(r.Context()); principal != nil {
		initiator = principal.SubjectID
	}
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   initiator,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetType:    log.TargetTypeSettings,
		ActionID:      log.ActionUpdateSettings,
		Data:          update.Options,
	})
	utils.WriteJSONResponse(w, http.StatusOK, model.SettingsAPI{Options: values})
}
