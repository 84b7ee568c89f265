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

	"github.com/wso2/tracker-consent-service/internal/blocker/model"
	"github.com/wso2/tracker-consent-service/internal/blocker/service"
	settingsService "github.com/wso2/tracker-consent-service/internal/settings/service"
	"github.com/wso2/tracker-consent-service/internal/system/authn"
	"github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/utils"
	"github.com/wso2/tracker-consent-service/internal/tracker/registry"
)

// BlockerHandler evaluates page renders against the tracker registry.
type BlockerHandler struct {
	settings   settingsService.SettingsServiceInterface
	trackers   registry.TrackerProvider
	nonces     service.NonceIssuer
	ajaxURL    string
	siteName   string
	adminRoles []string
}

func NewBlockerHandler(settings settingsService.SettingsServiceInterface, trackers registry.TrackerProvider,
	nonces service.NonceIssuer, ajaxURL, siteName string, adminRoles []string) *BlockerHandler {

	return &BlockerHandler{
		settings:   settings,
		trackers:   trackers,
		nonces:     nonces,
		ajaxURL:    ajaxURL,
		siteName:   siteName,
		adminRoles: adminRoles,
	}
}

// Evaluate handles POST /script-gate/evaluate
func (h *BlockerHandler) Evaluate(w http.ResponseWriter, r *http.Request) {

	var request model.EvaluateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		clientError := errors.NewClientError(
			errors.EVALUATE_BAD_REQUEST.WithDescription(utils.HandleDecodeError(err, "page scripts")),
			http.StatusBadRequest)
		utils.HandleError(w, r, clientError)
		return
	}

	settings, err := h.settings.Snapshot(r.Context())
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	trackers := registry.NewWithBuiltIns()
	if h.trackers != nil {
		trackers.AddProvider(h.trackers)
	}
	scripts := append(request.Scripts, service.BuiltInScripts(settings)...)

	blocker := service.NewBlocker(trackers, settings, h.nonces, h.ajaxURL, h.siteName, h.adminRoles)
	result := blocker.Evaluate(scripts, authn.PrincipalFromContext(r.Context()))

	utils.WriteJSONResponse(w, http.StatusOK, model.EvaluateResponse{
		ShowPopup:         result.ShowPopup,
		RoleExcluded:      result.RoleExcluded,
		Payload:           result.Payload,
		SuppressedHandles: result.SuppressedHandles(),
		Head:              service.HeadPipeline(settings, result),
	})
}
