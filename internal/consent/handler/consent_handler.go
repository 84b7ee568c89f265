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
	"errors"
	"net/http"
	"strconv"

	"github.com/wso2/tracker-consent-service/internal/consent/model"
	"github.com/wso2/tracker-consent-service/internal/consent/service"
	formModel "github.com/wso2/tracker-consent-service/internal/forms/model"
	formService "github.com/wso2/tracker-consent-service/internal/forms/service"
	"github.com/wso2/tracker-consent-service/internal/system/authn"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
	"github.com/wso2/tracker-consent-service/internal/system/metrics"
	"github.com/wso2/tracker-consent-service/internal/system/ratelimit"
	"github.com/wso2/tracker-consent-service/internal/system/utils"
)

// NonceVerifier checks the action nonce posted with a write request.
type NonceVerifier interface {
	Verify(nonce, action, subjectID string) error
}

// ConsentHandler serves the consent query and write endpoints.
type ConsentHandler struct {
	service     service.ConsentServiceInterface
	formService formService.FormServiceInterface
	nonces      NonceVerifier
	limiter     ratelimit.Limiter
}

func NewConsentHandler(consentService service.ConsentServiceInterface, forms formService.FormServiceInterface,
	nonces NonceVerifier, limiter ratelimit.Limiter) *ConsentHandler {

	return &ConsentHandler{
		service:     consentService,
		formService: forms,
		nonces:      nonces,
		limiter:     limiter,
	}
}

// Accept handles POST /consent/accept
func (h *ConsentHandler) Accept(w http.ResponseWriter, r *http.Request) {

	subjectID, ok := h.admitWrite(w, r, constants.ActionAcceptConsent)
	if !ok {
		return
	}
	if !formService.IsAcceptedInPostData(r.PostForm) {
		writeEnvelope(w, http.StatusBadRequest, false, errors2.CONSENT_NOT_PROVIDED.Message)
		return
	}
	if err := h.service.AcceptNow(r.Context(), subjectID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, model.ThankYouMessage)
}

// Reject handles POST /consent/reject
func (h *ConsentHandler) Reject(w http.ResponseWriter, r *http.Request) {

	subjectID, ok := h.admitWrite(w, r, constants.ActionRejectConsent)
	if !ok {
		return
	}
	if err := h.service.RejectNow(r.Context(), subjectID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "")
}

// ResetAll handles POST /consent/reset-all
func (h *ConsentHandler) ResetAll(w http.ResponseWriter, r *http.Request) {

	subjectID, ok := h.admitWrite(w, r, constants.ActionResetConsents)
	if !ok {
		return
	}
	if _, err := h.service.ResetAll(r.Context(), subjectID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "All user consents have been reset")
}

// InstallConsentCheckbox handles POST /consent/forms/install-checkbox
func (h *ConsentHandler) InstallConsentCheckbox(w http.ResponseWriter, r *http.Request) {

	principal := authn.PrincipalFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, errors2.BAD_REQUEST.Message)
		return
	}
	if err := h.nonces.Verify(r.PostFormValue("nonce"), constants.ActionInstallConsentCheckbox,
		principal.SubjectID); err != nil {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	formID := r.PostFormValue("formId")
	forms, err := h.formService.InstallConsentCheckbox(r.Context(), formID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   principal.SubjectID,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      formID,
		TargetType:    log.TargetTypeForm,
		ActionID:      log.ActionInstallConsentCheckbox,
	})
	utils.WriteJSONResponse(w, http.StatusOK, formModel.InstallCheckboxResponse{Success: true, FormID: formID, Forms: forms})
}

// GetStats handles GET /consent/stats
func (h *ConsentHandler) GetStats(w http.ResponseWriter, r *http.Request) {

	var total int64
	if raw := r.URL.Query().Get("total"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			utils.HandleError(w, r, errors2.NewClientError(
				errors2.BAD_REQUEST.WithDescription("total must be a non-negative integer."), http.StatusBadRequest))
			return
		}
		total = parsed
	}

	stats, err := h.service.Stats(r.Context(), total)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, stats)
}

// GetStatus handles GET /consent/status
func (h *ConsentHandler) GetStatus(w http.ResponseWriter, r *http.Request) {

	principal := authn.PrincipalFromContext(r.Context())
	status, err := h.service.Status(r.Context(), principal.SubjectID)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, status)
}

// admitWrite parses the posted form, verifies the nonce and charges the rate limit. A request it
// turns away has not mutated anything. A nonce failure answers 403 with no body.
func (h *ConsentHandler) admitWrite(w http.ResponseWriter, r *http.Request, action string) (string, bool) {

	principal := authn.PrincipalFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, errors2.BAD_REQUEST.Message)
		return "", false
	}
	// A bad nonce ends the request like any other credential failure: status only, no body.
	if err := h.nonces.Verify(r.PostFormValue("nonce"), action, principal.SubjectID); err != nil {
		w.WriteHeader(http.StatusForbidden)
		return "", false
	}

	allowed, err := h.limiter.Allow(r.Context(), ratelimit.Key(action, principal.SubjectID))
	if err != nil {
		log.GetLogger().Error("Rate limit check failed", log.String("action", action), log.Error(err))
		utils.HandleError(w, r, errors2.NewServerError(errors2.RATE_LIMIT_CHECK.WithDescription(action), err))
		return "", false
	}
	if !allowed {
		metrics.RateLimited.WithLabelValues(action).Inc()
		writeEnvelope(w, http.StatusTooManyRequests, false, errors2.RATE_LIMITED.Message)
		return "", false
	}
	return principal.SubjectID, true
}

// writeError renders client errors as a failed envelope and everything else as a server error.
func (h *ConsentHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {

	var clientError *errors2.ClientError
	if errors.As(err, &clientError) {
		message := clientError.Description
		if message == "" {
			message = clientError.Message
		}
		writeEnvelope(w, clientError.StatusCode, false, message)
		return
	}
	utils.HandleError(w, r, err)
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string) {
	utils.WriteJSONResponse(w, status, model.ConsentResponse{Success: success, Message: message})
}
