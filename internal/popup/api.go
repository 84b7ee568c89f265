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

package popup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
)

// ConsentAPI reports a visitor decision to the server.
type ConsentAPI interface {
	Send(ctx context.Context, endpoint, action, nonce string) error
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

var actionPaths = map[string]string{
	constants.ActionAcceptConsent: "accept",
	constants.ActionRejectConsent: "reject",
}

// HTTPConsentAPI posts decisions to the consent endpoints.
type HTTPConsentAPI struct {
	client       *http.Client
	baseURL      string
	sessionToken string
}

// NewHTTPConsentAPI returns a client resolving endpoints against baseURL. sessionToken is sent as a
// bearer credential when set.
func NewHTTPConsentAPI(client *http.Client, baseURL, sessionToken string) *HTTPConsentAPI {

	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPConsentAPI{client: client, baseURL: baseURL, sessionToken: sessionToken}
}

// Send posts action with its nonce and the consent flag to the action's route under endpoint.
func (a *HTTPConsentAPI) Send(ctx context.Context, endpoint, action, nonce string) error {

	path, ok := actionPaths[action]
	if !ok {
		return errors.Errorf("unsupported consent action %q", action)
	}
	target, err := url.JoinPath(a.baseURL, endpoint, path)
	if err != nil {
		return errors.Wrap(err, "invalid consent endpoint")
	}

	form := url.Values{}
	form.Set("action", action)
	form.Set("nonce", nonce)
	form.Set("terms", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to build consent request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if a.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+a.sessionToken)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "consent %s request failed", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.Errorf("consent %s request was not authorized: %d", path, resp.StatusCode)
	}
	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errors.Wrapf(err, "unreadable consent %s response: %d", path, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || !body.Success {
		return errors.Errorf("consent %s rejected: %d %s", path, resp.StatusCode, body.Message)
	}
	return nil
}
