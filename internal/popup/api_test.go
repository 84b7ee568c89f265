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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
)

func TestHTTPConsentAPI_Send(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/consent/accept", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, constants.ActionAcceptConsent, r.PostForm.Get("action"))
		assert.Equal(t, "accept-nonce", r.PostForm.Get("nonce"))
		assert.Equal(t, "1", r.PostForm.Get("terms"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Thanks."}`))
	}))
	defer server.Close()

	api := NewHTTPConsentAPI(server.Client(), server.URL, "session-token")
	assert.NoError(t, api.Send(context.Background(), "/api/v1/consent", constants.ActionAcceptConsent, "accept-nonce"))
}

func TestHTTPConsentAPI_Failures(t *testing.T) {

	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"success":false,"message":"Too many requests."}`},
		{"unsuccessful envelope", http.StatusOK, `{"success":false}`},
		{"unauthorized", http.StatusUnauthorized, ``},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			api := NewHTTPConsentAPI(server.Client(), server.URL, "")
			assert.Error(t, api.Send(context.Background(), "/api/v1/consent", constants.ActionRejectConsent, "n"))
		})
	}
}

func TestHTTPConsentAPI_UnknownAction(t *testing.T) {

	api := NewHTTPConsentAPI(nil, "http://localhost", "")
	assert.Error(t, api.Send(context.Background(), "/api/v1/consent", "resetuserprivacyconsents", "n"))
}
