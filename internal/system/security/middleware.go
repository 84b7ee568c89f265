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

package security

import (
	"net/http"
	"strings"

	"github.com/wso2/tracker-consent-service/internal/system/authn"
	"github.com/wso2/tracker-consent-service/internal/system/authz"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

// Guard authenticates requests with HS256 session tokens and enforces role based access.
type Guard struct {
	secret        []byte
	sessionCookie string
	adminRoles    []string
}

func NewGuard(secret []byte, sessionCookie string, adminRoles []string) *Guard {
	return &Guard{secret: secret, sessionCookie: sessionCookie, adminRoles: adminRoles}
}

// AdminRoles returns the roles treated as administrators.
func (g *Guard) AdminRoles() []string {
	return g.adminRoles
}

// Authenticate resolves the principal from a Bearer header or the session cookie.
// It returns nil without error when the request carries no credentials.
func (g *Guard) Authenticate(r *http.Request) (*authn.Principal, error) {

	token := ""
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	} else if cookie, err := r.Cookie(g.sessionCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		return nil, nil
	}
	return authn.ParseSessionToken(token, g.secret)
}

// OptionalPrincipal attaches the principal when present. Invalid credentials are treated as anonymous.
func (g *Guard) OptionalPrincipal(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := g.Authenticate(r)
		if err != nil || principal == nil {
			next(w, r)
			return
		}
		next(w, r.WithContext(authn.WithPrincipal(r.Context(), principal)))
	}
}

// RequireSubject rejects anonymous requests with an empty 401.
func (g *Guard) RequireSubject(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := g.Authenticate(r)
		if err != nil || principal == nil {
			auditFailure(r, "")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(authn.WithPrincipal(r.Context(), principal)))
	}
}

// RequireAdmin rejects requests from principals without an administrative role with an empty 403.
func (g *Guard) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return g.RequireSubject(func(w http.ResponseWriter, r *http.Request) {
		principal := authn.PrincipalFromContext(r.Context())
		if !authz.IsAdmin(principal, g.adminRoles) {
			auditFailure(r, principal.SubjectID)
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next(w, r)
	})
}

func auditFailure(r *http.Request, subjectID string) {

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   subjectID,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      r.URL.Path,
		TargetType:    "endpoint",
		ActionID:      log.ActionAuthenticationFailure,
	})
}
