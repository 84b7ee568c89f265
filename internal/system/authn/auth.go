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

package authn

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

const sessionAudience = "tracker-consent"

// Principal is the authenticated account behind a request.
type Principal struct {
	SubjectID string
	Roles     []string
}

type sessionClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// ParseSessionToken verifies an HS256 session token and returns the principal it names.
func ParseSessionToken(token string, secret []byte) (*Principal, error) {

	logger := log.GetLogger()
	if len(secret) == 0 {
		logger.Debug("No session signing secret configured.")
		return nil, unauthorizedError()
	}

	claims := &sessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		logger.Debug("Session token validation failed.", log.Error(err))
		return nil, unauthorizedError()
	}
	if claims.Subject == "" {
		logger.Debug("Session token does not carry a subject.")
		return nil, unauthorizedError()
	}
	return &Principal{SubjectID: claims.Subject, Roles: claims.Roles}, nil
}

// IssueSessionToken signs a session token for subjectID. Used by account front ends and tests.
func IssueSessionToken(subjectID string, roles []string, secret []byte, ttl time.Duration) (string, error) {

	now := time.Now()
	claims := sessionClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// WithPrincipal stores the principal on the context.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, constants.PrincipalContextKey, principal)
}

// PrincipalFromContext returns the principal, or nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(constants.PrincipalContextKey).(*Principal)
	return principal
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.UN_AUTHORIZED, http.StatusUnauthorized)
}
