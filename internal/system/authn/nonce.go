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
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

const nonceAudience = "tracker-consent-action"

type nonceClaims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

// NonceIssuer issues and verifies short lived tokens binding a write action to a subject.
type NonceIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewNonceIssuer(secret []byte, ttl time.Duration) *NonceIssuer {
	return &NonceIssuer{secret: secret, ttl: ttl}
}

// Issue returns a nonce valid for action performed by subjectID.
func (n *NonceIssuer) Issue(action, subjectID string) (string, error) {

	now := time.Now()
	claims := nonceClaims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subjectID,
			Audience:  jwt.ClaimStrings{nonceAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(n.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(n.secret)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to sign nonce for action: %s", action)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return "", errors2.NewServerError(errors2.ISSUE_NONCE.WithDescription(errorMsg), err)
	}
	return signed, nil
}

// Verify checks that nonce was issued for action and subjectID and has not expired.
func (n *NonceIssuer) Verify(nonce, action, subjectID string) error {

	claims := &nonceClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(nonceAudience),
		jwt.WithSubject(subjectID),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(nonce, claims, func(*jwt.Token) (interface{}, error) {
		return n.secret, nil
	})
	if err != nil || claims.Action != action {
		log.GetLogger().Debug("Nonce verification failed.", log.String("action", action), log.Error(err))
		return errors2.NewClientError(errors2.INVALID_NONCE.WithDescription("The request nonce is missing, expired or does not match the action."),
			http.StatusBadRequest)
	}
	return nil
}
