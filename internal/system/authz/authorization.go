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

package authz

import (
	"slices"
	"strings"

	"github.com/wso2/tracker-consent-service/internal/system/authn"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

// HasAnyRole reports whether principal holds at least one of roles. Comparison ignores case.
func HasAnyRole(principal *authn.Principal, roles []string) bool {

	if principal == nil {
		return false
	}
	for _, granted := range principal.Roles {
		if slices.ContainsFunc(roles, func(required string) bool {
			return strings.EqualFold(granted, required)
		}) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether principal may run administrative consent operations.
func IsAdmin(principal *authn.Principal, adminRoles []string) bool {

	if HasAnyRole(principal, adminRoles) {
		return true
	}
	if principal != nil {
		log.GetLogger().Debug("Principal does not hold an administrative role.",
			log.String("subject", principal.SubjectID))
	}
	return false
}
