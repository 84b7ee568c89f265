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

package service

import (
	"net/url"

	"github.com/wso2/tracker-consent-service/internal/forms/model"
	"github.com/wso2/tracker-consent-service/internal/system/utils"
)

// Form controls that carry an explicit consent flag.
var consentControlNames = []string{"confirm-accept-gdpr", "terms"}

// IsAcceptedInPostData reports whether a posted form carries consent: a truthy consent control, or
// exactly one ticked consent checkbox.
func IsAcceptedInPostData(form url.Values) bool {

	for _, name := range consentControlNames {
		if !form.Has(name) {
			continue
		}
		if accepted, ok := utils.ParseBoolOption(form.Get(name)); ok && accepted {
			return true
		}
	}

	for _, name := range []string{model.ConsentTagName + "[]", model.ConsentTagName} {
		if values, ok := form[name]; ok {
			return len(values) == 1
		}
	}
	return false
}
