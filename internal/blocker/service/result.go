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
	"sort"

	"github.com/wso2/tracker-consent-service/internal/blocker/model"
	"github.com/wso2/tracker-consent-service/internal/system/metrics"
)

// Result is the outcome of one evaluation.
type Result struct {
	ShowPopup         bool
	RoleExcluded      bool
	BlockUntilConsent bool
	Captured          map[string]model.CapturedScript
	Payload           *model.ConsentDecisionPayload
}

// ShouldSuppress reports whether the page must withhold the normal tag of a script. Only captured,
// deferable scripts are ever suppressed.
func (r *Result) ShouldSuppress(scriptHandle string) bool {

	if !r.BlockUntilConsent && !r.RoleExcluded {
		return false
	}
	captured, ok := r.Captured[scriptHandle]
	return ok && captured.CanDefer
}

// ScriptLoaderTag returns tag, or "" when the script is suppressed.
func (r *Result) ScriptLoaderTag(scriptHandle, tag string) string {

	if r.ShouldSuppress(scriptHandle) {
		metrics.SuppressedScripts.WithLabelValues(r.Captured[scriptHandle].Tracker).Inc()
		return ""
	}
	return tag
}

// SuppressedHandles lists the suppressed script handles in a stable order.
func (r *Result) SuppressedHandles() []string {

	handles := []string{}
	for handle := range r.Captured {
		if r.ShouldSuppress(handle) {
			handles = append(handles, handle)
		}
	}
	sort.Strings(handles)
	return handles
}
