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

package model

// MatchField selects the part of a page script a tracker pattern is matched against.
type MatchField string

const (
	MatchFieldSrc    MatchField = "src"
	MatchFieldInline MatchField = "inlineBody"
)

// Built-in tracker handles.
const (
	HandleGoogleAnalytics = "mgw-google-analytics"
	HandleFacebookPixel   = "mgw-facebook-pixel"
	HandleMSClarity       = "msft-clarity"
)

// TrackerDefinition describes how to recognise a tracker on a page and how it may be deferred.
type TrackerDefinition struct {
	Handle           string     `json:"handle"`
	MatchPattern     string     `json:"pattern"`
	MatchField       MatchField `json:"field"`
	Description      string     `json:"description"`
	CanDefer         bool       `json:"can-defer"`
	SDKURL           string     `json:"sdkUrl,omitempty"`
	HasConsentSignal bool       `json:"hasConsentSignal"`
	BuiltIn          bool       `json:"-"`
}

// IsActive reports whether the definition can take part in script capture.
func (d TrackerDefinition) IsActive() bool {
	return d.MatchPattern != "" && d.Description != ""
}

// CustomTracker is a tracker contributed by configuration or a TrackerProvider.
type CustomTracker struct {
	Handle      string `json:"handle" yaml:"handle"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Field       string `json:"field" yaml:"field"`
	Description string `json:"description" yaml:"description"`
	SDKURL      string `json:"sdkUrl" yaml:"sdk_url"`
	CanDefer    bool   `json:"canDefer" yaml:"can_defer"`
}

// TrackerJS is the client-side view of a custom tracker.
type TrackerJS struct {
	SDKURL string `json:"sdkUrl"`
}

// ParseMatchField maps stored field names to a MatchField. Unknown names match on src.
func ParseMatchField(field string) MatchField {
	switch field {
	case string(MatchFieldInline), "inline", "outerhtml":
		return MatchFieldInline
	default:
		return MatchFieldSrc
	}
}
