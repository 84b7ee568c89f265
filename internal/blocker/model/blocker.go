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

import (
	trackerModel "github.com/wso2/tracker-consent-service/internal/tracker/model"
)

// PageScript is one script the host page intends to output.
type PageScript struct {
	Handle string `json:"handle"`
	Src    string `json:"src,omitempty"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
	Extra  string `json:"extra,omitempty"`
}

// InlineBody is the inline code a script carries, which inline matchers run against.
func (s PageScript) InlineBody() string {
	body := s.Before
	if s.After != "" {
		if body != "" {
			body += "\n"
		}
		body += s.After
	}
	return body
}

// CapturedScript is a page script recognised as a tracker for the current request.
type CapturedScript struct {
	Tracker      string `json:"tracker"`
	Description  string `json:"description"`
	Pattern      string `json:"pattern"`
	Field        string `json:"field"`
	CanDefer     bool   `json:"can-defer"`
	ScriptHandle string `json:"handle"`
	Src          string `json:"src,omitempty"`
	Before       string `json:"before,omitempty"`
	After        string `json:"after,omitempty"`
	Extra        string `json:"extra,omitempty"`
	IsCaptured   bool   `json:"is-captured"`
}

// ConsentDecisionPayload is injected into the page for the popup controller.
type ConsentDecisionPayload struct {
	AcceptKey    string                            `json:"cn"`
	RejectKey    string                            `json:"rcn"`
	DurationDays int                               `json:"cd"`
	Message      string                            `json:"msg"`
	Classes      []string                          `json:"cls"`
	AcceptText   string                            `json:"ok"`
	RejectText   string                            `json:"rjt"`
	InfoText     string                            `json:"mre"`
	Info1        string                            `json:"nfo1"`
	Info2        string                            `json:"nfo2"`
	Info3        string                            `json:"nfo3"`
	Meta         map[string]CapturedScript         `json:"meta"`
	Always       int                               `json:"always"`
	BlockOn      int                               `json:"blkon"`
	GAID         string                            `json:"gaId,omitempty"`
	PixelID      string                            `json:"fbpxId,omitempty"`
	ClarityID    string                            `json:"clarityId,omitempty"`
	Trackers     map[string]trackerModel.TrackerJS `json:"trackers,omitempty"`
	AjaxURL      string                            `json:"ajaxUrl,omitempty"`
	AcceptAction string                            `json:"acceptAction,omitempty"`
	RejectAction string                            `json:"rejectAction,omitempty"`
	Nonce        string                            `json:"nonce,omitempty"`
	RejectNonce  string                            `json:"rejectNonce,omitempty"`
}

// EvaluateRequest is the script manifest posted by the host page renderer.
type EvaluateRequest struct {
	Scripts []PageScript `json:"scripts"`
}

// EvaluateResponse tells the renderer what to output.
type EvaluateResponse struct {
	ShowPopup         bool                    `json:"showPopup"`
	RoleExcluded      bool                    `json:"roleExcluded"`
	Payload           *ConsentDecisionPayload `json:"payload,omitempty"`
	SuppressedHandles []string                `json:"suppressedHandles"`
	Head              []string                `json:"head"`
}
