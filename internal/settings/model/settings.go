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
	"github.com/wso2/tracker-consent-service/internal/system/utils"
)

// Option keys understood by the consent engine.
const (
	OptPopupEnabled         = "mwg_is_cookie_consent_popup_enabled"
	OptAlwaysShowConsent    = "mwg_always_show_consent"
	OptBlockUntilConsent    = "mwg_block_trackers_until_consent"
	OptConsentDuration      = "mwg_consent_duration"
	OptConsentBoxPosition   = "mwg_consent_box_position"
	OptConsentMessage       = "mwg_tracker_consent_message"
	OptAcceptText           = "mwg_consent_accept_text"
	OptRejectText           = "mwg_consent_reject_text"
	OptInfoButtonText       = "mwg_consent_info_btn_text"
	OptGAEnabled            = "mwg_is_ga_enabled"
	OptGATrackingCode       = "mwg_ga_tracking_code"
	OptGAConsentModeEnabled = "mwg_ga_consent_mode_enabled"
	OptPixelEnabled         = "mwg_is_fbpx_enabled"
	OptPixelID              = "mwg_fbpx_id"
	OptClarityEnabled       = "mwg_is_msft_clarity_enabled"
	OptClarityID            = "mwg_msft_clarity_id"
	OptAdminTrackingEnabled = "mwg_is_admin_tracking_enabled"
	OptConsentOnNewOrder    = "mwg_consent_on_new_wc_order"
	OptSiteName             = "mwg_site_name"
	OptDontTrackRoles       = "mwg_dont_track_roles"
)

// MaxConsentDuration bounds mwg_consent_duration in days.
const MaxConsentDuration = 36500

// OptionKind is the type an option value must parse as.
type OptionKind string

const (
	KindBool   OptionKind = "bool"
	KindInt    OptionKind = "int"
	KindString OptionKind = "string"
)

// KnownOptions maps every writable option to its kind.
var KnownOptions = map[string]OptionKind{
	OptPopupEnabled:         KindBool,
	OptAlwaysShowConsent:    KindBool,
	OptBlockUntilConsent:    KindBool,
	OptConsentDuration:      KindInt,
	OptConsentBoxPosition:   KindInt,
	OptConsentMessage:       KindString,
	OptAcceptText:           KindString,
	OptRejectText:           KindString,
	OptInfoButtonText:       KindString,
	OptGAEnabled:            KindBool,
	OptGATrackingCode:       KindString,
	OptGAConsentModeEnabled: KindBool,
	OptPixelEnabled:         KindBool,
	OptPixelID:              KindString,
	OptClarityEnabled:       KindBool,
	OptClarityID:            KindString,
	OptAdminTrackingEnabled: KindBool,
	OptConsentOnNewOrder:    KindBool,
	OptSiteName:             KindString,
	OptDontTrackRoles:       KindString,
}

// Settings is a typed, read-only view over site options. Absent or unparseable values yield the default.
type Settings interface {
	GetBool(key string, def bool) bool
	GetString(key string, def string) string
	GetInt(key string, def int) int
}

// Values is a map backed Settings snapshot.
type Values map[string]string

func (v Values) GetBool(key string, def bool) bool {

	raw, ok := v[key]
	if !ok {
		return def
	}
	parsed, ok := utils.ParseBoolOption(raw)
	if !ok {
		return def
	}
	return parsed
}

func (v Values) GetString(key string, def string) string {

	raw, ok := v[key]
	if !ok || raw == "" {
		return def
	}
	return raw
}

func (v Values) GetInt(key string, def int) int {

	raw, ok := v[key]
	if !ok {
		return def
	}
	parsed, ok := utils.ParseIntOption(raw)
	if !ok {
		return def
	}
	return parsed
}

// SettingsAPI is the admin view of the stored options.
type SettingsAPI struct {
	Options map[string]string `json:"options"`
}

// SettingsUpdateAPI carries options to overwrite. Options not listed keep their value.
type SettingsUpdateAPI struct {
	Options map[string]string `json:"options"`
}
