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
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/wso2/tracker-consent-service/internal/blocker/model"
	settingsModel "github.com/wso2/tracker-consent-service/internal/settings/model"
	"github.com/wso2/tracker-consent-service/internal/system/authn"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
	"github.com/wso2/tracker-consent-service/internal/system/log"
	"github.com/wso2/tracker-consent-service/internal/system/metrics"
	trackerModel "github.com/wso2/tracker-consent-service/internal/tracker/model"
	"github.com/wso2/tracker-consent-service/internal/tracker/registry"
)

const (
	// CookieNameBase prefixes both ephemeral storage keys.
	CookieNameBase = "mgwcs"
	// CookieSequence is bumped to invalidate every stored decision after a policy change.
	CookieSequence = 0

	DefaultConsentDuration = 365
	DefaultBoxPosition     = 1
)

const (
	defaultMessage    = "%s uses cookies and analytics to create a better user experience. Are you OK with this?"
	infoTrackers      = "Along with some cookies, we use these scripts"
	infoNoTrackers    = "We don't use any tracking scripts, but we do use some cookies."
	infoRoleExcluded  = "Tracking scripts are blocked because you're logged-in as an administrator"
	defaultAcceptText = "Accept"
	defaultRejectText = "Reject"
	defaultInfoText   = "info..."
)

var (
	gaIDPattern      = regexp.MustCompile(`^(G|UA|YT|MO)-[a-zA-Z0-9-]+$`)
	pixelIDPattern   = regexp.MustCompile(`^[0-9]{5,20}$`)
	clarityIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,32}$`)
)

// NonceIssuer issues action nonces for authenticated visitors.
type NonceIssuer interface {
	Issue(action, subjectID string) (string, error)
}

// Blocker evaluates one page render. Instances are request scoped.
type Blocker struct {
	registry       *registry.Registry
	settings       settingsModel.Settings
	nonces         NonceIssuer
	ajaxURL        string
	siteName       string
	dontTrackRoles []string
}

func NewBlocker(trackers *registry.Registry, settings settingsModel.Settings, nonces NonceIssuer,
	ajaxURL, siteName string, dontTrackRoles []string) *Blocker {

	return &Blocker{
		registry:       trackers,
		settings:       settings,
		nonces:         nonces,
		ajaxURL:        ajaxURL,
		siteName:       siteName,
		dontTrackRoles: dontTrackRoles,
	}
}

// Evaluate captures tracker scripts, decides whether the popup shows and builds its payload.
// A nil principal is an anonymous visitor.
func (b *Blocker) Evaluate(scripts []model.PageScript, principal *authn.Principal) *Result {

	result := &Result{Captured: map[string]model.CapturedScript{}}
	if !b.settings.GetBool(settingsModel.OptPopupEnabled, true) {
		return result
	}

	result.RoleExcluded = b.isRoleExcluded(principal)
	b.capture(scripts, result)

	always := b.settings.GetBool(settingsModel.OptAlwaysShowConsent, false)
	result.ShowPopup = len(result.Captured) > 0 || always
	metrics.GateEvaluations.WithLabelValues(fmt.Sprintf("%t", result.ShowPopup)).Inc()
	if !result.ShowPopup {
		return result
	}

	result.BlockUntilConsent = b.settings.GetBool(settingsModel.OptBlockUntilConsent, false)
	result.Payload = b.buildPayload(result, always, principal)
	return result
}

// isRoleExcluded is false for anonymous visitors and when administrator tracking is allowed.
func (b *Blocker) isRoleExcluded(principal *authn.Principal) bool {

	if principal == nil || principal.SubjectID == "" {
		return false
	}
	if b.settings.GetBool(settingsModel.OptAdminTrackingEnabled, false) {
		return false
	}
	if len(principal.Roles) == 0 {
		return false
	}

	excluded := b.dontTrackRoles
	if configured := b.settings.GetString(settingsModel.OptDontTrackRoles, ""); configured != "" {
		excluded = splitRoles(configured)
	}
	for _, role := range principal.Roles {
		for _, candidate := range excluded {
			if strings.EqualFold(role, candidate) {
				return true
			}
		}
	}
	return false
}

// capture records, for every active tracker, the first page script whose field matches.
func (b *Blocker) capture(scripts []model.PageScript, result *Result) {

	definitions := b.registry.GetAll()
	handles := make([]string, 0, len(definitions))
	for handle := range definitions {
		handles = append(handles, handle)
	}
	sort.Strings(handles)

	for _, handle := range handles {
		def := definitions[handle]
		matcher := b.registry.Matcher(handle)
		if matcher == nil {
			continue
		}
		for _, script := range scripts {
			if script.Handle == "" {
				continue
			}
			if _, taken := result.Captured[script.Handle]; taken {
				continue
			}
			data := script.Src
			if def.MatchField == trackerModel.MatchFieldInline {
				data = script.InlineBody()
			}
			if data == "" || !matcher.MatchString(data) {
				continue
			}
			result.Captured[script.Handle] = model.CapturedScript{
				Tracker:      def.Handle,
				Description:  def.Description,
				Pattern:      def.MatchPattern,
				Field:        string(def.MatchField),
				CanDefer:     def.CanDefer,
				ScriptHandle: script.Handle,
				Src:          script.Src,
				Before:       script.Before,
				After:        script.After,
				Extra:        script.Extra,
				IsCaptured:   true,
			}
			break
		}
	}
}

func (b *Blocker) buildPayload(result *Result, always bool, principal *authn.Principal) *model.ConsentDecisionPayload {

	duration := b.settings.GetInt(settingsModel.OptConsentDuration, DefaultConsentDuration)
	if duration <= 0 {
		duration = DefaultConsentDuration
	}
	duration = min(duration, settingsModel.MaxConsentDuration)

	siteName := b.settings.GetString(settingsModel.OptSiteName, b.siteName)
	message := b.settings.GetString(settingsModel.OptConsentMessage, fmt.Sprintf(defaultMessage, siteName))

	payload := &model.ConsentDecisionPayload{
		AcceptKey:    AcceptStorageKey(),
		RejectKey:    RejectStorageKey(),
		DurationDays: duration,
		Message:      html.EscapeString(message),
		Classes:      boxClasses(b.settings.GetInt(settingsModel.OptConsentBoxPosition, DefaultBoxPosition)),
		AcceptText:   b.settings.GetString(settingsModel.OptAcceptText, defaultAcceptText),
		RejectText:   b.settings.GetString(settingsModel.OptRejectText, defaultRejectText),
		InfoText:     b.settings.GetString(settingsModel.OptInfoButtonText, defaultInfoText),
		Info1:        infoTrackers,
		Info2:        infoNoTrackers,
		Meta:         result.Captured,
		Always:       boolFlag(always),
		BlockOn:      boolFlag(result.BlockUntilConsent),
		Trackers:     b.registry.GetJSData(result.RoleExcluded),
	}
	if result.RoleExcluded {
		payload.Info3 = infoRoleExcluded
	}
	if len(payload.Trackers) == 0 {
		payload.Trackers = nil
	}

	if !result.RoleExcluded {
		payload.GAID = gaID(b.settings)
		payload.PixelID = pixelID(b.settings)
		payload.ClarityID = clarityID(b.settings)
	}

	if principal != nil && principal.SubjectID != "" && b.ajaxURL != "" && b.nonces != nil {
		b.attachEndpoint(payload, principal.SubjectID)
	}
	return payload
}

func gaID(settings settingsModel.Settings) string {
	return configuredID(settings, settingsModel.OptGAEnabled, settingsModel.OptGATrackingCode, gaIDPattern, "Google Analytics")
}

func pixelID(settings settingsModel.Settings) string {
	return configuredID(settings, settingsModel.OptPixelEnabled, settingsModel.OptPixelID, pixelIDPattern, "Facebook Pixel")
}

func clarityID(settings settingsModel.Settings) string {
	return configuredID(settings, settingsModel.OptClarityEnabled, settingsModel.OptClarityID, clarityIDPattern,
		"Microsoft Clarity")
}

// configuredID returns the id of an enabled built-in tracker, or "" when it is disabled, missing or invalid.
func configuredID(settings settingsModel.Settings, enabledKey, idKey string, pattern *regexp.Regexp, name string) string {

	if !settings.GetBool(enabledKey, false) {
		return ""
	}
	id := strings.TrimSpace(settings.GetString(idKey, ""))
	if id == "" {
		log.GetLogger().Warn("Missing tracker id", log.String("tracker", name))
		return ""
	}
	if !pattern.MatchString(id) {
		log.GetLogger().Warn("Invalid tracker id", log.String("tracker", name))
		return ""
	}
	return id
}

func (b *Blocker) attachEndpoint(payload *model.ConsentDecisionPayload, subjectID string) {

	acceptNonce, err := b.nonces.Issue(constants.ActionAcceptConsent, subjectID)
	if err != nil {
		log.GetLogger().Error("Failed to issue the accept nonce", log.Error(err))
		return
	}
	rejectNonce, err := b.nonces.Issue(constants.ActionRejectConsent, subjectID)
	if err != nil {
		log.GetLogger().Error("Failed to issue the reject nonce", log.Error(err))
		return
	}
	payload.AjaxURL = b.ajaxURL
	payload.AcceptAction = constants.ActionAcceptConsent
	payload.RejectAction = constants.ActionRejectConsent
	payload.Nonce = acceptNonce
	payload.RejectNonce = rejectNonce
}

// AcceptStorageKey names the ephemeral acceptance entry.
func AcceptStorageKey() string {
	return fmt.Sprintf("%s_%d_", CookieNameBase, CookieSequence)
}

// RejectStorageKey names the ephemeral rejection entry.
func RejectStorageKey() string {
	return fmt.Sprintf("%sr_%d_", CookieNameBase, CookieSequence)
}

// PositionClasses maps a 0-8 box position onto its horizontal and vertical classes.
// Rows run bottom, middle, top; columns left, centre, right. Unknown positions sit right/middle.
func PositionClasses(position int) []string {

	if position < 0 || position > 8 {
		return []string{"mgw-rgt", "mgw-vcn"}
	}
	horizontal := []string{"mgw-lft", "mgw-hcn", "mgw-rgt"}[position%3]
	vertical := []string{"mgw-btm", "mgw-vcn", "mgw-top"}[position/3]
	return []string{horizontal, vertical}
}

func boxClasses(position int) []string {
	return append([]string{"mgw-cnt", "mgw-box"}, PositionClasses(position)...)
}

func splitRoles(raw string) []string {
	var roles []string
	for _, role := range strings.Split(raw, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

func boolFlag(v bool) int {
	if v {
		return 1
	}
	return 0
}
