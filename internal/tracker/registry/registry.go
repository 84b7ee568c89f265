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

package registry

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/wso2/tracker-consent-service/internal/system/log"
	"github.com/wso2/tracker-consent-service/internal/tracker/model"
)

// TrackerProvider contributes custom trackers to a registry.
type TrackerProvider interface {
	Trackers() []model.CustomTracker
}

// StaticProvider serves a fixed tracker list, typically from deployment configuration.
type StaticProvider []model.CustomTracker

func (p StaticProvider) Trackers() []model.CustomTracker {
	return p
}

// Registry resolves the trackers known for one request. Providers are consulted once and the
// result is memoized on the instance.
type Registry struct {
	mu        sync.Mutex
	builtIns  map[string]model.TrackerDefinition
	custom    []model.CustomTracker
	providers []TrackerProvider

	resolved map[string]model.TrackerDefinition
	matchers map[string]*regexp.Regexp
	sdkURLs  map[string]string
}

func New() *Registry {
	return &Registry{builtIns: map[string]model.TrackerDefinition{}}
}

// NewWithBuiltIns returns a registry with the analytics, pixel and clarity trackers registered.
func NewWithBuiltIns() *Registry {

	r := New()
	r.RegisterBuiltIn(model.HandleGoogleAnalytics, `googletagmanager\.com`, model.MatchFieldSrc, "Google Analytics", true)
	r.RegisterBuiltIn(model.HandleFacebookPixel, `fbq\(["']init["']`, model.MatchFieldInline, "Facebook Pixel", false)
	r.RegisterBuiltIn(model.HandleMSClarity, `window\.clarity\s*=`, model.MatchFieldInline, "Microsoft Clarity", false)
	return r
}

// RegisterBuiltIn adds or replaces a built-in definition.
func (r *Registry) RegisterBuiltIn(handle, matchPattern string, field model.MatchField, description string, canDefer bool) {

	handle = SanitizeHandle(handle)
	if handle == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtIns[handle] = model.TrackerDefinition{
		Handle:           handle,
		MatchPattern:     matchPattern,
		MatchField:       field,
		Description:      description,
		CanDefer:         canDefer,
		HasConsentSignal: hasConsentSignal(handle),
		BuiltIn:          true,
	}
	r.resolved = nil
}

func (r *Registry) RegisterCustom(trackers ...model.CustomTracker) {

	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = append(r.custom, trackers...)
	r.resolved = nil
}

func (r *Registry) AddProvider(provider TrackerProvider) {

	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, provider)
	r.resolved = nil
}

// GetAll returns the active definitions keyed by sanitized handle. Definitions with an invalid
// pattern are dropped.
func (r *Registry) GetAll() map[string]model.TrackerDefinition {

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolve()

	out := make(map[string]model.TrackerDefinition, len(r.resolved))
	for handle, def := range r.resolved {
		out[handle] = def
	}
	return out
}

// Matcher returns the compiled pattern of an active definition.
func (r *Registry) Matcher(handle string) *regexp.Regexp {

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolve()
	return r.matchers[handle]
}

// GetJSData returns the SDK loader map for custom trackers, including those without a match pattern.
// Role excluded subjects get nothing.
func (r *Registry) GetJSData(roleExcluded bool) map[string]model.TrackerJS {

	data := map[string]model.TrackerJS{}
	if roleExcluded {
		return data
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolve()
	for handle, sdkURL := range r.sdkURLs {
		data[handle] = model.TrackerJS{SDKURL: sdkURL}
	}
	return data
}

// resolve merges built-ins, direct registrations and providers. Callers hold r.mu.
func (r *Registry) resolve() {

	if r.resolved != nil {
		return
	}
	logger := log.GetLogger()

	merged := make(map[string]model.TrackerDefinition, len(r.builtIns))
	for handle, def := range r.builtIns {
		merged[handle] = def
	}

	r.sdkURLs = map[string]string{}
	custom := append([]model.CustomTracker{}, r.custom...)
	for _, provider := range r.providers {
		custom = append(custom, provider.Trackers()...)
	}
	for _, tracker := range custom {
		def, ok := customDefinition(tracker)
		if !ok {
			logger.Warn("Ignoring tracker registration without a handle")
			continue
		}
		if existing, isBuiltIn := merged[def.Handle]; isBuiltIn && existing.BuiltIn && !existing.CanDefer {
			logger.Warn("Custom tracker cannot replace a non-deferable built-in", log.String("handle", def.Handle))
			continue
		}
		merged[def.Handle] = def
		if def.SDKURL != "" {
			r.sdkURLs[def.Handle] = def.SDKURL
		}
	}

	r.resolved = make(map[string]model.TrackerDefinition, len(merged))
	r.matchers = make(map[string]*regexp.Regexp, len(merged))
	for handle, def := range merged {
		if !def.IsActive() {
			continue
		}
		matcher, err := regexp.Compile(def.MatchPattern)
		if err != nil {
			logger.Warn("Dropping tracker with an invalid pattern", log.String("handle", handle), log.Error(err))
			continue
		}
		r.resolved[handle] = def
		r.matchers[handle] = matcher
	}
}

func customDefinition(tracker model.CustomTracker) (model.TrackerDefinition, bool) {

	handle := SanitizeHandle(tracker.Handle)
	if handle == "" {
		return model.TrackerDefinition{}, false
	}
	description := tracker.Description
	if description == "" {
		description = tracker.Handle
	}
	return model.TrackerDefinition{
		Handle:       handle,
		MatchPattern: tracker.Pattern,
		MatchField:   model.ParseMatchField(tracker.Field),
		Description:  description,
		CanDefer:     tracker.CanDefer,
		SDKURL:       sanitizeSDKURL(tracker.SDKURL),
	}, true
}

// hasConsentSignal reports whether the tracker SDK accepts a consent call before it loads.
func hasConsentSignal(handle string) bool {
	return handle == model.HandleGoogleAnalytics || handle == model.HandleFacebookPixel
}

var nonSlug = regexp.MustCompile(`[^a-z0-9_-]+`)
var dashes = regexp.MustCompile(`-{2,}`)

// SanitizeHandle lower-cases a handle and reduces it to a dash separated slug.
func SanitizeHandle(handle string) string {

	slug := strings.ToLower(strings.TrimSpace(handle))
	slug = nonSlug.ReplaceAllString(slug, "-")
	slug = dashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func sanitizeSDKURL(raw string) string {

	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return ""
	}
	return parsed.String()
}
