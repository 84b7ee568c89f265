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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	settingsModel "github.com/wso2/tracker-consent-service/internal/settings/model"
	"github.com/wso2/tracker-consent-service/internal/system/authn"
	trackerModel "github.com/wso2/tracker-consent-service/internal/tracker/model"
	"github.com/wso2/tracker-consent-service/internal/tracker/registry"
)

func indexOf(t *testing.T, snippets []string, fragment string) int {
	for i, snippet := range snippets {
		if strings.Contains(snippet, fragment) {
			return i
		}
	}
	t.Fatalf("no snippet contains %q", fragment)
	return -1
}

func TestBuiltInScripts(t *testing.T) {

	scripts := BuiltInScripts(enabledTrackerSettings())
	require.Len(t, scripts, 3)
	assert.Equal(t, trackerModel.HandleGoogleAnalytics, scripts[0].Handle)
	assert.Equal(t, "https://www.googletagmanager.com/gtag/js?id=G-ABC123", scripts[0].Src)
	assert.Contains(t, scripts[0].After, "gtag('config', 'G-ABC123');")
	assert.Contains(t, scripts[1].After, `fbq("consent","revoke");fbq("init","123456789");`)
	assert.Contains(t, scripts[2].After, "window.clarity=window.clarity||")

	assert.Empty(t, BuiltInScripts(settingsModel.Values{}))
}

func TestBuiltInScripts_AreCapturedByBuiltInDefinitions(t *testing.T) {

	settings := enabledTrackerSettings()
	result := NewBlocker(registry.NewWithBuiltIns(), settings, nil, "", "Shop", adminRoles).
		Evaluate(BuiltInScripts(settings), nil)

	assert.Len(t, result.Captured, 3)
	assert.True(t, result.Captured[trackerModel.HandleGoogleAnalytics].CanDefer)
	assert.False(t, result.Captured[trackerModel.HandleFacebookPixel].CanDefer)
}

func TestHeadPipeline_StageOrder(t *testing.T) {

	settings := enabledTrackerSettings()
	settings[settingsModel.OptGAConsentModeEnabled] = "1"
	result := NewBlocker(registry.NewWithBuiltIns(), settings, nil, "", "Shop", adminRoles).
		Evaluate(BuiltInScripts(settings), nil)

	head := HeadPipeline(settings, result)
	defaults := indexOf(t, head, `gtag("consent","default",{"analytics_storage":"denied"`)
	preconnect := indexOf(t, head, `<link rel="preconnect" href="https://www.clarity.ms">`)
	pixel := indexOf(t, head, `fbq("init","123456789")`)
	loader := indexOf(t, head, "googletagmanager.com/gtag/js?id=G-ABC123")

	assert.Less(t, defaults, preconnect)
	assert.Less(t, preconnect, pixel)
	assert.Less(t, pixel, loader)
	assert.Contains(t, head[defaults], `"wait_for_update":500`)
}

func TestHeadPipeline_BlockingWithholdsLoaderButKeepsStubs(t *testing.T) {

	settings := enabledTrackerSettings()
	settings[settingsModel.OptBlockUntilConsent] = "1"
	result := NewBlocker(registry.NewWithBuiltIns(), settings, nil, "", "Shop", adminRoles).
		Evaluate(BuiltInScripts(settings), nil)

	head := strings.Join(HeadPipeline(settings, result), "\n")
	assert.NotContains(t, head, "gtag/js?id=")
	assert.Contains(t, head, `fbq("init","123456789")`)
	assert.Contains(t, head, "window.clarity=window.clarity||")
}

func TestHeadPipeline_RoleExcludedWithholdsLoader(t *testing.T) {

	settings := enabledTrackerSettings()
	admin := &authn.Principal{SubjectID: "1", Roles: []string{"administrator"}}
	result := NewBlocker(registry.NewWithBuiltIns(), settings, nil, "", "Shop", adminRoles).
		Evaluate(BuiltInScripts(settings), admin)

	head := strings.Join(HeadPipeline(settings, result), "\n")
	assert.NotContains(t, head, "gtag/js?id=")
	assert.Contains(t, head, `fbq("init","123456789")`)
}
