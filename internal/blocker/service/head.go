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
	"encoding/json"
	"fmt"

	"github.com/wso2/tracker-consent-service/internal/blocker/model"
	settingsModel "github.com/wso2/tracker-consent-service/internal/settings/model"
	trackerModel "github.com/wso2/tracker-consent-service/internal/tracker/model"
)

const (
	gaLoaderURL      = "https://www.googletagmanager.com/gtag/js?id="
	clarityOrigin    = "https://www.clarity.ms"
	gaInlineConfig   = "window.dataLayer = window.dataLayer || [];\nfunction gtag(){dataLayer.push(arguments);}\ngtag('js', new Date());\ngtag('config', '%s');\n"
	pixelStub        = `window.fbq=function(){window.fbq.callMethod?window.fbq.callMethod.apply(window.fbq,arguments):window.fbq.queue.push(arguments)};if(!window._fbq)window._fbq=window.fbq;window.fbq.push=window.fbq;window.fbq.loaded=!0;window.fbq.version="2.0";window.fbq.queue=[];fbq("consent","revoke");fbq("init","%s");fbq("track","PageView");`
	clarityQueueStub = `window.clarity=window.clarity||function(){(window.clarity.q=window.clarity.q||[]).push(arguments)};`
)

type consentDefaults struct {
	AnalyticsStorage  string `json:"analytics_storage"`
	AdStorage         string `json:"ad_storage"`
	AdUserData        string `json:"ad_user_data"`
	AdPersonalization string `json:"ad_personalization"`
	WaitForUpdate     int    `json:"wait_for_update"`
}

// headStage renders one group of head snippets.
type headStage struct {
	name   string
	render func(settings settingsModel.Settings, result *Result) []string
}

// Consent defaults must be queued before any tracker stub or loader runs.
var headStages = []headStage{
	{name: "consent-mode-defaults", render: renderConsentDefaults},
	{name: "preconnect", render: renderPreconnect},
	{name: "tracker-stubs", render: renderStubs},
	{name: "tracker-loaders", render: renderLoaders},
}

// HeadPipeline renders the head snippets for the built-in trackers in stage order.
func HeadPipeline(settings settingsModel.Settings, result *Result) []string {

	snippets := []string{}
	for _, stage := range headStages {
		snippets = append(snippets, stage.render(settings, result)...)
	}
	return snippets
}

// BuiltInScripts returns the page scripts of the enabled built-in trackers. They are evaluated
// together with the host's own scripts.
func BuiltInScripts(settings settingsModel.Settings) []model.PageScript {

	var scripts []model.PageScript
	if id := gaID(settings); id != "" {
		scripts = append(scripts, model.PageScript{
			Handle: trackerModel.HandleGoogleAnalytics,
			Src:    gaLoaderURL + id,
			After:  fmt.Sprintf(gaInlineConfig, id),
		})
	}
	if id := pixelID(settings); id != "" {
		scripts = append(scripts, model.PageScript{
			Handle: trackerModel.HandleFacebookPixel,
			After:  fmt.Sprintf(pixelStub, id),
		})
	}
	if id := clarityID(settings); id != "" {
		scripts = append(scripts, model.PageScript{
			Handle: trackerModel.HandleMSClarity,
			After:  clarityQueueStub,
		})
	}
	return scripts
}

func renderConsentDefaults(settings settingsModel.Settings, _ *Result) []string {

	if !settings.GetBool(settingsModel.OptGAEnabled, false) || !settings.GetBool(settingsModel.OptGAConsentModeEnabled, false) {
		return nil
	}
	defaults, _ := json.Marshal(consentDefaults{
		AnalyticsStorage:  "denied",
		AdStorage:         "denied",
		AdUserData:        "denied",
		AdPersonalization: "denied",
		WaitForUpdate:     500,
	})
	return []string{fmt.Sprintf(
		`<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag("consent","default",%s);</script>`,
		defaults)}
}

func renderPreconnect(settings settingsModel.Settings, _ *Result) []string {

	if !settings.GetBool(settingsModel.OptClarityEnabled, false) {
		return nil
	}
	return []string{fmt.Sprintf(`<link rel="preconnect" href="%s">`, clarityOrigin)}
}

func renderStubs(settings settingsModel.Settings, result *Result) []string {

	var snippets []string
	for _, script := range BuiltInScripts(settings) {
		if script.Src != "" {
			continue
		}
		if tag := result.ScriptLoaderTag(script.Handle, inlineTag(script.After)); tag != "" {
			snippets = append(snippets, tag)
		}
	}
	return snippets
}

func renderLoaders(settings settingsModel.Settings, result *Result) []string {

	var snippets []string
	for _, script := range BuiltInScripts(settings) {
		if script.Src == "" {
			continue
		}
		tag := fmt.Sprintf(`<script async src="%s"></script>`, script.Src)
		if script.After != "" {
			tag += "\n" + inlineTag(script.After)
		}
		if tag = result.ScriptLoaderTag(script.Handle, tag); tag != "" {
			snippets = append(snippets, tag)
		}
	}
	return snippets
}

func inlineTag(body string) string {
	return "<script>" + body + "</script>"
}
