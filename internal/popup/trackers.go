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

package popup

import (
	"sort"

	"github.com/wso2/tracker-consent-service/internal/blocker/model"
	trackerModel "github.com/wso2/tracker-consent-service/internal/tracker/model"
)

const (
	gaSDKURL      = "https://www.googletagmanager.com/gtag/js?id="
	pixelSDKURL   = "https://connect.facebook.net/en_US/fbevents.js"
	claritySDKURL = "https://www.clarity.ms/tag/"

	gaGrantSignal    = `gtag("consent","update",{"analytics_storage":"granted","ad_storage":"granted","ad_user_data":"granted","ad_personalization":"granted"});`
	pixelGrantSignal = `fbq("consent","grant");`
)

// trackerLoad is one tracker's consent signal and SDK. signal is empty when the SDK has none.
type trackerLoad struct {
	handle string
	signal string
	sdkURL string
}

// trackerLoads lists the built-in trackers carried by the payload followed by the custom SDKs in
// handle order.
func trackerLoads(payload *model.ConsentDecisionPayload) []trackerLoad {

	var loads []trackerLoad
	if payload.GAID != "" {
		loads = append(loads, trackerLoad{
			handle: trackerModel.HandleGoogleAnalytics,
			signal: gaGrantSignal,
			sdkURL: gaSDKURL + payload.GAID,
		})
	}
	if payload.PixelID != "" {
		loads = append(loads, trackerLoad{
			handle: trackerModel.HandleFacebookPixel,
			signal: pixelGrantSignal,
			sdkURL: pixelSDKURL,
		})
	}
	if payload.ClarityID != "" {
		loads = append(loads, trackerLoad{
			handle: trackerModel.HandleMSClarity,
			sdkURL: claritySDKURL + payload.ClarityID,
		})
	}

	handles := make([]string, 0, len(payload.Trackers))
	for handle := range payload.Trackers {
		handles = append(handles, handle)
	}
	sort.Strings(handles)
	for _, handle := range handles {
		if sdkURL := payload.Trackers[handle].SDKURL; sdkURL != "" {
			loads = append(loads, trackerLoad{handle: handle, sdkURL: sdkURL})
		}
	}
	return loads
}
