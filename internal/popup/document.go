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

// PopupView is the rendered copy of the consent popup.
type PopupView struct {
	Message    string
	AcceptText string
	RejectText string
	InfoText   string
	Classes    []string
}

// Script is a script element inserted into the page head. Exactly one of Src or Inline is set.
type Script struct {
	Handle string
	Src    string
	Inline string
}

// Document is the page surface the controller drives.
type Document interface {
	PopupVisible() bool
	ShowPopup(view PopupView)
	DismissPopup()
	ShowAffordance()

	// HasScript reports whether a script element with src is already on the page.
	HasScript(src string) bool
	InsertScript(script Script)
	// CallSignal runs a tracker's consent call. It must precede the tracker's SDK insert.
	CallSignal(handle, code string)

	InfoVisible() bool
	ShowInfo(html string)
	CloseInfo()
}
