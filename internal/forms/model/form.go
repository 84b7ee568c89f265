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

// ConsentTagName is the form-tag name of the privacy consent checkbox.
const ConsentTagName = "checkbox-privacy"

// ConsentCheckboxLabel is the label rendered next to the consent checkbox.
const ConsentCheckboxLabel = "I agree to the storage and handling of my data by this website, as specified in the privacy policy"

// Form is a contact form template owned by a form builder.
type Form struct {
	ID       string `json:"formId"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	MailBody string `json:"mailBody"`
}

// FormMeta summarises a form for the install-checkbox response.
type FormMeta struct {
	FormID      string `json:"formId"`
	Title       string `json:"title"`
	IsInstalled bool   `json:"isInstalled"`
}

// InstallCheckboxResponse lists every form after an install.
type InstallCheckboxResponse struct {
	Success bool       `json:"success"`
	FormID  string     `json:"formId"`
	Forms   []FormMeta `json:"forms"`
}
