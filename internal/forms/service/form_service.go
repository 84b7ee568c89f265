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
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/wso2/tracker-consent-service/internal/forms/model"
	"github.com/wso2/tracker-consent-service/internal/forms/store"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

var consentTagPattern = regexp.MustCompile(`\[[a-z*]+\s+` + regexp.QuoteMeta(model.ConsentTagName) + `[\s\]]`)

// FormServiceInterface defines the service interface.
type FormServiceInterface interface {
	InstallConsentCheckbox(ctx context.Context, formID string) ([]model.FormMeta, error)
	GetFormMetas(ctx context.Context) ([]model.FormMeta, error)
}

// FormService installs the privacy consent checkbox into contact forms.
type FormService struct {
	store store.FormStore
}

func NewFormService(formStore store.FormStore) *FormService {
	return &FormService{store: formStore}
}

// InstallConsentCheckbox adds the consent checkbox to the form template and the consent tag to the
// mail body. Parts already present are left alone, so installing twice changes nothing.
func (s *FormService) InstallConsentCheckbox(ctx context.Context, formID string) ([]model.FormMeta, error) {

	formID = strings.TrimSpace(formID)
	if formID == "" {
		return nil, errors2.NewClientError(errors2.BAD_REQUEST.WithDescription("formId is required."), http.StatusBadRequest)
	}

	form, err := s.store.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, errors2.NewClientError(errors2.FORM_NOT_FOUND.WithDescription(fmt.Sprintf("No form with id %s.", formID)),
			http.StatusBadRequest)
	}

	updated, changed := withConsentCheckbox(*form)
	if changed {
		if err := s.store.UpdateForm(ctx, updated); err != nil {
			return nil, err
		}
		log.GetLogger().Info("Installed the consent checkbox", log.String("formId", formID))
	}
	return s.GetFormMetas(ctx)
}

func (s *FormService) GetFormMetas(ctx context.Context) ([]model.FormMeta, error) {

	forms, err := s.store.ListForms(ctx)
	if err != nil {
		return nil, err
	}
	metas := make([]model.FormMeta, 0, len(forms))
	for _, form := range forms {
		title := form.Title
		if title == "" {
			title = "Form " + form.ID
		}
		metas = append(metas, model.FormMeta{FormID: form.ID, Title: title, IsInstalled: IsConsentCheckboxInstalled(form)})
	}
	return metas, nil
}

// IsConsentCheckboxInstalled reports whether both the form template and the mail body carry the consent tag.
func IsConsentCheckboxInstalled(form model.Form) bool {
	return consentTagPattern.MatchString(form.Body) && strings.Contains(form.MailBody, mailTag())
}

func withConsentCheckbox(form model.Form) (model.Form, bool) {

	changed := false
	if !consentTagPattern.MatchString(form.Body) {
		checkbox := fmt.Sprintf(`[checkbox* %s use_label_element "%s"]`, model.ConsentTagName, model.ConsentCheckboxLabel)
		if strings.Contains(form.Body, "[submit") {
			form.Body = strings.Replace(form.Body, "[submit", checkbox+"\n\n[submit", 1)
		} else {
			form.Body += "\n\n" + checkbox
		}
		changed = true
	}
	if !strings.Contains(form.MailBody, mailTag()) {
		form.MailBody = mailTag() + "\n\n" + form.MailBody
		changed = true
	}
	return form, changed
}

func mailTag() string {
	return "[" + model.ConsentTagName + "]"
}
