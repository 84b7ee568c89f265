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
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/tracker-consent-service/internal/forms/model"
	"github.com/wso2/tracker-consent-service/internal/forms/store"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

func init() {
	log.Init("DEBUG")
}

func TestInstallConsentCheckbox_InsertsBeforeSubmit(t *testing.T) {

	formStore := store.NewMemoryFormStore(model.Form{
		ID:       "12",
		Title:    "Contact",
		Body:     "[email* your-email]\n[submit \"Send\"]",
		MailBody: "Message from [your-email]",
	})
	svc := NewFormService(formStore)

	metas, err := svc.InstallConsentCheckbox(context.Background(), "12")
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.True(t, metas[0].IsInstalled)

	form, _ := formStore.GetForm(context.Background(), "12")
	assert.True(t, strings.Index(form.Body, "[checkbox* checkbox-privacy use_label_element") < strings.Index(form.Body, "[submit"))
	assert.True(t, strings.HasPrefix(form.MailBody, "[checkbox-privacy]\n\n"))
}

func TestInstallConsentCheckbox_AppendsWithoutSubmit(t *testing.T) {

	formStore := store.NewMemoryFormStore(model.Form{ID: "3", Body: "[text your-name]"})
	_, err := NewFormService(formStore).InstallConsentCheckbox(context.Background(), "3")
	require.NoError(t, err)

	form, _ := formStore.GetForm(context.Background(), "3")
	assert.True(t, strings.HasSuffix(form.Body, "use_label_element \""+model.ConsentCheckboxLabel+"\"]"))
}

func TestInstallConsentCheckbox_Idempotent(t *testing.T) {

	formStore := store.NewMemoryFormStore(model.Form{ID: "5", Body: "[submit]", MailBody: "hi"})
	svc := NewFormService(formStore)

	_, err := svc.InstallConsentCheckbox(context.Background(), "5")
	require.NoError(t, err)
	first, _ := formStore.GetForm(context.Background(), "5")

	_, err = svc.InstallConsentCheckbox(context.Background(), "5")
	require.NoError(t, err)
	second, _ := formStore.GetForm(context.Background(), "5")

	assert.Equal(t, *first, *second)
	assert.Equal(t, 1, strings.Count(second.Body, model.ConsentTagName))
}

func TestInstallConsentCheckbox_UnknownForm(t *testing.T) {

	_, err := NewFormService(store.NewMemoryFormStore()).InstallConsentCheckbox(context.Background(), "99")
	assert.Error(t, err)

	_, err = NewFormService(store.NewMemoryFormStore()).InstallConsentCheckbox(context.Background(), " ")
	assert.Error(t, err)
}

func TestIsAcceptedInPostData(t *testing.T) {

	tests := []struct {
		name     string
		form     url.Values
		accepted bool
	}{
		{name: "terms on", form: url.Values{"terms": {"on"}}, accepted: true},
		{name: "confirm flag", form: url.Values{"confirm-accept-gdpr": {"1"}}, accepted: true},
		{name: "terms off", form: url.Values{"terms": {"0"}}, accepted: false},
		{name: "single checkbox", form: url.Values{"checkbox-privacy[]": {"I agree"}}, accepted: true},
		{name: "two checkbox values", form: url.Values{"checkbox-privacy[]": {"a", "b"}}, accepted: false},
		{name: "nothing posted", form: url.Values{}, accepted: false},
		{name: "unparseable terms", form: url.Values{"terms": {"maybe"}}, accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.accepted, IsAcceptedInPostData(tt.form))
		})
	}
}
