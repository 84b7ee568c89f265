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
	"sort"
	"time"

	"github.com/wso2/tracker-consent-service/internal/settings/model"
	"github.com/wso2/tracker-consent-service/internal/settings/store"
	"github.com/wso2/tracker-consent-service/internal/system/cache"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/utils"
)

const snapshotCacheKey = "options"

// SettingsServiceInterface defines the service interface.
type SettingsServiceInterface interface {
	Snapshot(ctx context.Context) (model.Values, error)
	UpdateSettings(ctx context.Context, options map[string]string) (model.Values, error)
}

// SettingsService overlays stored options on deployment defaults and caches the result.
type SettingsService struct {
	store    store.OptionStoreInterface
	defaults model.Values
	cache    *cache.Cache[model.Values]
}

func NewSettingsService(optionStore store.OptionStoreInterface, defaults map[string]string, ttl time.Duration) *SettingsService {

	copied := make(model.Values, len(defaults))
	for k, v := range defaults {
		copied[k] = v
	}
	return &SettingsService{
		store:    optionStore,
		defaults: copied,
		cache:    cache.NewCache[model.Values](ttl),
	}
}

// Snapshot returns the effective options. The returned map must not be modified.
func (s *SettingsService) Snapshot(ctx context.Context) (model.Values, error) {

	if cached, ok := s.cache.Get(snapshotCacheKey); ok {
		return cached, nil
	}

	stored, err := s.store.GetOptions(ctx)
	if err != nil {
		return nil, err
	}

	values := make(model.Values, len(s.defaults)+len(stored))
	for k, v := range s.defaults {
		values[k] = v
	}
	for k, v := range stored {
		values[k] = v
	}
	s.cache.Set(snapshotCacheKey, values)
	return values, nil
}

// UpdateSettings validates and persists options, then returns the new effective snapshot.
func (s *SettingsService) UpdateSettings(ctx context.Context, options map[string]string) (model.Values, error) {

	if err := validateOptions(options); err != nil {
		return nil, err
	}
	if err := s.store.UpsertOptions(ctx, options); err != nil {
		return nil, err
	}
	s.cache.Delete(snapshotCacheKey)
	return s.Snapshot(ctx)
}

func validateOptions(options map[string]string) error {

	if len(options) == 0 {
		return errors2.NewClientError(errors2.INVALID_SETTING.WithDescription("At least one option is required."),
			http.StatusBadRequest)
	}

	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := options[key]
		kind, known := model.KnownOptions[key]
		if !known {
			return invalidSetting(fmt.Sprintf("Unknown option: %s.", key))
		}
		switch kind {
		case model.KindBool:
			if _, ok := utils.ParseBoolOption(value); !ok {
				return invalidSetting(fmt.Sprintf("Option %s must be a boolean.", key))
			}
		case model.KindInt:
			parsed, ok := utils.ParseIntOption(value)
			if !ok {
				return invalidSetting(fmt.Sprintf("Option %s must be an integer.", key))
			}
			if key == model.OptConsentDuration && (parsed < 1 || parsed > model.MaxConsentDuration) {
				return invalidSetting(fmt.Sprintf("Consent duration must be between 1 and %d days.",
					model.MaxConsentDuration))
			}
			if key == model.OptConsentBoxPosition && (parsed < 0 || parsed > 8) {
				return invalidSetting("Consent box position must be between 0 and 8.")
			}
		}
	}
	return nil
}

func invalidSetting(description string) error {
	return errors2.NewClientError(errors2.INVALID_SETTING.WithDescription(description), http.StatusBadRequest)
}
