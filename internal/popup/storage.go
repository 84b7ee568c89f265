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
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/wso2/tracker-consent-service/internal/system/log"
)

// LocalStorage is the primary ephemeral store. It holds the decision timestamp.
type LocalStorage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
	RemoveItem(key string)
}

// MemoryLocalStorage is a LocalStorage held in process memory.
type MemoryLocalStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryLocalStorage() *MemoryLocalStorage {
	return &MemoryLocalStorage{items: map[string]string{}}
}

func (s *MemoryLocalStorage) GetItem(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	return value, ok
}

func (s *MemoryLocalStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryLocalStorage) RemoveItem(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// CookieStorage is the fallback store. A cookie only tells whether a decision is present; the
// duration is enforced through its expiry.
type CookieStorage struct {
	jar     http.CookieJar
	siteURL *url.URL
}

// NewCookieStorage returns a cookie store scoped to siteURL. A nil jar gets a fresh cookiejar.
func NewCookieStorage(jar http.CookieJar, siteURL string) (*CookieStorage, error) {

	parsed, err := url.Parse(siteURL)
	if err != nil {
		return nil, err
	}
	if jar == nil {
		if jar, err = cookiejar.New(nil); err != nil {
			return nil, err
		}
	}
	return &CookieStorage{jar: jar, siteURL: parsed}, nil
}

func (s *CookieStorage) present(key string) bool {
	for _, cookie := range s.jar.Cookies(s.siteURL) {
		if cookie.Name == key {
			return true
		}
	}
	return false
}

func (s *CookieStorage) set(key string, expires time.Time) {
	s.jar.SetCookies(s.siteURL, []*http.Cookie{{
		Name:    key,
		Value:   "true",
		Path:    "/",
		Expires: expires,
		Secure:  true,
	}})
}

func (s *CookieStorage) remove(key string) {
	s.jar.SetCookies(s.siteURL, []*http.Cookie{{Name: key, Path: "/", MaxAge: -1}})
}

// DecisionStore reads and writes the ephemeral accept and reject entries.
type DecisionStore struct {
	local   LocalStorage
	cookies *CookieStorage
	now     func() time.Time
}

// NewDecisionStore returns a store over local storage, falling back to cookies when local is nil
// or refuses a write. Either may be nil, but not both.
func NewDecisionStore(local LocalStorage, cookies *CookieStorage) *DecisionStore {
	return &DecisionStore{local: local, cookies: cookies, now: time.Now}
}

// HasStoredDecision reports whether key holds a decision younger than maxAgeDays.
func (s *DecisionStore) HasStoredDecision(key string, maxAgeDays int) bool {

	if s.local != nil {
		if raw, ok := s.local.GetItem(key); ok {
			stored, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return false
			}
			now := s.now()
			return !now.Before(stored) && now.Before(stored.AddDate(0, 0, maxAgeDays))
		}
	}
	if s.cookies != nil {
		return s.cookies.present(key)
	}
	return false
}

// StoreDecision records a decision made now.
func (s *DecisionStore) StoreDecision(key string, maxAgeDays int) {

	now := s.now()
	if s.local != nil {
		err := s.local.SetItem(key, now.UTC().Format(time.RFC3339Nano))
		if err == nil {
			return
		}
		log.GetLogger().Warn("Local storage refused the consent decision, falling back to a cookie",
			log.String("key", key), log.Error(err))
	}
	if s.cookies != nil {
		s.cookies.set(key, now.AddDate(0, 0, maxAgeDays))
	}
}

// ClearDecision removes key from both mechanisms.
func (s *DecisionStore) ClearDecision(key string) {

	if s.local != nil {
		s.local.RemoveItem(key)
	}
	if s.cookies != nil {
		s.cookies.remove(key)
	}
}
