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

package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

const (
	defaultPort                 = 8900
	defaultNonceTTLSeconds      = 86400
	defaultRateLimitMaxRequests = 5
	defaultRateLimitWindow      = 60
	defaultSessionCookie        = "tcs_session"
)

// LoadConfig reads the deployment file, expands environment references and applies defaults.
func LoadConfig(tcsHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(tcsHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// OverrideTCSRuntime replaces the runtime configuration. Used by tests.
func OverrideTCSRuntime(conf Config) {
	applyDefaults(&conf)
	runtimeConfig = &TCSRuntime{
		Config: conf,
	}
}

func applyDefaults(cfg *Config) {

	if cfg.Addr.Port == 0 {
		cfg.Addr.Port = defaultPort
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	if cfg.Auth.NonceTTLSeconds <= 0 {
		cfg.Auth.NonceTTLSeconds = defaultNonceTTLSeconds
	}
	if len(cfg.Auth.AdminRoles) == 0 {
		cfg.Auth.AdminRoles = []string{"administrator"}
	}
	if cfg.Auth.SessionCookie == "" {
		cfg.Auth.SessionCookie = defaultSessionCookie
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "postgres"
	}
	if cfg.RateLimit.Backend == "" {
		cfg.RateLimit.Backend = "memory"
	}
	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = defaultRateLimitMaxRequests
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = defaultRateLimitWindow
	}
	if cfg.DataSource.SSLMode == "" {
		cfg.DataSource.SSLMode = "disable"
	}
}
