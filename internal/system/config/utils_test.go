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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ExpandsEnvAndAppliesDefaults(t *testing.T) {

	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "repository", "conf"), 0o755))
	content := `
addr:
  host: "localhost"
auth:
  jwt_secret: "${TCS_TEST_SECRET}"
site:
  name: "Example Shop"
  settings:
    mwg_consent_duration: "30"
`
	require.NoError(t, os.WriteFile(filepath.Join(home, "repository", "conf", "deployment.yaml"), []byte(content), 0o600))
	t.Setenv("TCS_TEST_SECRET", "s3cret")

	cfg, err := LoadConfig(home, "repository/conf/deployment.yaml")
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, defaultPort, cfg.Addr.Port)
	assert.Equal(t, []string{"administrator"}, cfg.Auth.AdminRoles)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
	assert.Equal(t, "30", cfg.Site.Settings["mwg_consent_duration"])
}

func TestLoadConfig_MissingFile(t *testing.T) {

	_, err := LoadConfig(t.TempDir(), "missing.yaml")
	assert.Error(t, err)
}
