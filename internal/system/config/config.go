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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	// JWTSecret signs session tokens and action nonces (HS256).
	JWTSecret string `yaml:"jwt_secret"`
	// NonceTTLSeconds bounds how long an issued action nonce is accepted.
	NonceTTLSeconds int      `yaml:"nonce_ttl_seconds"`
	AdminRoles      []string `yaml:"admin_roles"`
	SessionCookie   string   `yaml:"session_cookie"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// SchemaFile is applied on start up when set, relative to the server home.
	SchemaFile string `yaml:"schema_file"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type StoreConfig struct {
	// Backend selects the durable stores: postgres, mongodb or memory.
	Backend string `yaml:"backend"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	// Backend is memory or redis.
	Backend       string `yaml:"backend"`
	MaxRequests   int    `yaml:"max_requests"`
	WindowSeconds int    `yaml:"window_seconds"`
}

type SiteConfig struct {
	Name    string `yaml:"name"`
	AjaxURL string `yaml:"ajax_url"`
	// Settings seeds option values that are not present in the option store.
	Settings map[string]string `yaml:"settings"`
	// Trackers are custom tracker registrations contributed by the deployment.
	Trackers []TrackerConfig `yaml:"trackers"`
}

type TrackerConfig struct {
	Handle      string `yaml:"handle"`
	Description string `yaml:"description"`
	SDKURL      string `yaml:"sdk_url"`
	Pattern     string `yaml:"pattern"`
	Field       string `yaml:"field"`
	CanDefer    bool   `yaml:"can_defer"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	DataSource DataSourceConfig `yaml:"datasource"`
	MongoDB    MongoDBConfig    `yaml:"mongodb"`
	Store      StoreConfig      `yaml:"store"`
	Redis      RedisConfig      `yaml:"redis"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Site       SiteConfig       `yaml:"site"`
}
