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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	blockerHandler "github.com/wso2/tracker-consent-service/internal/blocker/handler"
	consentHandler "github.com/wso2/tracker-consent-service/internal/consent/handler"
	consentService "github.com/wso2/tracker-consent-service/internal/consent/service"
	consentStore "github.com/wso2/tracker-consent-service/internal/consent/store"
	formService "github.com/wso2/tracker-consent-service/internal/forms/service"
	formStore "github.com/wso2/tracker-consent-service/internal/forms/store"
	healthHandler "github.com/wso2/tracker-consent-service/internal/health_check/handler"
	healthService "github.com/wso2/tracker-consent-service/internal/health_check/service"
	settingsHandler "github.com/wso2/tracker-consent-service/internal/settings/handler"
	settingsService "github.com/wso2/tracker-consent-service/internal/settings/service"
	settingsStore "github.com/wso2/tracker-consent-service/internal/settings/store"
	"github.com/wso2/tracker-consent-service/internal/system/authn"
	"github.com/wso2/tracker-consent-service/internal/system/config"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
	tcsContext "github.com/wso2/tracker-consent-service/internal/system/context"
	"github.com/wso2/tracker-consent-service/internal/system/database/lock"
	"github.com/wso2/tracker-consent-service/internal/system/database/provider"
	"github.com/wso2/tracker-consent-service/internal/system/log"
	"github.com/wso2/tracker-consent-service/internal/system/managers"
	"github.com/wso2/tracker-consent-service/internal/system/metrics"
	"github.com/wso2/tracker-consent-service/internal/system/ratelimit"
	"github.com/wso2/tracker-consent-service/internal/system/security"
	trackerModel "github.com/wso2/tracker-consent-service/internal/tracker/model"
	"github.com/wso2/tracker-consent-service/internal/tracker/registry"
)

const (
	configFile          = "/repository/conf/deployment.yaml"
	settingsCacheTTL    = 30 * time.Second
	shutdownTimeout     = 15 * time.Second
	recordCollection    = "consent_records"
	optionCollection    = "options"
	formCollection      = "forms"
	mongoConnectTimeout = 10 * time.Second
)

// backends holds the stores selected by store.backend.
type backends struct {
	records consentStore.RecordStore
	options settingsStore.OptionStoreInterface
	forms   formStore.FormStore
	lock    lock.DistributedLock
	checks  map[string]healthService.ReadinessCheck
	closers []func(context.Context) error
}

func main() {
	tcsHome := getTCSHome()

	envFiles, err := filepath.Glob(filepath.Join(tcsHome, "config", "*.env"))
	if err != nil || len(envFiles) == 0 {
		fmt.Fprintln(os.Stderr, "No .env files found in config directory")
	} else {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	tcsConfig, err := config.LoadConfig(tcsHome, configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize runtime configurations.
	if err := config.InitializeTCSRuntime(tcsHome, tcsConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(tcsConfig.Log.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()
	logger.Info("Using server home", log.String("tcsHome", tcsHome))

	ctx := context.Background()
	stores, err := initBackends(ctx, tcsHome, tcsConfig)
	if err != nil {
		logger.Fatal("Failed to initialize the consent store", log.Error(err))
	}

	limiter, err := initLimiter(tcsConfig, stores)
	if err != nil {
		logger.Fatal("Failed to initialize the rate limiter", log.Error(err))
	}

	serverAddr := fmt.Sprintf("%s:%d", tcsConfig.Addr.Host, tcsConfig.Addr.Port)
	handler := metrics.Instrument(tcsContext.TraceMiddleware(enableCORS(initMultiplexer(tcsConfig, stores, limiter),
		tcsConfig.Auth.CORSAllowedOrigins)))
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Tracker consent service started", log.String("address", serverAddr),
			log.String("backend", tcsConfig.Store.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve requests", log.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", log.Error(err))
	}
	for _, closeFn := range stores.closers {
		if err := closeFn(shutdownCtx); err != nil {
			logger.Error("Failed to close a backend connection", log.Error(err))
		}
	}
	logger.Info("Tracker consent service stopped")
}

func initBackends(ctx context.Context, tcsHome string, cfg *config.Config) (*backends, error) {

	switch cfg.Store.Backend {
	case constants.BackendPostgres:
		dbProvider := provider.NewDBProvider()
		if cfg.DataSource.SchemaFile != "" {
			dbClient, err := dbProvider.GetDBClient()
			if err != nil {
				return nil, err
			}
			err = dbClient.InitDatabase(tcsHome, cfg.DataSource.SchemaFile)
			_ = dbClient.Close()
			if err != nil {
				return nil, err
			}
		}
		return &backends{
			records: consentStore.NewConsentRecordStore(dbProvider),
			options: settingsStore.NewOptionStore(dbProvider),
			forms:   formStore.NewPostgresFormStore(dbProvider),
			lock:    lock.NewPostgresLock(dbProvider),
			checks:  map[string]healthService.ReadinessCheck{"postgres": healthService.PostgresCheck(dbProvider)},
			closers: []func(context.Context) error{func(context.Context) error { return provider.ClosePool() }},
		}, nil

	case constants.BackendMongoDB:
		connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoDB.URI))
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB.Database)
		return &backends{
			records: consentStore.NewMongoConsentRecordStore(db, recordCollection),
			options: settingsStore.NewMongoOptionStore(db, optionCollection),
			forms:   formStore.NewMongoFormStore(db, formCollection),
			lock:    lock.NewLocalLock(),
			checks:  map[string]healthService.ReadinessCheck{"mongodb": healthService.MongoCheck(client)},
			closers: []func(context.Context) error{client.Disconnect},
		}, nil

	case constants.BackendMemory:
		log.GetLogger().Warn("Consent records are kept in memory and are lost on restart")
		return &backends{
			records: consentStore.NewMemoryConsentRecordStore(),
			options: settingsStore.NewMemoryOptionStore(),
			forms:   formStore.NewMemoryFormStore(),
			lock:    lock.NewLocalLock(),
			checks:  map[string]healthService.ReadinessCheck{},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

func initLimiter(cfg *config.Config, stores *backends) (ratelimit.Limiter, error) {

	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	switch cfg.RateLimit.Backend {
	case constants.BackendMemory:
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, window), nil
	case constants.BackendRedis:
		client, err := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		stores.checks["redis"] = healthService.RedisCheck(client)
		stores.closers = append(stores.closers, func(context.Context) error { return client.Close() })
		return ratelimit.NewRedisLimiter(client, cfg.RateLimit.MaxRequests, window), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.RateLimit.Backend)
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer(cfg *config.Config, stores *backends, limiter ratelimit.Limiter) *http.ServeMux {

	secret := []byte(cfg.Auth.JWTSecret)
	nonces := authn.NewNonceIssuer(secret, time.Duration(cfg.Auth.NonceTTLSeconds)*time.Second)
	guard := security.NewGuard(secret, cfg.Auth.SessionCookie, cfg.Auth.AdminRoles)

	settings := settingsService.NewSettingsService(stores.options, cfg.Site.Settings, settingsCacheTTL)
	forms := formService.NewFormService(stores.forms)
	consents := consentService.NewConsentService(stores.records, stores.lock)

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux, managers.Handlers{
		Guard:    guard,
		Consent:  consentHandler.NewConsentHandler(consents, forms, nonces, limiter),
		Blocker:  blockerHandler.NewBlockerHandler(settings, configuredTrackers(cfg), nonces, cfg.Site.AjaxURL, cfg.Site.Name, guard.AdminRoles()),
		Settings: settingsHandler.NewSettingsHandler(settings),
		Health:   healthHandler.NewHealthHandler(healthService.NewHealthCheckService(stores.checks)),
	})

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Error("Failed to register the services.", log.Error(err))
	}
	return mux
}

func configuredTrackers(cfg *config.Config) registry.StaticProvider {

	trackers := make(registry.StaticProvider, 0, len(cfg.Site.Trackers))
	for _, t := range cfg.Site.Trackers {
		trackers = append(trackers, trackerModel.CustomTracker{
			Handle:      t.Handle,
			Pattern:     t.Pattern,
			Field:       t.Field,
			Description: t.Description,
			SDKURL:      t.SDKURL,
			CanDefer:    t.CanDefer,
		})
	}
	return trackers
}

func enableCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range allowedOrigins {
			if allowed == "*" || strings.EqualFold(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Trace-Id")
				w.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Trace-Id")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				break
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getTCSHome() string {

	// Parse project directory from command line arguments.
	projectHomeFlag := flag.String("tcsHome", "", "Path to tracker consent service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	return dir
}
