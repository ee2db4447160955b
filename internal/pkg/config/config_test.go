package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "reorder-dashboard", cfg.App.Name)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Gateway.BaseURL)
	assert.Equal(t, domain.DefaultWarehouses(), cfg.Dashboard.Warehouses)
	assert.Equal(t, "WH3", cfg.Dashboard.DefaultWarehouse)
	assert.Equal(t, map[string]int{"default": 3, "low": 1}, cfg.Asynq.Queues)
	assert.Equal(t, int64(25<<20), cfg.UploadMaxBytes())
	assert.Empty(t, cfg.Scheduler.InventoryCron)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("REORDER_API_URL", "https://reorder.example.com")
	t.Setenv("REORDER_API_READ_TIMEOUT", "5s")
	t.Setenv("DASHBOARD_WAREHOUSES", "WH3:Bangalore, WH4:Pinjore, WH9")
	t.Setenv("DASHBOARD_DEFAULT_WAREHOUSE", "WH9")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("AUTO_SYNC_INVENTORY_CRON", "*/30 * * * *")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "https://reorder.example.com", cfg.Gateway.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Gateway.ReadTimeout)
	assert.Equal(t, []domain.Warehouse{
		{ID: "WH3", Label: "Bangalore"},
		{ID: "WH4", Label: "Pinjore"},
		{ID: "WH9", Label: "WH9"},
	}, cfg.Dashboard.Warehouses)
	assert.Equal(t, "WH9", cfg.Dashboard.DefaultWarehouse)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, "*/30 * * * *", cfg.Scheduler.InventoryCron)
	assert.Equal(t, "localhost:6380", cfg.GetRedisAddress())
	assert.Equal(t, "localhost:6380", cfg.Asynq.RedisAddr)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		errorMsg string
	}{
		{
			name:     "relative_api_url",
			env:      map[string]string{"REORDER_API_URL": "reorder.local"},
			errorMsg: "must be an absolute URL",
		},
		{
			name:     "unknown_default_warehouse",
			env:      map[string]string{"DASHBOARD_DEFAULT_WAREHOUSE": "WH7"},
			errorMsg: "not in the warehouse list",
		},
		{
			name:     "bad_cron",
			env:      map[string]string{"AUTO_SYNC_ORDERS_CRON": "every day"},
			errorMsg: "AUTO_SYNC_ORDERS_CRON",
		},
		{
			name:     "production_wildcard_origin",
			env:      map[string]string{"APP_ENV": "production", "SECURE_HEADERS": "true"},
			errorMsg: "wildcard origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "test")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(testLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Gateway.BaseURL = "MISSING_REORDER_API_URL"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredConfig))
	assert.Contains(t, err.Error(), "Gateway.BaseURL")
}

func TestProductionValidator(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:     "secure_headers_disabled",
			mutate:   func(c *Config) { c.Security.SecureHeaders = false },
			errorMsg: "secure headers",
		},
		{
			name: "tls_without_cert",
			mutate: func(c *Config) {
				c.Server.TLSEnabled = true
			},
			errorMsg: "TLS cert and key",
		},
		{
			name:     "placeholder_redis_password",
			mutate:   func(c *Config) { c.Redis.Password = "MISSING_REDIS_PASSWORD" },
			errorMsg: "redis password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = "production"
			cfg.Security.SecureHeaders = true
			cfg.Security.AllowedOrigins = []string{"https://dashboard.example.com"}
			tt.mutate(cfg)

			err := (&ProductionValidator{}).Validate(cfg)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

type fakeSecretsAPI struct {
	payload string
	err     error
	calls   int
}

func (f *fakeSecretsAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.payload)}, nil
}

func TestAWSSecretsManager_CachesSecrets(t *testing.T) {
	ctx := context.Background()
	api := &fakeSecretsAPI{payload: `{"REDIS_PASSWORD":"s3cret","AWS_ACCESS_KEY_ID":"AKIA"}`}
	sm := newAWSSecretsManager(api, "reorder/prod", testLogger())

	val, err := sm.GetSecret(ctx, SecretRedisPassword)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", val)

	_, err = sm.GetSecret(ctx, SecretAWSAccessKeyID)
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)

	_, err = sm.GetSecret(ctx, "UNKNOWN")
	assert.Error(t, err)

	require.NoError(t, sm.RefreshSecrets(ctx))
	assert.Equal(t, 3, api.calls)
}

func TestApplySecrets(t *testing.T) {
	ctx := context.Background()
	cfg := validConfig()
	api := &fakeSecretsAPI{payload: `{"REDIS_PASSWORD":"from-secrets","AWS_SECRET_ACCESS_KEY":"sk"}`}

	require.NoError(t, ApplySecrets(ctx, cfg, newAWSSecretsManager(api, "reorder/prod", testLogger())))

	assert.Equal(t, "from-secrets", cfg.Redis.Password)
	assert.Equal(t, "from-secrets", cfg.Asynq.RedisPassword)
	assert.Equal(t, "sk", cfg.AWS.SecretAccessKey)
	assert.Equal(t, "minioadmin", cfg.AWS.AccessKeyID)
}

func TestApplySecrets_Error(t *testing.T) {
	api := &fakeSecretsAPI{err: errors.New("access denied")}
	err := ApplySecrets(context.Background(), validConfig(), newAWSSecretsManager(api, "x", testLogger()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestEnvSecretsManager(t *testing.T) {
	t.Setenv(SecretRedisPassword, "env-pass")
	sm := NewEnvSecretsManager()

	secrets, err := sm.GetSecrets(context.Background(), []string{SecretRedisPassword, SecretAWSAccessKeyID})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{SecretRedisPassword: "env-pass"}, secrets)
}

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Name: "reorder-dashboard", Environment: "test"},
		Gateway:   GatewayConfig{BaseURL: "http://localhost:5000", ReadTimeout: time.Second},
		Dashboard: DashboardConfig{Warehouses: domain.DefaultWarehouses(), DefaultWarehouse: "WH3"},
		Redis:     RedisConfig{Host: "localhost", Port: "6379", PoolSize: 10},
		AWS:       AWSConfig{AccessKeyID: "minioadmin", SecretAccessKey: "minioadmin123"},
		FileProcessing: FileProcessingConfig{
			UploadMaxSizeMB: 25,
		},
		Security: SecurityConfig{RateLimitRequests: 100, AllowedOrigins: []string{"*"}},
		Server:   ServerConfig{Host: "localhost", Port: "8080"},
	}
}
