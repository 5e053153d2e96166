package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseEnv sets the minimum a postgres-backed, static-loot deployment needs
func baseEnv(t *testing.T) {
	t.Helper()
	clearEnvVars(t)
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	t.Setenv("API_KEY", "k")
	t.Setenv("ADMINISTRATOR_ADDRESS", testAdmin)
	for _, v := range PostgresEnvVars {
		t.Setenv(v, "test_value")
	}
}

func TestValidateEnv_SchemaVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr string
	}{
		{name: "missing", version: "", wantErr: "ENV_SCHEMA_VERSION is not set"},
		{name: "outdated", version: "0.9", wantErr: "expected 1.0, got 0.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseEnv(t)
			t.Setenv("ENV_SCHEMA_VERSION", tt.version)

			err := ValidateEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateEnv_Rules(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T)
		wantMissing []string
	}{
		{
			name:  "complete postgres deployment",
			setup: func(t *testing.T) {},
		},
		{
			name: "admin and db host missing",
			setup: func(t *testing.T) {
				t.Setenv("ADMINISTRATOR_ADDRESS", "")
				t.Setenv("DB_HOST", "")
			},
			wantMissing: []string{"ADMINISTRATOR_ADDRESS", "DB_HOST"},
		},
		{
			name: "sqlite needs no postgres settings",
			setup: func(t *testing.T) {
				for _, v := range PostgresEnvVars {
					t.Setenv(v, "")
				}
				t.Setenv("STORE_DRIVER", StoreDriverSQLite)
			},
		},
		{
			name:        "rpc loot backend needs a node",
			setup:       func(t *testing.T) { t.Setenv("LOOT_BACKEND", LootBackendRPC) },
			wantMissing: []string{"ETH_RPC_URL"},
		},
		{
			name: "rpc loot backend with a node",
			setup: func(t *testing.T) {
				t.Setenv("LOOT_BACKEND", LootBackendRPC)
				t.Setenv("ETH_RPC_URL", "http://localhost:8545")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseEnv(t)
			tt.setup(t)

			err := ValidateEnv()
			if len(tt.wantMissing) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "missing required environment variables")
			for _, name := range tt.wantMissing {
				assert.Contains(t, err.Error(), name)
			}
		})
	}
}

func TestValidateEnvWithWarnings(t *testing.T) {
	t.Run("example secrets", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("DB_PASSWORD", exampleDBPassword)
		t.Setenv("API_KEY", exampleAPIKey)

		warnings, err := ValidateEnvWithWarnings()
		require.NoError(t, err)
		require.Len(t, warnings, 2)
		assert.Contains(t, warnings[0], "DB_PASSWORD")
		assert.Contains(t, warnings[1], "API_KEY")
	})

	t.Run("production without rpc or proxies", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("ENVIRONMENT", "production")

		warnings, err := ValidateEnvWithWarnings()
		require.NoError(t, err)
		require.Len(t, warnings, 2)
		assert.Contains(t, warnings[0], "LOOT_BACKEND")
		assert.Contains(t, warnings[1], "TRUSTED_PROXIES")
	})

	t.Run("clean production", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("LOOT_BACKEND", LootBackendRPC)
		t.Setenv("ETH_RPC_URL", "http://localhost:8545")
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8")

		warnings, err := ValidateEnvWithWarnings()
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("invalid env returns no warnings", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("API_KEY", "")

		warnings, err := ValidateEnvWithWarnings()
		assert.Error(t, err)
		assert.Nil(t, warnings)
	})
}
