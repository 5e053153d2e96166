package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is bumped whenever .env.example gains or renames a variable.
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must be set for every deployment.
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"API_KEY",
	"ADMINISTRATOR_ADDRESS",
}

// PostgresEnvVars are additionally required unless STORE_DRIVER=sqlite.
var PostgresEnvVars = []string{
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
}

// envRule requires a group of variables when its condition holds.
type envRule struct {
	applies func() bool
	vars    []string
}

// envCheck yields a warning when it trips.
type envCheck struct {
	trips   func() bool
	message string
}

func always() bool { return true }

func envIs(name, value string) func() bool {
	return func() bool { return os.Getenv(name) == value }
}

func envIsNot(name, value string) func() bool {
	return func() bool { return os.Getenv(name) != value }
}

var envRules = []envRule{
	{applies: always, vars: RequiredEnvVars},
	{applies: envIsNot("STORE_DRIVER", StoreDriverSQLite), vars: PostgresEnvVars},
	{applies: envIs("LOOT_BACKEND", LootBackendRPC), vars: []string{"ETH_RPC_URL"}},
}

var envChecks = []envCheck{
	{
		trips:   envIs("DB_PASSWORD", exampleDBPassword),
		message: "DB_PASSWORD still holds the example value, set a real password",
	},
	{
		trips:   envIs("API_KEY", exampleAPIKey),
		message: "API_KEY still holds the example value, generate one with: openssl rand -hex 32",
	},
	{
		trips: func() bool {
			return os.Getenv("ENVIRONMENT") == "production" && os.Getenv("LOOT_BACKEND") != LootBackendRPC
		},
		message: "LOOT_BACKEND is not rpc in production, loot ownership comes from a local fixture",
	},
	{
		trips: func() bool {
			return os.Getenv("ENVIRONMENT") == "production" && os.Getenv("TRUSTED_PROXIES") == ""
		},
		message: "TRUSTED_PROXIES is empty in production, forwarded client addresses will be ignored",
	},
}

func checkSchemaVersion() error {
	got := os.Getenv("ENV_SCHEMA_VERSION")
	switch got {
	case "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set, add it to your .env file (expected: %s)", ExpectedEnvSchemaVersion)
	case ExpectedEnvSchemaVersion:
		return nil
	default:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s, compare your .env with .env.example", ExpectedEnvSchemaVersion, got)
	}
}

// ValidateEnv fails fast when the environment was written for another schema or
// lacks a variable the selected store and loot backend need.
func ValidateEnv() error {
	if err := checkSchemaVersion(); err != nil {
		return err
	}

	seen := make(map[string]bool)
	var missing []string
	for _, rule := range envRules {
		if !rule.applies() {
			continue
		}
		for _, name := range rule.vars {
			if seen[name] || os.Getenv(name) != "" {
				continue
			}
			seen[name] = true
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv, then reports settings that work but
// should not ship.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	for _, c := range envChecks {
		if c.trips() {
			warnings = append(warnings, c.message)
		}
	}
	return warnings, nil
}
