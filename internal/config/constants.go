package config

import "time"

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// Loot oracle backends
const (
	LootBackendStatic = "static"
	LootBackendRPC    = "rpc"
)

const defaultShutdownTimeout = 15 * time.Second

// Placeholder values shipped in .env.example
const (
	exampleDBPassword = "change_this_secure_password"
	exampleAPIKey     = "generate_with_openssl_rand_hex_32"
)
