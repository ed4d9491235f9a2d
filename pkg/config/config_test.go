package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StoreDriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 120*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.Redis.Address, "sin Redis por defecto")
	assert.Equal(t, 10, cfg.DB.MaxConns)
}

func TestFromViper_LeeValores(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "Memory")
	v.Set("DB_PORT", "6543")
	v.Set("REDIS_ADDRESS", "redis:6379")
	v.Set("LOCK_TTL_SECONDS", 30)
	v.Set("HTTP_PORT", 9090)

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverMemory, cfg.App.StoreDriver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "mongo")
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_PoolInvalido(t *testing.T) {
	v := viper.New()
	v.Set("DB_MAX_CONNS", 2)
	v.Set("DB_MIN_CONNS", 5)
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
