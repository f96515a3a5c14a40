package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "hireboard", cfg.AppName)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, int64(5<<20), cfg.MaxResumeBytes)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("SWEEP_INTERVAL", "not-a-duration")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	t.Setenv("DB_MAX_CONNS", "25")

	cfg := Load()

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.False(t, cfg.MailSendEnabled)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433", DBName: "jobs", DBSSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/jobs?sslmode=require", cfg.PostgresDSN())
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test ", ElasticsearchAddrs: ""}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}
