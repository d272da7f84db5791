package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://localhost/bracket?sslmode=disable",
		"JWT_SECRET_KEY": "secret",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, AdvancementModeSQL, cfg.AdvancementMode)
	assert.Equal(t, 10*time.Second, cfg.AdvancementTimeout)
	assert.Equal(t, 2*time.Second, cfg.RefreshDelay)
	assert.Zero(t, cfg.AdvancementRateLimit)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestFromEnvFull(t *testing.T) {
	env := baseEnv()
	env["SERVER_PORT"] = "9000"
	env["ADVANCEMENT_MODE"] = "RPC"
	env["ADVANCEMENT_RPC_URL"] = "https://project.supabase.co/rest/v1"
	env["ADVANCEMENT_API_KEY"] = "anon"
	env["ADVANCEMENT_TIMEOUT"] = "3s"
	env["ADVANCEMENT_RATE_LIMIT"] = "2.5"
	env["REFRESH_DELAY"] = "0s"
	env["CORS_ALLOWED_ORIGINS"] = "https://club.example.com, http://localhost:5173 ,"
	env["R2_BUCKET_NAME"] = "archive"

	cfg, err := FromEnv(envMap(env))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, AdvancementModeRPC, cfg.AdvancementMode)
	assert.Equal(t, "anon", cfg.AdvancementAPIKey)
	assert.Equal(t, 3*time.Second, cfg.AdvancementTimeout)
	assert.Equal(t, 2.5, cfg.AdvancementRateLimit)
	assert.Zero(t, cfg.RefreshDelay)
	assert.Equal(t, []string{"https://club.example.com", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "archive", cfg.R2BucketName)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]string
	}{
		{name: "no database url", patch: map[string]string{"DATABASE_URL": ""}},
		{name: "no jwt secret", patch: map[string]string{"JWT_SECRET_KEY": ""}},
		{name: "port not a number", patch: map[string]string{"SERVER_PORT": "http"}},
		{name: "port out of range", patch: map[string]string{"SERVER_PORT": "70000"}},
		{name: "unknown mode", patch: map[string]string{"ADVANCEMENT_MODE": "grpc"}},
		{name: "rpc without url", patch: map[string]string{"ADVANCEMENT_MODE": "rpc"}},
		{name: "bad timeout", patch: map[string]string{"ADVANCEMENT_TIMEOUT": "soon"}},
		{name: "negative refresh delay", patch: map[string]string{"REFRESH_DELAY": "-1s"}},
		{name: "bad rate limit", patch: map[string]string{"ADVANCEMENT_RATE_LIMIT": "-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			for k, v := range tt.patch {
				env[k] = v
			}
			_, err := FromEnv(envMap(env))
			assert.Error(t, err)
		})
	}
}
