package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validEnv() Env {
	return Env{
		"ADMIN_USERNAME":      "admin",
		"ADMIN_PASSWORD":      "hunter2hunter2",
		"SESSION_SIGNING_KEY": "0123456789abcdef",
	}
}

func TestLoadHashesPlaintextPassword(t *testing.T) {
	app, err := Load(validEnv())
	require.NoError(t, err)

	// The plaintext never survives Load, only the bcrypt hash does.
	assert.NotEqual(t, "hunter2hunter2", string(app.AdminPasswordHash))
	assert.NoError(t, bcrypt.CompareHashAndPassword(app.AdminPasswordHash, []byte("hunter2hunter2")))
}

func TestLoadPrefersPrecomputedHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	env := validEnv()
	env["ADMIN_PASSWORD_HASH"] = string(hash)

	app, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, hash, app.AdminPasswordHash)
}

func TestLoadDefaults(t *testing.T) {
	app, err := Load(validEnv())
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, app.SessionTTL)
}

func TestLoadSessionTTLOverride(t *testing.T) {
	env := validEnv()
	env["SESSION_TTL_HOURS"] = "24"

	app, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, app.SessionTTL)
}

func TestEnvLookupFallbacks(t *testing.T) {
	env := Env{"PORT": "9090", "BROKEN": "not-a-number"}

	assert.Equal(t, "9090", env.String("PORT", "8080"))
	assert.Equal(t, "8080", env.String("MISSING", "8080"))
	assert.Equal(t, 7, env.Int("BROKEN", 7))
	assert.Equal(t, 7, env.Int("MISSING", 7))

	var empty Env
	assert.Equal(t, "fallback", empty.String("ANY", "fallback"))
	assert.Equal(t, 3, empty.Int("ANY", 3))
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{"ADMIN_USERNAME", "SESSION_SIGNING_KEY", "ADMIN_PASSWORD"} {
		env := validEnv()
		delete(env, key)

		_, err := Load(env)
		assert.Error(t, err, "missing %s should fail", key)
	}
}
