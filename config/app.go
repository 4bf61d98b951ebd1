package config

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// App is the process-wide configuration, built once at startup and injected
// into the services that need it. It is never mutated after Load returns.
type App struct {
	AdminUsername     string
	AdminPasswordHash []byte // bcrypt hash of the admin password
	SessionSigningKey []byte // HMAC key for the session cookie JWT
	SessionTTL        time.Duration

	ShortenerEndpoint string
	ShortenerAPIKey   string

	ScreenshotEndpoint string
	ScreenshotAPIKey   string
	ScreenshotBucket   string
}

// Load builds the App configuration from the environment map. The admin
// password may be supplied pre-hashed (ADMIN_PASSWORD_HASH) or in plaintext
// (ADMIN_PASSWORD), in which case it is hashed here so the plaintext never
// leaves this function.
func Load(c Env) (App, error) {
	app := App{
		AdminUsername:      c.String("ADMIN_USERNAME", ""),
		SessionSigningKey:  []byte(c.String("SESSION_SIGNING_KEY", "")),
		SessionTTL:         time.Duration(c.Int("SESSION_TTL_HOURS", 72)) * time.Hour,
		ShortenerEndpoint:  c.String("SHORTENER_ENDPOINT", ""),
		ShortenerAPIKey:    c.String("SHORTENER_API_KEY", ""),
		ScreenshotEndpoint: c.String("SCREENSHOT_ENDPOINT", ""),
		ScreenshotAPIKey:   c.String("SCREENSHOT_API_KEY", ""),
		ScreenshotBucket:   c.String("SCREENSHOT_BUCKET", ""),
	}

	if app.AdminUsername == "" {
		return App{}, errors.New("ADMIN_USERNAME is required")
	}
	if len(app.SessionSigningKey) == 0 {
		return App{}, errors.New("SESSION_SIGNING_KEY is required")
	}

	if hash := c.String("ADMIN_PASSWORD_HASH", ""); hash != "" {
		app.AdminPasswordHash = []byte(hash)
	} else if password := c.String("ADMIN_PASSWORD", ""); password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return App{}, err
		}
		app.AdminPasswordHash = hashed
	} else {
		return App{}, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}

	return app, nil
}
