package config

import (
	"os"
	"strconv"
	"strings"
)

// Env is the process environment captured once at startup. Lookups fall back
// to a default instead of erroring, so optional keys read cleanly; a nil Env
// behaves as empty.
type Env map[string]string

func New() Env {
	environ := os.Environ()
	env := make(Env, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		env[key] = value
	}
	return env
}

func (e Env) String(key, fallback string) string {
	if value, ok := e[key]; ok {
		return value
	}
	return fallback
}

func (e Env) Int(key string, fallback int) int {
	value, ok := e[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
