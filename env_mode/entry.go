package env_mode

import (
	"os"
	"strings"
	"sync"
)

// EnvKey selects which layered config files are loaded.
const EnvKey = "PHOTOCONV_ENV"

type Mode string

const (
	DevMode  Mode = "development"
	ProMode  Mode = "production"
	TestMode Mode = "test"
)

var (
	currentMode Mode
	modeMu      sync.RWMutex
)

func ParseEnv(env string) Mode {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "pro":
		return ProMode
	case "test", "testing":
		return TestMode
	default:
		return DevMode
	}
}

// Current returns the active mode, read once from EnvKey unless overridden
// with SetMode.
func Current() Mode {
	modeMu.RLock()
	mode := currentMode
	modeMu.RUnlock()
	if mode != "" {
		return mode
	}

	modeMu.Lock()
	defer modeMu.Unlock()
	if currentMode == "" {
		currentMode = ParseEnv(os.Getenv(EnvKey))
	}
	return currentMode
}

func SetMode(mode Mode) {
	modeMu.Lock()
	defer modeMu.Unlock()
	currentMode = mode
}

// Suffixes returns the config file suffixes recognised for the mode, in load
// order.
func (m Mode) Suffixes() []string {
	switch m {
	case DevMode:
		return []string{"dev", "development"}
	case ProMode:
		return []string{"pro", "prod", "production"}
	case TestMode:
		return []string{"test"}
	}
	return nil
}
