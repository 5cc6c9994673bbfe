package config

import (
	"fmt"
	"time"
)

// FirebaseConfig configures verification of Firebase ID tokens on admin routes.
// When disabled, mutation endpoints are left unauthenticated (local development).
type FirebaseConfig struct {
	Enabled     bool          `koanf:"enabled"`
	ProjectID   string        `koanf:"projectId"`
	MinInterval time.Duration `koanf:"minInterval"`
}

func (c *FirebaseConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ProjectID == "" {
		return fmt.Errorf("firebase auth is enabled but project ID is not configured")
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("firebase JWKS refresh interval must be greater than zero")
	}
	return nil
}
