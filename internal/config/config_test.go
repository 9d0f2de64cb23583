package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Env:             "development",
		Port:            "8080",
		JWTSecret:       "secure-secret-at-least-32-chars-long",
		DBPassword:      "secure-password",
		DBSSLMode:       "disable",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero access TTL", func(c *Config) { c.AccessTokenTTL = 0 }, true},
		{"negative refresh TTL", func(c *Config) { c.RefreshTokenTTL = -time.Hour }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			"default JWT secret rejected",
			func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" },
			true,
		},
		{
			"short JWT secret rejected",
			func(c *Config) { c.JWTSecret = "short" },
			true,
		},
		{
			"default DB password rejected",
			func(c *Config) { c.DBPassword = "password" },
			true,
		},
		{
			"missing Cloudinary credentials rejected",
			func(c *Config) { c.CloudinaryName = "" },
			true,
		},
		{
			"complete production config accepted",
			func(c *Config) {},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestConfig()
			c.Env = "production"
			c.CloudinaryName = "demo"
			c.CloudinaryAPIKey = "key"
			c.CloudinaryAPISecret = "secret"
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
