package config

import (
	"fmt"
	"time"
)

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	Issuer string        `koanf:"issuer"`
	TTL    time.Duration `koanf:"ttl"`
}

func (c *JWTConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT signing secret is not configured")
	}
	if c.Issuer == "" {
		return fmt.Errorf("JWT issuer is not configured")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("JWT token TTL must be greater than zero")
	}
	return nil
}
