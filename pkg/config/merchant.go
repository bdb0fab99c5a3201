package config

import "fmt"

// MerchantConfig holds the credentials shared with the external payment
// processor. Both values feed the payment integrity hash, so a deployment
// without them must not start.
type MerchantConfig struct {
	ID     string `koanf:"id"`
	Secret string `koanf:"secret"`
}

func (c *MerchantConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("merchant ID is not configured")
	}
	if c.Secret == "" {
		return fmt.Errorf("merchant secret is not configured")
	}
	return nil
}
