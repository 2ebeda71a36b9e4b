package config

// HTTPConfig defines the REST API listener.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies the default listen address.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
