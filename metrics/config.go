package metrics

// Config represents the metrics configuration.
type Config struct {
	Enabled bool   `long:"enabled" description:"expose prometheus metrics"`
	Path    string `long:"path" description:"path the metrics are served on by the gateway"`
}

// NewDefaultConfig returns the default metrics configuration.
func NewDefaultConfig() Config {
	return Config{
		Enabled: true,
		Path:    "/metrics",
	}
}
