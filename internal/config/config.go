package config

// Config holds client configuration values. Two fixed origins address the
// collaborators: the request/response API and the live channel endpoint.
type Config struct {
	APIOrigin     string `mapstructure:"api_origin" yaml:"api_origin"`
	ChannelOrigin string `mapstructure:"channel_origin" yaml:"channel_origin"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration pointing at a local chat server.
func Default() Config {
	return Config{
		APIOrigin:     "http://localhost:8002",
		ChannelOrigin: "ws://localhost:8002",
		LogLevel:      "info",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.APIOrigin != "" {
		c.APIOrigin = other.APIOrigin
	}
	if other.ChannelOrigin != "" {
		c.ChannelOrigin = other.ChannelOrigin
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}
