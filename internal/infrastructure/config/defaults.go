package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Registration defaults
	if cfg.Registration.Lifetime == "" {
		cfg.Registration.Lifetime = "transient"
	}
	if cfg.Registration.Timeout == 0 {
		cfg.Registration.Timeout = 15 * time.Second
	}
	if cfg.Registration.MaxGenericParams == 0 {
		cfg.Registration.MaxGenericParams = 10
	}
	if cfg.Registration.MaxTypesClosingParam == 0 {
		cfg.Registration.MaxTypesClosingParam = 100
	}
	if cfg.Registration.MaxGenericRegistrations == 0 {
		cfg.Registration.MaxGenericRegistrations = 1000
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
