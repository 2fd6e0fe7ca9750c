package config

import "time"

// RegistrationConfig drives the mediator registration pass: the handler
// lifetime, the generic safety limits and the pass timeout.
// A zero limit disables that particular limit.
type RegistrationConfig struct {
	Lifetime                string        `mapstructure:"lifetime" validate:"oneof=singleton transient"`
	Timeout                 time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxGenericParams        int           `mapstructure:"max_generic_params" validate:"gte=0"`
	MaxTypesClosingParam    int           `mapstructure:"max_types_closing_param" validate:"gte=0"`
	MaxGenericRegistrations int           `mapstructure:"max_generic_registrations" validate:"gte=0"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// MetricsConfig controls prometheus metrics collection
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
