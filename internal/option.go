package internal

// Option configures the serve-mode application before Run starts it.
type Option func(*application)

type application struct {
	config *Config
}

// WithConfig supplies the loaded configuration; Run falls back to
// defaults when it is never applied.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}
