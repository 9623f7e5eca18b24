package router

// Config defines router policy settings.
type Config struct {
	MinSpeed  int8    // Lowest speed exponent reachable from the keyboard.
	MaxSpeed  int8    // Highest speed exponent reachable from the keyboard.
	SpeedStep float64 // Multiplier applied per speed exponent step.
}

// DefaultConfig returns the default router configuration.
func DefaultConfig() Config {
	return Config{
		MinSpeed:  -20,
		MaxSpeed:  20,
		SpeedStep: 1.2,
	}
}
