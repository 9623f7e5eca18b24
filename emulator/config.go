package emulator

// Config defines emulator settings.
type Config struct {
	FPS             int     // Target frames per second.
	OpcodesPerFrame int     // Number of instructions executed per frame.
	SpeedStep       float64 // Multiplier applied per speed exponent step.
	SavesDir        string  // Directory holding save files.
}

// DefaultConfig returns the default emulator configuration.
func DefaultConfig() Config {
	return Config{
		FPS:             60,
		OpcodesPerFrame: 12,
		SpeedStep:       1.2,
		SavesDir:        "saves",
	}
}
