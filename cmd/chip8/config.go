package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hexaflex/chip8/devices/fffe/buzzer"
	"github.com/hexaflex/chip8/emulator"
	"github.com/hexaflex/chip8/router"
)

// Config defines program configuration.
type Config struct {
	Programs        []string // Paths to the program files. NewProgram cycles through them.
	FPS             int      // Target frame rate.
	OpcodesPerFrame int      // Instructions executed per frame.
	ScaleFactor     int      // Amount by which each pixel is scaled.
	Fullscreen      bool     // Run in fullscreen?
	Headless        bool     // Render to the terminal instead of a window?
	PrintTrace      bool     // Print instruction trace data?
	SavesDir        string   // Directory for save files.
	SpeedStep       float64  // Speed multiplier per step.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	ec := emulator.DefaultConfig()

	var c Config
	c.FPS = ec.FPS
	c.OpcodesPerFrame = ec.OpcodesPerFrame
	c.ScaleFactor = 8
	c.SavesDir = "./saves"
	c.SpeedStep = ec.SpeedStep

	flag.Usage = func() {
		fmt.Printf("%s [options] <program file> [<program file>...]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.IntVar(&c.FPS, "fps", c.FPS, "Target frame rate. Timers tick once per frame.")
	flag.IntVar(&c.OpcodesPerFrame, "opf", c.OpcodesPerFrame, "Number of instructions executed per frame.")
	flag.IntVar(&c.ScaleFactor, "scale-factor", c.ScaleFactor, "Pixel scale factor for the display.")
	flag.BoolVar(&c.Fullscreen, "fullscreen", c.Fullscreen, "Run the display in fullscreen or windowed mode.")
	flag.BoolVar(&c.Headless, "headless", c.Headless, "Render to the terminal instead of opening a window.")
	flag.BoolVar(&c.PrintTrace, "trace", c.PrintTrace, "Print a disassembly of every executed instruction.")
	flag.StringVar(&c.SavesDir, "saves", c.SavesDir, "Directory for quick saves and save files.")
	flag.Float64Var(&c.SpeedStep, "speed-step", c.SpeedStep, "Speed multiplier applied by each speed up/down step.")

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 || c.FPS <= 0 || c.OpcodesPerFrame <= 0 || c.ScaleFactor <= 0 || c.SpeedStep <= 1 {
		flag.Usage()
		os.Exit(1)
	}

	c.Programs = flag.Args()
	return &c
}

func (c *Config) emulatorConfig() emulator.Config {
	return emulator.Config{
		FPS:             c.FPS,
		OpcodesPerFrame: c.OpcodesPerFrame,
		SpeedStep:       c.SpeedStep,
		SavesDir:        c.SavesDir,
	}
}

func (c *Config) routerConfig() router.Config {
	rc := router.DefaultConfig()
	rc.SpeedStep = c.SpeedStep
	return rc
}

func (c *Config) buzzerConfig() buzzer.Config {
	bc := buzzer.DefaultConfig()
	bc.SpeedStep = c.SpeedStep
	return bc
}
