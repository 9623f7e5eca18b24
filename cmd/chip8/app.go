package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/cpu"
	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/fffe/buzzer"
	"github.com/hexaflex/chip8/devices/fffe/display"
	"github.com/hexaflex/chip8/devices/fffe/gamepad"
	"github.com/hexaflex/chip8/devices/fffe/term"
	"github.com/hexaflex/chip8/devices/fffe/vsync"
	"github.com/hexaflex/chip8/emulator"
	"github.com/hexaflex/chip8/event"
	"github.com/hexaflex/chip8/router"
	"github.com/hexaflex/chip8/screen"
)

// App defines application context.
type App struct {
	config   *Config            // Application configuration.
	window   *glfw.Window       // OpenGL/GLFW context.
	router   *router.Router     // Event bus between emulator and devices.
	emulator *emulator.Emulator // VM with program to be run.
	display  *display.Device    // Window display peripheral.
	gamepad  *gamepad.Device    // Gamepad peripheral.
	required devices.Map        // Devices the program cannot run without.
	optional devices.Map        // Devices which may fail to start.
	program  int                // Index of the current program in config.Programs.
	windowed [4]int             // Window position and size before going fullscreen.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	var a App
	a.config = config
	a.router = router.New(config.routerConfig())

	var trace cpu.TraceFunc
	if config.PrintTrace {
		trace = printTrace
	}

	commands := a.router.Subscribe(emulator.Interests()...)
	a.emulator = emulator.New(config.emulatorConfig(), a.router.Send, commands, trace)

	a.required.Connect(vsync.New(config.FPS))
	a.optional.Connect(buzzer.New(config.buzzerConfig()))

	if config.Headless {
		a.required.Connect(term.New(term.DefaultConfig()))
	} else {
		a.display = display.New(&a)
		a.gamepad = gamepad.New()
		a.required.Connect(a.display)
		a.optional.Connect(a.gamepad)
	}

	return &a
}

// Run runs the application and does not return until it is finished
// or an error occured during initialization.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	routerDone := make(chan struct{})

	go func() {
		defer close(routerDone)
		a.router.Run(ctx)
	}()

	defer func() {
		cancel()
		<-routerDone
	}()

	log.Println(Version())

	if a.config.Headless {
		return a.runHeadless()
	}

	return a.runWindowed()
}

func (a *App) runHeadless() error {
	if err := a.startup(); err != nil {
		return err
	}

	defer a.shutdown()
	return a.runPrograms()
}

func (a *App) runWindowed() error {
	if err := a.initGL(); err != nil {
		return err
	}

	defer a.dispose()

	if err := a.startup(); err != nil {
		return err
	}

	defer a.shutdown()
	printHelp()

	errc := make(chan error, 1)
	go func() {
		errc <- a.runPrograms()
	}()

	for {
		select {
		case err := <-errc:
			return err
		default:
		}

		if a.window.ShouldClose() {
			a.window.SetShouldClose(false)
			a.router.Send(event.Terminate{})
		}

		a.gamepad.Update()
		a.display.Update()
		glfw.WaitEventsTimeout(0.002)
	}
}

// startup starts all devices. Failing optional devices are reported
// and otherwise ignored.
func (a *App) startup() error {
	if err := a.required.Startup(a.router); err != nil {
		a.required.Shutdown()
		return err
	}

	if err := a.optional.Startup(a.router); err != nil {
		log.Println("warning:", err)
	}

	return nil
}

func (a *App) shutdown() {
	if err := a.optional.Shutdown(); err != nil {
		log.Println("warning:", err)
	}
	if err := a.required.Shutdown(); err != nil {
		log.Println("warning:", err)
	}
}

// runPrograms runs the emulator until it quits, loading the next program
// or reloading the current one as requested.
func (a *App) runPrograms() error {
	for {
		if err := a.loadProgram(); err != nil {
			return err
		}

		end, err := a.emulator.Run(context.Background())
		if err != nil {
			return err
		}

		switch end {
		case emulator.Quit:
			return nil
		case emulator.NewProgram:
			a.program = (a.program + 1) % len(a.config.Programs)
		}
	}
}

// loadProgram loads the current program from disk and resets the cpu.
func (a *App) loadProgram() error {
	file := a.config.Programs[a.program]
	log.Println("loading", file)

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	return errors.Wrapf(a.emulator.Load(data), "%s", file)
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

// initGL initializes GLFW and openGL.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor

	width := screen.Width * a.config.ScaleFactor
	height := screen.Height * a.config.ScaleFactor
	a.windowed = [4]int{100, 100, width, height}

	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()

		width = mode.Width
		height = mode.Height
	}

	a.window, err = glfw.CreateWindow(width, height, fmt.Sprintf("%s %s", AppName, AppVersion), monitor, nil)
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)
	a.window.SetMouseButtonCallback(a.mouseButtonCallback)
	a.window.SetCursorPosCallback(a.cursorPosCallback)
	a.window.SetFocusCallback(a.focusCallback)
	a.window.SetFramebufferSizeCallback(a.framebufferSizeCallback)

	glfw.SwapInterval(1)

	err = gl.Init()
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "gl.Init failed")
	}

	fw, fh := a.window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fw), int32(fh))
	gl.ClearColor(0, 0, 0, 1.0)
	return nil
}

// SwapBuffers presents the rendered frame.
func (a *App) SwapBuffers() {
	a.window.SwapBuffers()
}

// ToggleFullscreen switches between fullscreen and windowed mode.
func (a *App) ToggleFullscreen() {
	if a.window.GetMonitor() != nil {
		w := a.windowed
		a.window.SetMonitor(nil, w[0], w[1], w[2], w[3], 0)
		return
	}

	x, y := a.window.GetPos()
	w, h := a.window.GetSize()
	a.windowed = [4]int{x, y, w, h}

	monitor := glfw.GetPrimaryMonitor()
	mode := monitor.GetVideoMode()
	a.window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}

// printTrace prints the disassembly of an executed instruction.
func printTrace(pc uint16, instr arch.Instruction) {
	fmt.Printf("%04x %04x  %s\n", pc, instr.Raw, instr)
}

// printHelp writes a short overview of supported shortcut keys to stdout.
func printHelp() {
	var sb strings.Builder
	sb.WriteString("shortcut keys:\n")
	sb.WriteString(" 1234/QWER/ASDF/ZXCV  Hex keypad 123C/456D/789E/A0BF.\n")
	sb.WriteString(" ESC      Pause/Resume emulation.\n")
	sb.WriteString(" F1       Reset speed.\n")
	sb.WriteString(" F2/F3    Decrease/Increase speed.\n")
	sb.WriteString(" F4       Enable/Disable cheat mode: mouse buttons set and clear pixels.\n")
	sb.WriteString(" F5/F8    Quick save/Quick load.\n")
	sb.WriteString(" F6       Restart the program.\n")
	sb.WriteString(" F7       Load the next program.\n")
	sb.WriteString(" F9/F10   Save/Load the default save file.\n")
	sb.WriteString(" F11      Toggle fullscreen.")
	log.Println(sb.String())
}
