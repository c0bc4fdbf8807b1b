// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gones/internal/app"
	"gones/internal/machine"
	"gones/internal/version"
)

func main() {
	var (
		romFile    = flag.String("rom", "", "Path to NES ROM file (optional for GUI mode)")
		configFile = flag.String("config", "", "Path to configuration file")
		debug      = flag.Bool("debug", false, "Enable debug mode")
		nogui      = flag.Bool("nogui", false, "Run without GUI (headless mode)")
		help       = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}
	if *showVer {
		version.PrintBuildInfo()
		os.Exit(0)
	}

	setupGracefulShutdown()

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	application, err := app.NewApplicationWithMode(configPath, *nogui)
	if err != nil {
		log.Fatalf("failed to create application: %v", err)
	}
	if *nogui {
		application.GetConfig().Video.Backend = "headless"
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	if *debug {
		application.GetConfig().UpdateDebug(true, true, true)
	}

	if *romFile != "" {
		if err := application.LoadROM(*romFile); err != nil {
			log.Fatalf("failed to load ROM: %v", err)
		}
		if *debug {
			application.ApplyDebugSettings()
		}
	}

	if *nogui {
		if *romFile == "" {
			log.Fatal("ROM file required for headless mode")
		}
		runHeadlessMode(application)
		return
	}

	if err := application.Run(); err != nil {
		log.Fatalf("run failed: %v", err)
	}

	fmt.Printf("session: %d frames in %v (%.1f fps avg)\n",
		application.GetFrameCount(), application.GetUptime(), application.GetFPS())
}

// runHeadlessMode steps a fixed number of frames without a window, for
// smoke-testing a ROM from the command line.
func runHeadlessMode(application *app.Application) {
	const targetFrames = 120

	m := application.GetMachine()
	if m == nil {
		log.Fatal("machine not initialized")
	}

	for frame := 0; frame < targetFrames; frame++ {
		if result := m.RunUntil(machine.Budget{Frames: 1}, nil); result != machine.Done {
			log.Printf("headless: frame %d stopped early (%v)", frame, result)
			break
		}
	}

	fmt.Printf("headless: ran %d frames\n", targetFrames)
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		os.Exit(0)
	}()
}

func printUsage() {
	fmt.Println("gones - Go NES Emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones [options]                    # Start GUI mode without ROM")
	fmt.Println("  gones -rom <file> [options]        # Start with ROM loaded")
	fmt.Println("  gones -nogui -rom <file> [options] # Run headless mode")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("CONTROLS (Default):")
	fmt.Println("  Player 1:  Arrow Keys/WASD D-Pad, J A, K B, Enter Start, Space Select")
	fmt.Println("             (sdl2 backend: Arrow Keys D-Pad, X A, Z B, Enter Start, Right Shift Select)")
	fmt.Println("  Escape (2x within 3s) - Quit")
	fmt.Println("  F1-F10                - Save state slot")
	fmt.Println("  Shift+F1-F10          - Load state slot")
}
