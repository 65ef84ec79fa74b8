package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/handsign/internal/app"
	"github.com/ayusman/handsign/internal/config"
	"github.com/ayusman/handsign/internal/server"
	"github.com/ayusman/handsign/internal/store"
	"github.com/ayusman/handsign/internal/tray"
)

// options are the command line settings that are not part of config.Config.
type options struct {
	configPath string
	webDir     string
}

// parseFlags loads the config file named by -config, then applies any
// flags that were set explicitly on top of it.
func parseFlags(args []string) (config.Config, options, error) {
	fs := flag.NewFlagSet("handsign", flag.ContinueOnError)
	def := config.Default()

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "path to a JSON config file")
	fs.StringVar(&opts.webDir, "web", "", "directory of static web files")
	addr := fs.String("addr", def.Addr, "HTTP listen address")
	dataDir := fs.String("data", def.DataDir, "data directory (default ~/.handsign)")
	camera := fs.Int("camera", def.CameraID, "camera device ID")
	interval := fs.String("interval", def.Interval, "detection interval")
	tolerance := fs.Float64("tolerance", def.Tolerance, "direction tolerance in degrees")
	threshold := fs.Float64("threshold", def.AcceptThreshold, "minimum confidence to show a sign")
	noiseFloor := fs.Float64("noise-floor", def.NoiseFloor, "drop estimates below this confidence")
	smoothing := fs.Bool("smoothing", def.Smoothing, "Kalman-smooth landmarks")
	motion := fs.Bool("motion-gate", def.MotionGate, "skip detection on still frames")
	withTray := fs.Bool("tray", def.Tray, "show the current sign in the system tray")

	if err := fs.Parse(args); err != nil {
		return def, opts, err
	}

	cfg := def
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return def, opts, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "data":
			cfg.DataDir = *dataDir
		case "camera":
			cfg.CameraID = *camera
		case "interval":
			cfg.Interval = *interval
		case "tolerance":
			cfg.Tolerance = *tolerance
		case "threshold":
			cfg.AcceptThreshold = *threshold
		case "noise-floor":
			cfg.NoiseFloor = *noiseFloor
		case "smoothing":
			cfg.Smoothing = *smoothing
		case "motion-gate":
			cfg.MotionGate = *motion
		case "tray":
			cfg.Tray = *withTray
		}
	})

	if err := cfg.Validate(); err != nil {
		return def, opts, err
	}
	return cfg, opts, nil
}

func main() {
	fmt.Println("handsign - Hand Sign Display")

	cfg, opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the store
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		log.Fatalf("Failed to resolve data directory: %v", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "handsign.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	appCfg := app.DefaultConfig()
	appCfg.Store = st
	appCfg.CameraID = cfg.CameraID
	appCfg.Interval = cfg.IntervalDuration()
	appCfg.Tolerance = cfg.Tolerance
	appCfg.AcceptThreshold = cfg.AcceptThreshold
	appCfg.NoiseFloor = cfg.NoiseFloor
	appCfg.Smoothing = cfg.Smoothing
	appCfg.MotionGate = cfg.MotionGate
	a := app.New(appCfg)

	hub := server.NewHub()
	a.Subscribe(hub.Publish)

	webDir := opts.webDir
	if webDir == "" {
		webDir = findWebDir(dataDir)
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Pipeline:  a,
		Snapshots: a.Snapshots(),
		Hub:       hub,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		log.Printf("Camera unavailable, retrying: %v", err)
	}

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	if cfg.Tray {
		t := tray.New()
		a.Subscribe(t.OnDisplay)
		t.OnToggle(a.SetEnabled)
		t.OnSettings(func() { openBrowser(localURL(cfg.Addr)) })
		t.OnQuit(stop)
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		// The tray needs the main thread on macOS.
		t.Run()
	} else {
		<-ctx.Done()
	}

	fmt.Println("Shutting down")
	a.Stop()
	hub.Close()
}

func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
