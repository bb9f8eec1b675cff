// gameshell is the runtime shell for the game: it owns the process-wide
// startup record, the owner-thread event loop, and the script console
// that the rest of the engine builds on.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"gameshell/internal/appconfig"
	"gameshell/internal/appenv"
	"gameshell/internal/config"
	"gameshell/internal/mainloop"
	"gameshell/internal/scripting"
	"gameshell/internal/stallmon"
	"gameshell/internal/stdioconsole"
	"gameshell/internal/telemetry"

	"go.opentelemetry.io/otel/trace"
)

// defaultConfigPath is used when neither flag nor environment names one.
const defaultConfigPath = "gameshell.json"

// Version information injected at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func init() {
	// The windowing and rendering subsystems require top-level control
	// to stay on the startup thread; pin before anything else runs.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// setupTelemetry initializes tracing and returns a tracer plus cleanup
// function. Without a configured OTLP endpoint it returns a no-op tracer.
func setupTelemetry() (trace.Tracer, func(), error) {
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse OTEL config: %w", err)
	}

	if !otelCfg.Enabled() {
		return telemetry.NoopTracer(), func() {}, nil
	}

	tp, err := telemetry.InitProvider(otelCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OTEL provider: %w", err)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.ShutdownProvider(tp, shutdownCtx); err != nil {
			log.Printf("Error shutting down OTEL provider: %v", err)
		}
	}

	return tp.Tracer("gameshell"), cleanup, nil
}

// shellRuntime is the surface scripts see, backed by the live runtime.
type shellRuntime struct {
	loop  *mainloop.Loop
	store *appconfig.Store
	args  []string
}

func (r *shellRuntime) Arguments() []string { return r.args }
func (r *shellRuntime) IsMainThread() bool  { return appenv.Get().IsOnOwnerThread() }
func (r *shellRuntime) Quit()               { r.loop.Quit() }

func (r *shellRuntime) ConfigString(key, def string) string {
	return r.store.String(key, def)
}

// watchConfig reloads the app config on the owner thread whenever the
// backing file changes.
func watchConfig(ctx context.Context, store *appconfig.Store, loop *mainloop.Loop) {
	err := store.Watch(ctx, func() {
		loop.Post(func() {
			if err := store.Reload(); err != nil {
				log.Printf("Config reload failed: %v", err)
				return
			}
			log.Printf("Config reloaded from %s", store.Path())
		})
	})
	if err != nil {
		// Hot reload is a convenience; a missing watch is not fatal.
		log.Printf("Config watch unavailable: %v", err)
	}
}

func run() error {
	cfg, err := config.ParseArgs(os.Args)
	if err != nil {
		return err
	}

	envCfg, err := config.ParseEnvConfig()
	if err != nil {
		return err
	}
	cfg.ApplyEnv(envCfg)

	// Construct and publish the process context. This goroutine was
	// pinned in init, so the captured thread id stays the owner thread
	// for the rest of the process.
	pc := appenv.NewProcessContext(os.Args)
	appenv.Publish(pc)

	mode := "windowed"
	if cfg.Headless {
		mode = "headless"
	}
	log.Printf("Starting gameshell %s (commit: %s) pid=%d owner_tid=%d argc=%d mode=%s",
		version, commit, os.Getpid(), pc.OwnerThreadID(), pc.ArgumentCount(), mode)

	tracer, cleanupTelemetry, err := setupTelemetry()
	if err != nil {
		return err
	}
	defer cleanupTelemetry()

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = defaultConfigPath
	}
	store, err := appconfig.Load(configPath)
	if err != nil {
		return err
	}

	loop := mainloop.New(tracer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchConfig(ctx, store, loop)

	rt := &shellRuntime{loop: loop, store: store, args: cfg.Args}
	console := scripting.New(rt)

	sessionCtx, sessionSpan := tracer.Start(ctx, "gameshell.session")
	defer sessionSpan.End()

	stallThreshold := time.Duration(store.Int("mainloop_stall_ms", 250)) * time.Millisecond
	monitor := stallmon.New(stallThreshold, loop.LastBeat, sessionSpan)
	monitor.Start(sessionCtx)

	if !envCfg.WrapperManaged && !envCfg.DisableConsole {
		stdio := stdioconsole.New(loop, console.Eval, os.Stdin, os.Stdout)
		stdio.Start(ctx)
	}

	if cfg.ScriptPath != "" {
		scriptPath := cfg.ScriptPath
		loop.Post(func() {
			if err := console.RunFile(scriptPath); err != nil {
				log.Printf("Boot script failed: %v", err)
			}
		})
	}
	if cfg.ExecCommand != "" {
		execLine := cfg.ExecCommand
		loop.Post(func() {
			result, err := console.Eval(execLine)
			if err != nil {
				log.Printf("Exec failed: %v", err)
				return
			}
			if result != "" {
				fmt.Println(result)
			}
		})
	}

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("Received %v, shutting down...", sig)
			loop.Quit()
		case <-ctx.Done():
		}
	}()

	// Top-level application control stays here until quit.
	return loop.Run(ctx)
}
