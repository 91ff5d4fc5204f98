package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/lixenwraith/blockfall/config"
	"github.com/lixenwraith/blockfall/network"
	"github.com/lixenwraith/blockfall/protocol"
	"github.com/lixenwraith/blockfall/service"
	"github.com/lixenwraith/blockfall/status"
	"github.com/lixenwraith/blockfall/statusapi"
)

var (
	configFlag  = flag.String("config", "", "Path to TOML config file")
	addrFlag    = flag.String("addr", "", "Game listen address, overrides config")
	tickFlag    = flag.Duration("tick", -1, "Gravity interval, 0 disables, overrides config")
	framingFlag = flag.String("framing", "", "Inbound framing: line or raw, overrides config")
	statusFlag  = flag.String("status", "", "Status HTTP address, overrides config")
	seedFlag    = flag.Uint64("seed", 0, "Piece sequence seed, 0 for random")
	debugFlag   = flag.Bool("debug", false, "Write debug log to the log directory")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nBLOCKFALL CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logFile := setupLogging(cfg.Log.Debug, cfg.Log.Dir)
	code := run(cfg, log.Default())
	if logFile != nil {
		logFile.Close()
	}
	os.Exit(code)
}

// loadConfig reads the config file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return nil, err
	}

	if *addrFlag != "" {
		cfg.Server.Address = *addrFlag
	}
	if *tickFlag >= 0 {
		cfg.Game.TickInterval = *tickFlag
	}
	if *framingFlag != "" {
		f, err := protocol.ParseFraming(*framingFlag)
		if err != nil {
			return nil, err
		}
		cfg.Server.Framing = f
	}
	if *statusFlag != "" {
		cfg.Status.Address = *statusFlag
	}
	if *seedFlag != 0 {
		cfg.Game.Seed = *seedFlag
	}
	if *debugFlag {
		cfg.Log.Debug = true
	}
	return cfg, cfg.Validate()
}

// run starts the services, waits for the session to end or a signal, and
// returns the process exit code
func run(cfg *config.Config, logger *log.Logger) int {
	reg := status.NewRegistry()
	hub := service.NewHub(logger)

	gameSvc := network.NewService(reg, logger)
	api := statusapi.NewService(reg, logger)
	for _, svc := range []service.Service{gameSvc, api} {
		if err := hub.Register(svc); err != nil {
			fmt.Fprintf(os.Stderr, "Service registration failed: %v\n", err)
			return 1
		}
	}

	if err := hub.InitAll(cfg.Network(), cfg.StatusAPI()); err != nil {
		fmt.Fprintf(os.Stderr, "Service init failed: %v\n", err)
		return 1
	}
	if err := hub.StartAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		return 1
	}
	defer hub.StopAll()

	fmt.Printf("blockfall listening on %s\n", gameSvc.Addr())
	if addr := api.Addr(); addr != nil {
		fmt.Printf("status on http://%s/api/status\n", addr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	start := time.Now()
	select {
	case <-gameSvc.Done():
		if err := gameSvc.Err(); err != nil {
			logger.Printf("session failed after %s: %v", time.Since(start), err)
			fmt.Fprintf(os.Stderr, "Session failed: %v\n", err)
			return 1
		}
		logger.Printf("session ended after %s", time.Since(start))
	case sig := <-sigCh:
		logger.Printf("received %s, shutting down", sig)
	}
	return 0
}
