// Command marsrover drives rovers across a plateau of Mars.
//
// It supports four modes:
//  1. default – reads a mission from stdin and prints one "x y heading" report per rover
//  2. "run <config>" – runs a stored mission config headless
//  3. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  4. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config and session directories, debug logging,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/marsrover/api"
	"github.com/wricardo/mcp-training/marsrover/game/config"
	"github.com/wricardo/mcp-training/marsrover/game/mission"
	"github.com/wricardo/mcp-training/marsrover/game/service"
	"github.com/wricardo/mcp-training/marsrover/game/session"
	"github.com/wricardo/mcp-training/marsrover/transport/mcp"
	"github.com/wricardo/mcp-training/marsrover/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Mars Rover Mission Control"
)

const (
	sessionMaxAge        = 24 * time.Hour
	sessionCleanupPeriod = 1 * time.Hour
	filesystemSyncPeriod = 5 * time.Second
)

// main loads .env and runs the command line
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp(os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Console and report output goes to out; logs go to stderr.
func newApp(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "marsrover",
		Usage:   AppName,
		Version: Version,
		Writer:  out,
		Description: `With no command, reads a mission from standard input:

   5 5
   1 2 N
   LMLMLMLMM
   3 3 E
   MMRMMRMRRM

and prints the final position of every rover once input ends or a blank line is read.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing mission configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "Directory where sessions are persisted",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.StringFlag{
				Name:    "default-config",
				Usage:   "Config used for sessions created without one (defaults to classic)",
				Sources: cli.EnvVars("DEFAULT_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := mission.NewConsole(in, out).Run()
			return err
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a stored mission config and print the rover reports",
				ArgsUsage: "<config>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("run expects exactly one config name or path", 2)
					}
					return runConfig(cmd.String("config-dir"), cmd.Args().First(), out)
				},
			},
			{
				Name:  "serve",
				Usage: "Run HTTP server with API, WebSocket, and MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Value: "localhost",
						Usage: "HTTP server host",
					},
					&cli.IntFlag{
						Name:    "port",
						Value:   8080,
						Usage:   "HTTP server port",
						Sources: cli.EnvVars("PORT"),
					},
					&cli.BoolFlag{
						Name:    "ngrok",
						Usage:   "Enable ngrok tunnel",
						Sources: cli.EnvVars("NGROK_ENABLED"),
					},
					&cli.StringFlag{
						Name:    "ngrok-auth",
						Usage:   "Ngrok auth token",
						Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
					},
					&cli.StringFlag{
						Name:    "ngrok-domain",
						Usage:   "Custom ngrok domain (optional)",
						Sources: cli.EnvVars("NGROK_DOMAIN"),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctx, cancel := context.WithCancel(ctx)
					defer cancel()

					svc, _, err := initializeServices(ctx, cmd.String("config-dir"), cmd.String("sessions-dir"), cmd.String("default-config"))
					if err != nil {
						return fmt.Errorf("failed to initialize services: %w", err)
					}
					defer func() {
						if err := svc.SaveSessions(context.Background()); err != nil {
							log.Printf("Warning: Failed to save sessions: %v", err)
						}
					}()

					return runHTTPServer(ctx, svc, serveOptions{
						host:        cmd.String("host"),
						port:        int(cmd.Int("port")),
						ngrok:       cmd.Bool("ngrok"),
						ngrokAuth:   cmd.String("ngrok-auth"),
						ngrokDomain: cmd.String("ngrok-domain"),
					})
				},
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "api-url",
						Value: "http://localhost:8080",
						Usage: "External API server to reuse when it is running",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctx, cancel := context.WithCancel(ctx)
					defer cancel()

					svc, _, err := initializeServices(ctx, cmd.String("config-dir"), cmd.String("sessions-dir"), cmd.String("default-config"))
					if err != nil {
						return fmt.Errorf("failed to initialize services: %w", err)
					}
					return runStdioMCPWithInternalServer(svc, cmd.String("api-url"))
				},
			},
		},
	}
}

// runConfig runs a mission config from configDir, or from a file path, and prints its reports
func runConfig(configDir, name string, out io.Writer) error {
	var cfg *mission.Config
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		cfg, err = mission.LoadConfigFile(name)
		if err != nil {
			return err
		}
	} else {
		configManager, err := config.NewManager(configDir)
		if err != nil {
			return fmt.Errorf("failed to create config manager: %w", err)
		}
		cfg, err = configManager.LoadConfig(name)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", name, err)
		}
	}

	m, err := cfg.Build()
	if err != nil {
		return err
	}
	defer m.Dispose()

	log.Printf("[RUN] config=%s rovers=%d", cfg.Name, len(cfg.Rovers))
	return mission.PrintReports(out, m.Run())
}

type serveOptions struct {
	host        string
	port        int
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

// newRouter combines the REST API with an /mcp endpoint that proxies tool calls back to baseURL
func newRouter(missionService service.MissionService, hub *websocket.Hub, baseURL string) http.Handler {
	apiServer := api.NewServer(missionService, hub)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, missionService service.MissionService, opts serveOptions) error {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	addr := fmt.Sprintf("%s:%d", opts.host, opts.port)
	mainRouter := newRouter(missionService, hub, fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("Starting %s v%s", AppName, Version)
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter, opts)
		}()
	}

	var err error
	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case err = <-serveErr:
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("HTTP server shutdown error: %v", shutdownErr)
	}

	wg.Wait()
	log.Println("Server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, handler http.Handler, opts serveOptions) {
	if opts.ngrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires session/config managers and the mission service.
// Background routines prune stale sessions and refresh configs until ctx is cancelled.
func initializeServices(ctx context.Context, configDir, sessionsDir, defaultConfig string) (service.MissionService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if defaultConfig != "" {
		if err := configManager.SetDefault(defaultConfig); err != nil {
			return nil, nil, fmt.Errorf("failed to set default config %s: %w", defaultConfig, err)
		}
	}

	persistence, err := session.NewFilePersistence(sessionsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)

	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	missionService := service.NewMissionService(sessionManager, configManager)

	go sessionCleanupRoutine(ctx, missionService, sessionCleanupPeriod, sessionMaxAge)
	go filesystemSyncRoutine(ctx, missionService, configManager, persistence, filesystemSyncPeriod)

	return missionService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within maxAge.
func sessionCleanupRoutine(ctx context.Context, missionService service.MissionService, period, maxAge time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := missionService.ExpireSessions(ctx, maxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine periodically drops in-memory sessions whose files were deleted
// and rereads config files edited on disk.
func filesystemSyncRoutine(ctx context.Context, missionService service.MissionService, configs *config.Manager, persistence session.SessionPersistence, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := syncWithFilesystem(ctx, missionService, persistence); pruned > 0 {
				log.Printf("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
			}
			if err := configs.RefreshCache(); err != nil {
				log.Printf("Warning: Failed to refresh configs: %v", err)
			}
		}
	}
}

func syncWithFilesystem(ctx context.Context, missionService service.MissionService, persistence session.SessionPersistence) int {
	if persistence == nil {
		return 0
	}
	return missionService.PruneSessions(ctx, persistence.Exists)
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at externalURL; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(missionService service.MissionService, externalURL string) error {
	baseURL := externalURL

	log.Printf("Checking for external API server at %s...", externalURL)
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		if resp != nil {
			resp.Body.Close()
		}
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()
		defer hub.Stop()

		httpServer := &http.Server{
			Handler: api.NewServer(missionService, hub),
		}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
