package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/avellar/docask/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API for the web dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		return runServer(port)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
}

func runServer(portFlag int) error {
	fmt.Fprintf(os.Stderr, "docask version %s\n", version)

	a, cleanup, err := newApp("", true)
	if err != nil {
		return err
	}
	defer cleanup()

	port := a.cfg.Server.Port
	if portFlag != 0 {
		port = portFlag
	}

	// Every management route requires a bearer token; generate an
	// ephemeral one when none is configured so the dashboard can
	// still connect.
	token := a.cfg.Server.Token
	if token == "" {
		token = uuid.New().String()
		printInfo("No server token configured; using ephemeral token %s", token)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := api.NewHandler(api.Deps{
		Service: a.service,
		Log:     a.log,
		Token:   token,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	printStatus("model", "%s", a.service.Model())
	printStatus("addr", "http://%s", addr)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("docask listening", "addr", addr, "model", a.service.Model())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func runMCP(ctx context.Context) error {
	a, cleanup, err := newApp("", true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Service: a.service,
		Log:     a.log,
	})

	slog.Info("MCP server started (stdio transport)")
	stdioSrv := server.NewStdioServer(mcpSrv)
	if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}
