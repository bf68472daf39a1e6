package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"queryadmin/internal/api"
	"queryadmin/internal/client"
	"queryadmin/internal/config"
	"queryadmin/internal/core"
	"queryadmin/internal/data"
	"queryadmin/internal/logger"
	"queryadmin/internal/service"
)

func main() {
	if isRunningAsService() {
		runAsService()
		return
	}

	// Check for CLI subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "change-password":
			handleChangePassword(os.Args[2:])
			return
		case "install", "uninstall", "start", "stop":
			serviceCommand(os.Args[1])
			return
		case "help", "--help", "-h":
			printHelp()
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	// No subcommand, start server
	stop := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		close(stop)
	}()

	if err := runServer(stop); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("QueryAdmin - Query Template Admin Console")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  queryadmin                             Start the server")
	fmt.Println("  queryadmin change-password -u <user>   Change an admin password (interactive)")
	fmt.Println("  queryadmin install|uninstall           Register or remove the Windows service")
	fmt.Println("  queryadmin start|stop                  Start or stop the Windows service")
	fmt.Println("  queryadmin help                        Show this help")
}

func readSecret(prompt string) string {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // newline after hidden input
	if err != nil {
		fmt.Printf("Failed to read password: %v\n", err)
		os.Exit(1)
	}
	return string(b)
}

func handleChangePassword(args []string) {
	fs := flag.NewFlagSet("change-password", flag.ExitOnError)
	username := fs.String("u", "", "Account to change")
	fs.Parse(args)

	if *username == "" {
		fmt.Println("Usage: queryadmin change-password -u <username>")
		os.Exit(1)
	}

	current := readSecret("Current password: ")
	next := readSecret("New password: ")
	confirm := readSecret("Confirm password: ")

	if err := core.CheckPasswordChange(current, next, confirm); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(cfg.APIBaseURL, nil)
	resp, err := c.Login(ctx, *username, current)
	if err != nil {
		fmt.Printf("Login failed: %v\n", err)
		os.Exit(1)
	}

	if _, err := c.ChangePassword(ctx, resp.AccessToken, core.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}); err != nil {
		fmt.Printf("Failed to change password: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Password for user '%s' has been changed successfully.\n", *username)
}

// runServer serves the console until stop is closed.
func runServer(stop <-chan struct{}) error {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\nCheck .env file or environment variables", err)
	}

	// 2. Initialize Logger
	if err := logger.Init(cfg.LogDir); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	logger.Info().Str("api", cfg.APIBaseURL).Msg("Starting QueryAdmin...")

	// 3. Initialize DB
	db, err := data.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}
	defer db.Close()

	// 4. Initialize Services
	keys, err := service.DeriveSessionKeys(cfg.SessionKey)
	if err != nil {
		return fmt.Errorf("failed to derive session keys: %w", err)
	}

	adminAPI := client.New(cfg.APIBaseURL, nil)
	auditRepo := data.NewAuditRepo(db)
	registry := service.NewRegistry(adminAPI, auditRepo)

	// 5. Initialize Handlers
	templates, err := api.ParseTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	sessions := api.NewSessionStore(keys, cfg.SecureCookies)
	authHandler := api.NewAuthHandler(adminAPI, sessions, registry, templates, cfg.MainAppURL)
	webHandler := api.NewWebHandler(sessions, registry, templates, cfg.MainAppURL)

	loginLimiter := api.NewRateLimiter(5, 3) // 5 req/min, burst 3 (brute force protection)
	loginLimiter.Start(stop)
	registry.Start(stop)

	// 6. Start Server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(authHandler, webHandler, loginLimiter),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error().Err(err).Msg("Server startup failed")
		return err
	case <-stop:
	}

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}
	logger.Info().Msg("Server stopped")
	return nil
}
