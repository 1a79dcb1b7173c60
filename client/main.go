package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/JRI98/chatrescuer/client/api"
	"github.com/JRI98/chatrescuer/client/database"
	"github.com/JRI98/chatrescuer/client/ui"
	"github.com/JRI98/chatrescuer/internal/config"
	"github.com/JRI98/chatrescuer/internal/identity"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

type Args struct {
	DatabasePath string
	ServerURL    string
	LogPath      string
}

func getArgs() Args {
	databasePath := flag.String("db", "database.db", "Path to the database file")
	serverURL := flag.String("server", "", "Server URL, overrides CHATRESCUER_SERVER_URL")
	logPath := flag.String("log", "client.log", "Path to the log file")

	flag.Parse()

	return Args{
		DatabasePath: *databasePath,
		ServerURL:    *serverURL,
		LogPath:      *logPath,
	}
}

func readPassword() ([]byte, error) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return nil, errors.New("password must not be empty")
	}
	return password, nil
}

func readLine(stdin *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	text, err := stdin.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// createIdentity generates a new identity, seals it with password and
// registers its profile on the server.
func createIdentity(ctx context.Context, db *database.Database, serverURL string, password []byte) (identity.PrivateKey, error) {
	stdin := bufio.NewReader(os.Stdin)

	fullName, err := readLine(stdin, "Full name: ")
	if err != nil {
		return nil, err
	}
	username, err := readLine(stdin, "Username: ")
	if err != nil {
		return nil, err
	}

	_, privateKey, err := identity.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate identity: %w", err)
	}

	client := api.New(serverURL, privateKey)
	if _, err := client.Register(ctx, api.RegisterData{FullName: fullName, Username: username}); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	salt, sealed, err := identity.Seal(privateKey, password)
	if err != nil {
		return nil, fmt.Errorf("failed to seal identity: %w", err)
	}

	if err := db.CreateIdentity(ctx, salt, sealed); err != nil {
		return nil, err
	}

	return privateKey, nil
}

func run(args Args) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if args.ServerURL != "" {
		cfg.ServerURL = args.ServerURL
	}

	logFile, err := os.OpenFile(args.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(args.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	password, err := readPassword()
	if err != nil {
		return err
	}

	var privateKey identity.PrivateKey
	stored, err := db.GetIdentity(ctx)
	switch {
	case errors.Is(err, database.ErrNoIdentity):
		privateKey, err = createIdentity(ctx, db, cfg.ServerURL, password)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		privateKey, err = identity.Open(stored.EncryptedPrivateKey, stored.Salt, password)
		if err != nil {
			return fmt.Errorf("failed to open identity: %w", err)
		}
	}

	client := api.New(cfg.ServerURL, privateKey)
	slog.Info("Client started", slog.String("user", client.SelfID()), slog.String("server", cfg.ServerURL))

	app := ui.NewApp(ctx, client, client.SelfID(), ui.Options{
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}

	return nil
}

func main() {
	if err := run(getArgs()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
