// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/confkb/internal/adminclient"
	"github.com/taibuivan/confkb/internal/platform/constants"
)

const (
	envAPIURL   = "CONFKB_API_URL"
	envPassword = "CONFKB_PASSWORD"

	defaultAPIURL = "http://localhost:8080"
)

// cli holds the global flags and writers shared by every command.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	apiURL   string
	password string
	noColor  bool
	verbose  bool
}

func (app *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kbctl",
		Short:         "Knowledge base operator CLI",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.apiURL, "api-url", envOr(envAPIURL, defaultAPIURL), "API server base URL ($"+envAPIURL+")")
	flags.StringVar(&app.password, "password", os.Getenv(envPassword), "admin password ($"+envPassword+")")
	flags.BoolVar(&app.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		app.hashPasswordCommand(),
		app.renderCommand(),
		app.pushCommand(),
		app.listCommand(),
		app.publishCommand(true),
		app.publishCommand(false),
		app.deleteCommand(),
	)
	return root
}

func (app *cli) printer() *printer {
	return newPrinter(app.stdout, app.stderr, !app.noColor && colorsAllowed())
}

func (app *cli) logger() *slog.Logger {
	level := slog.LevelWarn
	if app.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(app.stderr, &slog.HandlerOptions{Level: level}))
}

// login builds a client and exchanges the admin password for a token.
func (app *cli) login(ctx context.Context) (*adminclient.Client, string, error) {
	if app.password == "" {
		return nil, "", errors.New("admin password required: set --password or " + envPassword)
	}

	client := adminclient.New(app.apiURL)
	token, err := client.Login(ctx, app.password)
	if err != nil {
		return nil, "", err
	}
	return client, token, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
