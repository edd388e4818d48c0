// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/internal/platform/sec"
	"github.com/taibuivan/confkb/internal/render"
	"github.com/taibuivan/confkb/pkg/pointer"
)

// # hash-password

func (app *cli) hashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := sec.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, hash)
			return nil
		},
	}
}

// # render

func (app *cli) renderCommand() *cobra.Command {
	var (
		file  string
		page  bool
		title string
	)

	cmd := &cobra.Command{
		Use:   "render -f content.json",
		Short: "Render article content JSON to sanitized HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(file)
			if err != nil {
				return err
			}
			body, err := content.Parse(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			sanitizer := render.NewSanitizer()
			if page {
				return render.WritePage(app.stdout, title, body.Blocks, sanitizer)
			}
			_, err = fmt.Fprintln(app.stdout, sanitizer.Sanitize(render.Document(body.Blocks)))
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "content JSON file, - for stdin")
	cmd.Flags().BoolVar(&page, "page", false, "write a standalone HTML page")
	cmd.Flags().StringVar(&title, "title", "Preview", "page title with --page")
	return cmd
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// # list

func (app *cli) listCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var published *bool
			switch status {
			case "all":
			case "published":
				published = pointer.To(true)
			case "draft":
				published = pointer.To(false)
			default:
				return fmt.Errorf("invalid --status %q: must be all, published or draft", status)
			}

			client, token, err := app.login(cmd.Context())
			if err != nil {
				return err
			}
			articles, err := client.ListArticles(cmd.Context(), token, published)
			if err != nil {
				return err
			}

			out := app.printer()
			rows := make([][]string, 0, len(articles))
			for _, a := range articles {
				rows = append(rows, []string{
					strconv.FormatInt(a.ID, 10),
					a.Slug,
					strconv.Itoa(a.Year),
					a.Title,
					out.Status(a.Published),
					strconv.FormatInt(a.ViewCount, 10),
					a.UpdatedAt.Local().Format(time.DateTime),
				})
			}
			return writeTable(app.stdout, []string{"ID", "Slug", "Year", "Title", "Status", "Views", "Updated"}, rows)
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "all, published or draft")
	return cmd
}

// # publish / unpublish / delete

func (app *cli) publishCommand(published bool) *cobra.Command {
	use, short := "publish <id>", "Make an article public"
	if !published {
		use, short = "unpublish <id>", "Return an article to draft"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, token, err := app.login(cmd.Context())
			if err != nil {
				return err
			}
			a, err := client.SetPublished(cmd.Context(), token, id, published)
			if err != nil {
				return err
			}
			app.printer().Success("%s is now %s", a.Slug, app.printer().Status(a.Published))
			return nil
		},
	}
}

func (app *cli) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, token, err := app.login(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.DeleteArticle(cmd.Context(), token, id); err != nil {
				return err
			}
			app.printer().Success("Deleted article %d", id)
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid article id %q", arg)
	}
	return id, nil
}
