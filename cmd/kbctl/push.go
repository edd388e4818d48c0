// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/internal/editor"
	"github.com/taibuivan/confkb/pkg/slug"
)

// articleFile is the YAML form of an article accepted by push.
//
// The body is either inline under content (same shape as the JSON wire
// format) or read from content_file, resolved against the YAML file.
type articleFile struct {
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	Year        int       `yaml:"year"`
	Conference  string    `yaml:"conference"`
	Speaker     string    `yaml:"speaker"`
	Date        string    `yaml:"date"`
	Summary     string    `yaml:"summary"`
	Tags        []string  `yaml:"tags"`
	VideoURL    string    `yaml:"video_url"`
	Thumbnail   string    `yaml:"thumbnail"`
	Published   bool      `yaml:"published"`
	Content     yaml.Node `yaml:"content"`
	ContentFile string    `yaml:"content_file"`
}

// loadArticleFile reads path and returns the metadata patch and the blocks.
func loadArticleFile(path string) (article.Patch, []content.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return article.Patch{}, nil, err
	}

	var file articleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return article.Patch{}, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if file.Title == "" {
		return article.Patch{}, nil, fmt.Errorf("%s: title is required", path)
	}
	if file.Slug == "" {
		file.Slug = slug.From(file.Title)
	}

	body, err := file.body(filepath.Dir(path))
	if err != nil {
		return article.Patch{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	patch := article.Patch{
		Title:      &file.Title,
		Slug:       &file.Slug,
		Year:       &file.Year,
		Conference: &file.Conference,
		Speaker:    &file.Speaker,
		Date:       &file.Date,
		Summary:    &file.Summary,
		Tags:       &file.Tags,
		VideoURL:   &file.VideoURL,
		Thumbnail:  &file.Thumbnail,
		Published:  &file.Published,
	}
	return patch, body.Blocks, nil
}

func (file *articleFile) body(dir string) (content.ArticleContent, error) {
	switch {
	case file.Content.Kind != 0 && file.ContentFile != "":
		return content.ArticleContent{}, errors.New("set either content or content_file, not both")

	case file.ContentFile != "":
		path := file.ContentFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return content.ArticleContent{}, err
		}
		return content.Parse(data)

	case file.Content.Kind != 0:
		// YAML mappings decode to map[string]any, which re-encode as the wire JSON.
		var tree any
		if err := file.Content.Decode(&tree); err != nil {
			return content.ArticleContent{}, err
		}
		data, err := json.Marshal(tree)
		if err != nil {
			return content.ArticleContent{}, err
		}
		return content.Parse(data)

	default:
		return content.ArticleContent{}, nil
	}
}

// # push

func (app *cli) pushCommand() *cobra.Command {
	var (
		file string
		id   int64
	)

	cmd := &cobra.Command{
		Use:   "push -f article.yaml",
		Short: "Create an article, or overwrite one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, blocks, err := loadArticleFile(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, token, err := app.login(ctx)
			if err != nil {
				return err
			}

			session := editor.NewSession(client, editor.StaticToken(token), editor.SessionOptions{Logger: app.logger()})
			if id > 0 {
				if err := session.Open(ctx, id); err != nil {
					return err
				}
			} else {
				session.New()
			}

			store := session.Store()
			store.UpdateMetadata(patch)
			store.ReplaceBlocks(blocks)

			saveErr := session.SaveNow(ctx)
			closeErr := session.Close(ctx)
			if err := errors.Join(saveErr, closeErr); err != nil {
				return err
			}

			saved := store.Snapshot().Article
			verb := "Updated"
			if id == 0 {
				verb = "Created"
			}
			app.printer().Success("%s article %d (%s)", verb, saved.ID, saved.Slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "article YAML file")
	cmd.Flags().Int64Var(&id, "id", 0, "existing article id to overwrite")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
