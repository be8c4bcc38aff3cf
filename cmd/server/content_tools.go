package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/tidewater/internal/db"
	"github.com/tidewater/internal/service"
	"github.com/tidewater/internal/store"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

func pageService() *service.PageService {
	docs := store.NewGormStore(db.DB)
	return service.NewPageService(docs, service.NewWorkspace(docs))
}

func exportPage(ctx context.Context, cmd *cli.Command) error {
	if _, err := setup(); err != nil {
		return err
	}
	doc, err := pageService().Export(ctx, cmd.String("slug"))
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if path := cmd.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func importPage(ctx context.Context, cmd *cli.Command) error {
	if _, err := setup(); err != nil {
		return err
	}
	raw, err := os.ReadFile(cmd.String("file"))
	if err != nil {
		return err
	}
	doc, err := decodeYAMLDocument(raw)
	if err != nil {
		return err
	}
	return pageService().Import(ctx, cmd.String("slug"), doc)
}

// decodeYAMLDocument 将 YAML 转为 JSON 兼容的文档。
func decodeYAMLDocument(raw []byte) (store.Document, error) {
	var doc store.Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decode yaml: document is empty")
	}
	return doc, nil
}

// seed 向空集合写入演示数据，已有记录的集合保持不变。
func seed(ctx context.Context, _ *cli.Command) error {
	if _, err := setup(); err != nil {
		return err
	}
	docs := store.NewGormStore(db.DB)
	return seedCollections(ctx, service.NewCollectionService(docs, service.NewWorkspace(docs)), seedYAML)
}

func seedCollections(ctx context.Context, collections *service.CollectionService, raw []byte) error {
	var data map[string][]map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode seed data: %w", err)
	}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		panel, err := collections.Panel(name)
		if err != nil {
			return err
		}
		if err := panel.List(ctx); err != nil {
			return err
		}
		if len(panel.Items()) > 0 {
			log.Info().Str("collection", name).Msg("collection not empty, skipped")
			continue
		}
		for _, item := range data[name] {
			raw, err := json.Marshal(item)
			if err != nil {
				return err
			}
			if _, err := panel.Submit(ctx, raw); err != nil {
				return fmt.Errorf("seed %s: %w", name, err)
			}
		}
		log.Info().Str("collection", name).Int("records", len(data[name])).Msg("collection seeded")
	}
	return nil
}
