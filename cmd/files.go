package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/db"
	"github.com/chriserin/gherkin-gen/internal/gherkin"
	"github.com/chriserin/gherkin-gen/internal/parser"
)

const featureExt = ".feature"

var errNotInitialized = errors.New("run `gherkin-gen init` first")

// parseFile reads and parses one feature file in the configured default
// language.
func parseFile(cfg *config.Config, log *zap.Logger, path string) (*gherkin.Document, []byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	start := time.Now()
	doc, err := parser.Parse(content, parser.WithDefaultLanguage(cfg.DefaultLanguage()))
	if err != nil {
		log.Debug("parse failed", zap.String("file", path), zap.Error(err))
		return nil, content, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("parsed",
		zap.String("file", path),
		zap.String("language", doc.Lang().Code),
		zap.Int("children", len(doc.Children)),
		zap.Duration("took", time.Since(start)),
	)
	return doc, content, nil
}

// findFeatureFiles expands directories to the .feature files beneath them.
// Plain file arguments are kept whatever their extension. The result is
// sorted and free of duplicates.
func findFeatureFiles(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == featureExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// openCatalog opens the catalog created by init.
func openCatalog(cfg *config.Config) (*sql.DB, error) {
	if _, err := os.Stat(cfg.Catalog); os.IsNotExist(err) {
		return nil, errNotInitialized
	}
	sqlDB, err := db.Open(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	return sqlDB, nil
}

// parseID accepts a scenario id with or without its leading '#'.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid scenario ID: %s", raw)
	}
	return id, nil
}
