package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gherkin-gen/internal/config"
	"github.com/chriserin/gherkin-gen/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gherkin-gen in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := settings(cmd)
		if err != nil {
			return err
		}
		return RunInit(cmd.OutOrStdout(), cfg, configPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// RunInit creates the catalog, a config file at cfgPath and the features
// directory, each only when missing.
func RunInit(w io.Writer, cfg *config.Config, cfgPath string) error {
	// catalog directory
	if dir := filepath.Dir(cfg.Catalog); dir != "." {
		if err := ensureDir(w, dir); err != nil {
			return err
		}
	}

	// database
	_, err := os.Stat(cfg.Catalog)
	dbExists := err == nil
	sqlDB, err := db.Open(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", cfg.Catalog)
	} else {
		fmt.Fprintf(w, "%s created\n", cfg.Catalog)
	}

	// config
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Fprintf(w, "%s already exists\n", cfgPath)
	} else {
		if err := cfg.Write(cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s created\n", cfgPath)
	}

	if err := ensureDir(w, cfg.FeaturesDir); err != nil {
		return err
	}

	// gitignore
	msgs, err := ensureGitignore(filepath.ToSlash(cfg.Catalog))
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureDir(w io.Writer, dir string) error {
	_, err := os.Stat(dir)
	exists := err == nil
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if exists {
		fmt.Fprintf(w, "%s/ already exists\n", dir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", dir)
	}
	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
