package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriserin/shallot/internal/config"
	"github.com/chriserin/shallot/internal/db"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the features directory and the scenario index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer, cfg *config.Config) error {
	dir := cfg.FeaturesDir
	_, err := os.Stat(dir)
	dirExists := err == nil
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", dir, err)
	}
	if dirExists {
		fmt.Fprintf(w, "%s/ already exists\n", dir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", dir)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	_, err = os.Stat(cfg.Database)
	dbExists := err == nil
	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", cfg.Database)
	} else {
		fmt.Fprintf(w, "%s created\n", cfg.Database)
	}

	msgs, err := ensureGitignore(filepath.ToSlash(cfg.Database))
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	logger.Info("initialized", "features_dir", dir, "database", cfg.Database)
	return nil
}

// ensureGitignore adds entry to .gitignore unless a line already matches it.
// The index and its WAL side files are covered by one glob.
func ensureGitignore(entry string) ([]string, error) {
	line := entry + "*"

	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(line+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", line + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	for _, existing := range strings.Split(string(data), "\n") {
		existing = strings.TrimSpace(existing)
		if existing == entry || existing == line {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += line + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{line + " added to .gitignore"}, nil
}
