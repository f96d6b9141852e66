package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"traininghours/config"
)

var configEditKeepInvalid bool

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the traininghours config and report what changed.",
	Long: `Open the traininghours config file in $VISUAL, $EDITOR or vi.

A missing file is first created from the example template. When the editor
exits the file is validated. An invalid edit is rolled back to the previous
content unless --keep-invalid is set, so later transform runs keep working.
On success the changed keys are listed, e.g. "transform.strict_hours: false -> true".`,
	Example: `
  # Switch on strict hour parsing
  traininghours config edit

  # Edit a project config with VS Code
  EDITOR="code --wait" traininghours --configFile ./.traininghours.yaml config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTargetPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		session, err := beginConfigEdit(path)
		if err != nil {
			return err
		}
		if session.created {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s from the example template.\n", path)
		}

		editor := editorCommand(os.Getenv("VISUAL"), os.Getenv("EDITOR"), path)
		editor.Stdin, editor.Stdout, editor.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := editor.Run(); err != nil {
			return fmt.Errorf("run editor %s: %w", editor.Path, err)
		}

		cfg, err := session.commit(configEditKeepInvalid)
		if err != nil {
			return err
		}
		reportConfigChanges(cmd.OutOrStdout(), path, session.before, cfg)
		return nil
	},
}

// configEdit remembers the file as it was before the editor ran.
type configEdit struct {
	path     string
	original []byte
	before   *config.Config
	created  bool
}

// beginConfigEdit snapshots path, writing the example template first when
// the file does not exist.
func beginConfigEdit(path string) (*configEdit, error) {
	created, err := ensureConfigFileWithTemplate(path, false)
	if err != nil {
		return nil, err
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// An already broken file has no baseline; every key counts as changed.
	before, _ := config.ValidateYAMLContent(original)
	return &configEdit{path: path, original: original, before: before, created: created}, nil
}

// commit validates the edited file. An invalid file is restored to its
// snapshot unless keepInvalid is set.
func (e *configEdit) commit(keepInvalid bool) (*config.Config, error) {
	cfg, err := validateConfigFile(e.path)
	if err == nil {
		return cfg, nil
	}
	if keepInvalid {
		return nil, err
	}
	if restoreErr := os.WriteFile(e.path, e.original, 0o600); restoreErr != nil {
		return nil, errors.Join(err, fmt.Errorf("restore previous config: %w", restoreErr))
	}
	return nil, fmt.Errorf("%w (previous content restored)", err)
}

func validateConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// configChanges lists "key: old -> new" for every key whose value differs.
// A nil before reports every key.
func configChanges(before, after *config.Config) []string {
	current := configEntries(after)
	if before == nil {
		changes := make([]string, 0, len(current))
		for _, entry := range current {
			changes = append(changes, fmt.Sprintf("%s: %s", entry.key, entry.value))
		}
		return changes
	}

	var changes []string
	for i, previous := range configEntries(before) {
		if previous.value != current[i].value {
			changes = append(changes, fmt.Sprintf("%s: %s -> %s", previous.key, previous.value, current[i].value))
		}
	}
	return changes
}

func reportConfigChanges(w io.Writer, path string, before, after *config.Config) {
	changes := configChanges(before, after)
	if len(changes) == 0 {
		fmt.Fprintf(w, "No changes in %s.\n", path)
		return
	}
	fmt.Fprintf(w, "Updated %s:\n", path)
	for _, change := range changes {
		fmt.Fprintf(w, "  %s\n", change)
	}
}

// configTargetPath picks the --configFile flag, then the file viper loaded,
// then $HOME/.traininghours.yaml.
func configTargetPath(flagPath, loadedPath string) (string, error) {
	for _, candidate := range []string{flagPath, loadedPath} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".traininghours.yaml"), nil
}

// ensureConfigFileWithTemplate writes the example config unless a file
// exists; overwrite replaces an existing file.
func ensureConfigFileWithTemplate(path string, overwrite bool) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil && !overwrite:
		return false, nil
	case err != nil && !os.IsNotExist(err):
		return false, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("write config template %s: %w", path, err)
	}
	return true, nil
}

// editorCommand builds the editor invocation from $VISUAL, then $EDITOR,
// then vi. Editor values may carry arguments ("code --wait").
func editorCommand(visual, editor, path string) *exec.Cmd {
	value := "vi"
	for _, candidate := range []string{visual, editor} {
		if strings.TrimSpace(candidate) != "" {
			value = candidate
			break
		}
	}

	fields := strings.Fields(value)
	return exec.Command(fields[0], append(fields[1:], path)...)
}

func init() {
	configCmd.AddCommand(configEditCmd)

	configEditCmd.Flags().BoolVar(&configEditKeepInvalid, "keep-invalid", false, "Keep an edit that fails validation instead of restoring the previous file")
}
