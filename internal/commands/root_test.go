package promptdeck

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/promptdeck/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag in the tree to its default so runs do not
// leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns the combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { _ = logging.Close() })

	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return b.String(), err
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	_, err := execute(t, "nonexistent")
	if err == nil {
		t.Fatal("Expected an error for a nonexistent command, but got none")
	}

	expected := `unknown command "nonexistent" for "promptdeck"`
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain '%s', but got '%s'", expected, err.Error())
	}
}

// TestConfigLayering verifies flags override environment variables, which
// override the config file.
func TestConfigLayering(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempConfig(t, `{"timeout": 12, "settingsPath": "`+filepath.ToSlash(filepath.Join(dir, "from-file.json"))+`", "logFile": "`+filepath.ToSlash(filepath.Join(dir, "file.log"))+`"}`)
	envLog := filepath.Join(dir, "env.log")
	t.Setenv("PROMPTDECK_LOGFILE", envLog)

	out, err := execute(t, "show", "config", "--config", configPath, "--timeout", "5")
	if err != nil {
		t.Fatalf("show config failed: %v", err)
	}

	cfg := GetConfig()
	if cfg.ConfigPath != configPath {
		t.Fatalf("expected config path %s, got %s", configPath, cfg.ConfigPath)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Fatalf("expected flag timeout 5, got %d", cfg.TimeoutSeconds)
	}
	if cfg.LogFile != envLog {
		t.Fatalf("expected env log file %s, got %s", envLog, cfg.LogFile)
	}
	if filepath.Base(cfg.SettingsPath) != "from-file.json" {
		t.Fatalf("expected settings path from file, got %s", cfg.SettingsPath)
	}
	if !strings.Contains(out, "Request Timeout: 5s") || !strings.Contains(out, "Config file: "+configPath) {
		t.Fatalf("unexpected show config output:\n%s", out)
	}
}

// TestMissingExplicitConfig verifies a --config path that does not exist is an error.
func TestMissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "show", "config", "--config", filepath.Join(t.TempDir(), "absent.json"))
	if err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Fatalf("expected config load error, got %v", err)
	}
}

// TestListCLI verifies the command tree listing includes nested commands and skips completion.
func TestListCLI(t *testing.T) {
	out, err := execute(t, "list", "cli", "--logFile", filepath.Join(t.TempDir(), "p.log"))
	if err != nil {
		t.Fatalf("list cli failed: %v", err)
	}
	for _, want := range []string{"Commands and Subcommands:", "promptdeck commands add", "promptdeck models list", "promptdeck set default-model"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "completion") {
		t.Fatalf("completion commands should be hidden:\n%s", out)
	}
}

// TestListCommandsAlignment checks the two-column layout pads to the longest path.
func TestListCommandsAlignment(t *testing.T) {
	var b bytes.Buffer
	ListCommands(&b, []CommandInfo{{Path: "a", Description: "first"}, {Path: "  a bb", Description: "second"}})
	want := "Commands and Subcommands:\n  a       first\n    a bb  second\n"
	if b.String() != want {
		t.Fatalf("unexpected layout:\n%q\nwant\n%q", b.String(), want)
	}
}
