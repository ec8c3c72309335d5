// ABOUTME: Integration tests for full workflow
// ABOUTME: Builds the binary and drives the distance and shell commands end-to-end

package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}

	binary := filepath.Join(t.TempDir(), "parkspot")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/parkspot")
	buildCmd.Dir = projectRoot
	buildOutput, err := buildCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to build: %v\nOutput: %s", err, buildOutput)
	}
	return binary
}

func TestFullWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	binary := buildBinary(t)

	configHome := t.TempDir()
	exportDir := t.TempDir()

	run := func(stdin string, args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Dir = t.TempDir()
		cmd.Env = append(os.Environ(),
			"XDG_CONFIG_HOME="+configHome,
			"PARKSPOT_LATITUDE=41.8781",
			"PARKSPOT_LONGITUDE=-87.6298",
			"PARKSPOT_EXPORT_DIR="+exportDir,
			"PARKSPOT_LOG_LEVEL=error",
			"NO_COLOR=1",
		)
		cmd.Stdin = strings.NewReader(stdin)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Distance
	output, err := run("", "distance", "0", "0", "0.008993", "0")
	if err != nil {
		t.Fatalf("Failed to measure distance: %v\n%s", err, output)
	}
	if !strings.Contains(output, "within the 1000m search radius") {
		t.Errorf("Expected within-radius message, got:\n%s", output)
	}

	// First run writes the default config
	if _, err := os.Stat(filepath.Join(configHome, "parkspot", "config.json")); err != nil {
		t.Errorf("Expected config file to be created: %v", err)
	}

	// Shell session
	script := strings.Join([]string{
		"add 41.8785 -87.6298 Lot A",
		"add 41.8790 -87.6298 Garage",
		"add 42.5 -87.6298 Far Away",
		"list",
		"search lot",
		"export spots.yaml",
		"quit",
	}, "\n") + "\n"

	output, err = run(script, "shell", "--no-prompt")
	if err != nil {
		t.Fatalf("Shell failed: %v\n%s", err, output)
	}
	for _, want := range []string{
		"You are here",
		"Added spot Lot A",
		"Added spot Garage",
		"Location is outside the allowed radius",
		"Exported 2 spots",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in shell output:\n%s", want, output)
		}
	}

	data, err := os.ReadFile(filepath.Join(exportDir, "spots.yaml"))
	if err != nil {
		t.Fatalf("Expected export file: %v", err)
	}
	if !strings.Contains(string(data), "name: Lot A") || strings.Contains(string(data), "Far Away") {
		t.Errorf("Unexpected export contents:\n%s", data)
	}

	// Invalid radius flag is rejected before running
	if output, err := run("", "--radius", "-5", "distance", "0", "0", "0", "0"); err == nil {
		t.Errorf("Expected negative radius to fail, got:\n%s", output)
	}

	t.Log("Integration test passed!")
}
