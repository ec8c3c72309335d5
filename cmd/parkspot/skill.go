// ABOUTME: Install Claude Code skill for parkspot
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

const skillName = "parkspot"

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the parkspot skill for Claude Code.

This copies the skill definition to ~/.claude/skills/parkspot/
so Claude Code can mark and find parking spots through the MCP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(cmd.OutOrStdout(), cmd.InOrStdin(), home, skillSkipConfirm)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

// skillPath returns where the skill file lives under home.
func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", skillName, "SKILL.md")
}

func installSkill(out io.Writer, in io.Reader, home string, skipConfirm bool) error {
	path := skillPath(home)

	fmt.Fprintln(out, "This will install the parkspot skill, enabling Claude Code to:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  • Mark parking spots near you")
	fmt.Fprintln(out, "  • Find the nearest marked spot")
	fmt.Fprintln(out, "  • Export spots to GeoJSON, YAML or markdown")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Destination:\n  %s\n\n", path)

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		fmt.Fprintln(out)
	}

	if !skipConfirm {
		fmt.Fprint(out, "Install the parkspot skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { // #nosec G301 - skill dir needs to be readable
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil { // #nosec G306 - skill file needs to be readable
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Fprintln(out, color.GreenString("✓ Installed parkspot skill successfully!"))
	fmt.Fprintln(out, "Try asking Claude: \"I parked in Lot A\" or \"Where's the nearest spot?\"")
	return nil
}
