package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/referee/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new referee project",
	Long: `Initialize a new referee project in the current directory.

This creates:
  - .referee.yaml        - Configuration file
  - example.match.yaml   - Example case document

Examples:
  referee init
  referee init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleDocument = `name: example
cases:
  - name: user has a name
    actual: {name: Ann, age: 30, roles: [admin, editor]}
    match: {name: Ann}

  - name: roles contain admin
    actual: {name: Ann, roles: [viewer, admin, editor]}
    match: {roles: [admin, editor]}

  - name: email looks right
    actual: {email: ann@example.com}
    match: {email: {$regex: "@example\\.com$"}}

  - name: id is a number
    actual: {id: 42}
    match: {id: {$type: number}}

  - name: not deleted
    actual: {id: 42}
    match: {deletedAt: {$null: true}}

  - name: not an admin
    actual: {name: Bob, admin: false}
    refute: {admin: true}
    message: permissions
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, ".referee.yaml")
	exampleFile := filepath.Join(cwd, "example.match.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Messages = map[string]string{
		"assert.match": "${customMessage}${actual} expected to match ${expected}",
	}
	if err := cfg.SaveConfig(configFile); err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleDocument), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nreferee project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'referee check example.match.yaml' to execute the example cases.\n")

	return nil
}
