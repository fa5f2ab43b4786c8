package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/referee/packages/assertions"
	"github.com/abdul-hamid-achik/referee/packages/casefile"
	"github.com/abdul-hamid-achik/referee/packages/referee"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var matchCmd = &cobra.Command{
	Use:   "match <actual> <matcher>",
	Short: "Match a single value against a matcher",
	Long: `Match a value against a matcher. Both arguments are parsed as JSON when
they are valid JSON and used as plain strings otherwise. Matchers accept the
same operators as case documents ($regex, $glob, $type, $schema, $null).

Examples:
  referee match '{"name": "Ann", "age": 30}' '{"name": "Ann"}'
  referee match 'Hello World' hello
  referee match '{"id": "a1"}' '{"id": {"$regex": "^a\\d$"}}'
  referee match --refute '[1, 2, 3]' '[3, 2]'`,
	Args: cobra.ExactArgs(2),
	RunE: matchCommand,
}

var (
	refuteFlag  bool
	messageFlag string
)

func init() {
	matchCmd.Flags().BoolVarP(&refuteFlag, "refute", "r", false, "Pass when the value does not match")
	matchCmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Prefix for the failure message")
	matchCmd.Flags().StringVar(&configFlag, "config", getEnvString("REFEREE_CONFIG", ""), "Path to config file (env: REFEREE_CONFIG)")
}

// parseArg decodes s as JSON when it is valid JSON and returns it unchanged
// otherwise.
func parseArg(s string) any {
	if !gjson.Valid(s) {
		return s
	}
	return gjson.Parse(s).Value()
}

func matchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	r, err := assertions.NewReferee(referee.WithConfig(cfg))
	if err != nil {
		return err
	}

	actual := parseArg(args[0])
	m, err := casefile.DecodeMatcher(parseArg(args[1]))
	if err != nil {
		return withExitCode(ExitUsageError, fmt.Errorf("invalid matcher: %w", err))
	}

	if refuteFlag {
		err = r.RefuteMsg(assertions.MatchName, messageFlag, actual, m)
	} else {
		err = r.AssertMsg(assertions.MatchName, messageFlag, actual, m)
	}
	if err != nil {
		return withExitCode(ExitTestFailure, err)
	}

	if cfg.GetNoColor() {
		color.NoColor = true
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s passed\n", green("✓"))
	return nil
}
