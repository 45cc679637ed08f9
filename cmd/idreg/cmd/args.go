package cmd

import (
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// negativeInt matches arguments such as "-5" that pflag would otherwise
// read as a cluster of shorthand flags.
var negativeInt = regexp.MustCompile(`^-[0-9]+$`)

// negMarker replaces the leading '-' of a negative number while flags
// are parsed. It cannot appear in a shell argument.
const negMarker = "\x00"

// idArgs returns a RunE for commands whose positional arguments may be
// negative ids. The command must set DisableFlagParsing; flags are parsed
// here with negative numbers held back as positional arguments, then the
// positional count is checked against n.
func idArgs(n int, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		masked := make([]string, len(args))
		for i, arg := range args {
			if negativeInt.MatchString(arg) {
				arg = negMarker + arg[1:]
			}
			masked[i] = arg
		}
		// ParseFlags is a no-op under DisableFlagParsing. InheritedFlags
		// merges the root's persistent flags into cmd.Flags first.
		_ = cmd.InheritedFlags()
		if err := cmd.Flags().Parse(masked); err != nil {
			return err
		}
		if help, _ := cmd.Flags().GetBool("help"); help {
			return cmd.Help()
		}

		positional := cmd.Flags().Args()
		for i, arg := range positional {
			if rest, ok := strings.CutPrefix(arg, negMarker); ok {
				positional[i] = "-" + rest
			}
		}
		if err := cobra.ExactArgs(n)(cmd, positional); err != nil {
			return err
		}
		return fn(cmd, positional)
	}
}
