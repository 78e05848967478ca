package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// GetFlag gets an expected bool flag, exiting on error.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, exiting on error.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected uint flag, exiting on error.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// validateIdentifierOption enforces spec.md §6's identifier-shaped option
// rule (non-empty, no leading digit, only letters/digits/underscore) for
// flags that become scoreboard objectives, file names, or tag prefixes.
// On failure it prints the exact single-line exit contract and terminates
// the process, matching the teacher's fail-fast flag-validation style in
// pkg/cmd/util.go's Get* family.
func validateIdentifierOption(name, value string) {
	if err := checkIdentifierShape(value); err != nil {
		fmt.Printf("Acacia: error: option %s: %s\n", name, err.Error())
		os.Exit(2)
	}
}

func checkIdentifierShape(value string) error {
	if value == "" {
		return fmt.Errorf("must not be empty")
	}

	if value[0] >= '0' && value[0] <= '9' {
		return fmt.Errorf("must not start with a digit")
	}

	for _, r := range value {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'

		if !isLetter && !isDigit && r != '_' {
			return fmt.Errorf("contains invalid character %q", r)
		}
	}

	return nil
}
