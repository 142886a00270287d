package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// outputFormats contains the values accepted by --format, in help order.
var outputFormats = []string{FormatTable, FormatNDJSON, FormatCSV, FormatParquet}

// authMethods contains the values accepted by --pg-auth.
var authMethods = []string{"password", "aws", "google", "azure"}

// completeOutputFormats provides shell completion for --format values.
func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return withPrefix(outputFormats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeAuthMethods provides shell completion for --pg-auth values.
func completeAuthMethods(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return withPrefix(authMethods, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func withPrefix(values []string, prefix string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			matches = append(matches, v)
		}
	}
	return matches
}

// completeDirectories provides shell completion for directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}
