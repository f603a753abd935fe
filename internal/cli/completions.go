package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/aipx/internal/logging"
	"github.com/vvka-141/aipx/pkg/aipx"
)

var (
	profileModes = []string{aipx.ModeFolder.String(), aipx.ModeRoot.String(), aipx.ModeCustom.String()}
	logFormats   = []string{logging.FormatText, logging.FormatJSON}
	authMethods  = []string{
		aipx.AuthMethodStandard.String(),
		aipx.AuthMethodAWSIAM.String(),
		aipx.AuthMethodGoogleIAM.String(),
		aipx.AuthMethodAzureEntraID.String(),
	}
)

func completeModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matchPrefix(profileModes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeLogFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matchPrefix(logFormats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func completeAuthMethods(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matchPrefix(authMethods, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeDirectories lets the shell complete directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completePackagePath completes a single directory argument.
func completePackagePath(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeDirectories(cmd, args, toComplete)
}

func matchPrefix(values []string, prefix string) []string {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			matches = append(matches, v)
		}
	}
	return matches
}
