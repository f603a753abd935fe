package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequirePackagePath validates that exactly one package_path argument is provided.
func RequirePackagePath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <package_path>

Usage: %s

Example:
  %s ./packages/letters-5f0c`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequirePackageRoots validates that at least one directory argument is
// provided. Each directory is searched for packages.
func RequirePackageRoots(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <directory>...

Usage: %s

Each directory is searched for packages (directories holding a METS.*.xml).

Example:
  %s ./packages --database-url postgres://localhost/aipx`, cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}
