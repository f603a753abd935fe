package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/aipx/internal/files/scanner"
	"github.com/vvka-141/aipx/internal/services"
	"github.com/vvka-141/aipx/internal/tree"
)

var treeCmd = &cobra.Command{
	Use:   "tree <package_path>",
	Short: "Print the merged structMap tree of a package",
	Long: `Tree loads a package and prints the label tree merged from its physical and
logical structMaps. Directories end with "/"; files show their FILEID.

No profile is applied: the tree is what every profile walks.

Example:
  aipx tree ./packages/letters-5f0c`,
	Args:              RequirePackagePath,
	ValidArgsFunction: completePackagePath,
	RunE:              runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}

	svc := services.NewCollectionService(scanner.NewScanner(), s.logger)
	pkg, err := svc.Load(commandContext(cmd), path)
	if err != nil {
		return err
	}

	label := pkg.Root.Name
	if label == "" {
		label = pkg.Root.ID
	}
	fmt.Fprint(cmd.OutOrStdout(), tree.Render(pkg.Tree, label))
	return nil
}
