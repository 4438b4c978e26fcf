package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdraw/pkg/icons"
)

// iconsCommand lists the registered icons.
func (c *CLI) iconsCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "List the icons available to services and groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := icons.Default()
			if plain {
				_, err := fmt.Fprintln(c.Out, strings.Join(reg.Names(), "\n"))
				return err
			}
			fmt.Fprintln(c.Out, iconTable(reg))
			fmt.Fprintln(c.Out, StyleDim.Render(fmt.Sprintf("  %s icons; unknown names fall back to the default shape", StyleNumber.Render(fmt.Sprint(reg.Len())))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print one name per line")
	return cmd
}

// iconTable renders the registry as a name/source table.
func iconTable(reg *icons.Registry) string {
	builtin := icons.Builtins()
	var rows [][]string
	for _, name := range reg.Names() {
		source := "custom"
		if slices.Contains(builtin, name) {
			source = "builtin"
		}
		rows = append(rows, []string{name, source})
	}
	return renderTable([]string{"Icon", "Source"}, rows)
}
