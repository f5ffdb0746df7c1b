package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/fxbgp/internal/role"
)

// relationSymbols renders relations in the text table.
var relationSymbols = map[role.Relation]string{
	role.Identical:    "=",
	role.Specializes:  "<",
	role.Generalizes:  ">",
	role.Inconsistent: "x",
	role.Unrelated:    ".",
}

// NewLatticeCommand creates the lattice command.
func NewLatticeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Print the role relation table",
		Long: `Print how every pair of roles relates.

Row role a, column role b:
  =  identical
  <  a specializes b (a is more informative)
  >  a generalizes b
  x  inconsistent
  .  unrelated`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			if formatter.Format == "json" {
				return formatter.Document(latticeDocument(), nil)
			}
			writeLattice(formatter.Writer)
			return nil
		},
	}

	return cmd
}

// latticeDocument renders the relation table as {"roles": [...],
// "relations": {a: {b: relation}}}.
func latticeDocument() map[string]any {
	roles := role.All()
	names := make([]any, len(roles))
	relations := make(map[string]any, len(roles))
	for i, a := range roles {
		names[i] = a.String()
		row := make(map[string]any, len(roles))
		for _, b := range roles {
			row[b.String()] = role.Relate(a, b).String()
		}
		relations[a.String()] = row
	}
	return map[string]any{
		"roles":     names,
		"relations": relations,
	}
}

func writeLattice(w io.Writer) {
	roles := role.All()

	header := []string{""}
	for i := range roles {
		header = append(header, fmt.Sprint(i+1))
	}
	rows := [][]string{header}
	for i, a := range roles {
		row := []string{fmt.Sprintf("%2d %s", i+1, a)}
		for _, b := range roles {
			row = append(row, relationSymbols[role.Relate(a, b)])
		}
		rows = append(rows, row)
	}
	writeColumns(w, "", rows)
}
