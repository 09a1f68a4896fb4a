package command

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/search"
)

var filterFlags = []string{"especie", "porte", "sexo", "status", "vacinado", "castrado", "localizacao", "compatibilidadeMin"}

func newSearchCmd(env *environment) *cobra.Command {
	values := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "List the pets matching a query and filters in catalog order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			for name, value := range values {
				if cmd.Flags().Changed(name) {
					query.Set(name, *value)
				}
			}
			filters, err := search.ParseFilterSet(query)
			if err != nil {
				return err
			}
			input := petstypes.SearchInput{Filters: filters}
			if len(args) == 1 {
				input.Query = args[0]
			}

			catalog, _, cleanup, err := env.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			result, err := catalog.Search(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tLOCATION\tTAGS")
			for _, view := range result.Pets {
				pet := view.Pet
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					strconv.FormatInt(pet.ID, 10), pet.Name, pet.Type, pet.DisplayStatus(), pet.Location, strings.Join(pet.DisplayTags(), ", "))
			}
			return w.Flush()
		},
	}
	for _, name := range filterFlags {
		values[name] = cmd.Flags().String(name, "", "filter by "+name)
	}
	return cmd
}
