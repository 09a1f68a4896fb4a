package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
)

func newShowCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one pet as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("pet id must be a positive integer, got %q", args[0])
			}
			catalog, _, cleanup, err := env.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			view, err := catalog.Get(cmd.Context(), petstypes.PetIdentifier{ID: id})
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(view.Pet)
		},
	}
}
