package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Apurer/pet-adoption-catalog/internal/app/api"
	petsapp "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application"
)

func newRefreshCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Replace the persisted catalog with the backend listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := api.LoadConfig()
			if err != nil {
				return err
			}
			backend, err := api.NewBackend(cfg)
			if err != nil {
				return err
			}
			catalog, _, cleanup, err := env.openCatalog(cmd.Context(), petsapp.WithRemote(backend))
			if err != nil {
				return err
			}
			defer cleanup()
			result, err := catalog.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog refreshed: %d pets\n", result.Count)
			return nil
		},
	}
}
