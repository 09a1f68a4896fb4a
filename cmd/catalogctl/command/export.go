package command

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

func newExportCmd(env *environment) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every pet as YAML, in the seed dataset format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cache, cleanup, err := env.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(cache.Snapshot().Pets); err != nil {
				return fmt.Errorf("encode pets: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")
	return cmd
}

func newImportCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the persisted catalog with the pets in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var pets []domain.Pet
			if err := yaml.Unmarshal(raw, &pets); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			seen := make(map[int64]struct{}, len(pets))
			for _, pet := range pets {
				if pet.ID <= 0 {
					return fmt.Errorf("pet %q has no positive id", pet.Name)
				}
				if _, dup := seen[pet.ID]; dup {
					return fmt.Errorf("pet id %d appears twice", pet.ID)
				}
				seen[pet.ID] = struct{}{}
			}

			_, cache, cleanup, err := env.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			cache.ReplaceAll(cmd.Context(), pets)
			if err := cache.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d pets\n", len(pets))
			return nil
		},
	}
}
