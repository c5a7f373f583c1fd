package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPreloadCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "preload",
		Short: "Run one cache preload walk and print the result",
		Long:  "Walks the configured id range once against PokeAPI, the same way the scheduled preload does, and reports how many pokemon loaded.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if force {
				cfg.Sync.Enabled = true
			}
			if !cfg.Sync.Enabled {
				fmt.Println("Preloading is disabled (sync.enabled=false); use --force to run anyway")
				return nil
			}

			pokedex, err := buildPokedex(cfg)
			if err != nil {
				return err
			}

			res := pokedex.RunPreload(cmd.Context())
			fmt.Printf("Run %s: loaded %d, failed %d, skipped %d\n", res.RunID, res.Loaded, res.Failed, res.Skipped)

			stats := pokedex.CacheStats()
			fmt.Printf("Pokemon cache: %d entries, %d upstream fetches\n", stats.Pokemon.Entries, stats.Pokemon.Fetches)
			if stats.TypeRelations != nil {
				fmt.Printf("Type relation cache: %d entries, %d upstream fetches\n",
					stats.TypeRelations.Entries, stats.TypeRelations.Fetches)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Run even when sync.enabled is false")
	return cmd
}
