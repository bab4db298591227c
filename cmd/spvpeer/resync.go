package main

import (
	"fmt"

	"github.com/chainwatch/spvpeer/checkpoint"
	"github.com/spf13/cobra"
)

func newResyncCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "resync",
		Short: "reset the checkpoint store to genesis, forcing a full header resync",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			store, err := checkpoint.OpenBoltStore(cfg.CheckpointPath)
			if err != nil {
				return fmt.Errorf("open checkpoint store: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Save(checkpoint.GenesisHeight, checkpoint.GenesisHash); err != nil {
				return fmt.Errorf("reset checkpoint: %w", err)
			}

			fmt.Println("checkpoint reset to genesis")

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "spvpeer.yaml", "path to the YAML config file")

	return cmd
}
