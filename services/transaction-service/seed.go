package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ashendes/transaction-api/internal/config"
	"github.com/ashendes/transaction-api/internal/seed"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored transactions with the sample data set",
		Long: `Deletes every stored transaction and inserts the five sample
transactions PAY001..PAY005, dated relative to now.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			st, closeStore, err := openStore(cmd.Context(), cfg, config.StoreDriverPostgres)
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := seed.Load(cmd.Context(), st, time.Now())
			if err != nil {
				return err
			}
			log.WithField("records", n).Info("Sample transactions loaded")
			return nil
		},
	}
	return cmd
}
