package cache

import (
	"fmt"

	"github.com/spf13/cobra"

	"f1duel/log"
	cacheMgr "f1duel/pkg/cache"
	"f1duel/pkg/config"
)

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "manages the cached OpenF1 responses",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "drops every cached response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return purge(cmd)
		},
	})
	return cmd
}

func purge(cmd *cobra.Command) error {
	cm, err := cacheMgr.NewManager(config.DB, config.CacheExpiration)
	if err != nil {
		return err
	}
	defer cm.Close()

	n, err := cm.Purge()
	if err != nil {
		return err
	}
	log.Default().Info("cache purged", log.String("db", config.DB), log.Int("responses", int(n)))
	fmt.Fprintf(cmd.OutOrStdout(), "%d cached responses removed\n", n)
	return nil
}
