package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MRamiBalles/CommitClicker/server/internal/infra/storage"
)

var wipeEvents bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete the saved game",
	Long: `Deletes the save slot so the next serve starts a fresh game.
With --events the event history is cleared too.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, key, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.NewSQLiteSaveRepository(db).Delete(cmd.Context(), key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted save %q.\n", key)

		if wipeEvents {
			if err := storage.NewSQLiteEventRepository(db).Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared event history.")
		}
		return nil
	},
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeEvents, "events", false, "Also clear the event history")
}
