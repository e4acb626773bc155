package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/CommitClicker/server/internal/infra/storage"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/numfmt"
)

var (
	showJSON   bool
	showEvents int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved game and its latest events",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the raw save payload")
	showCmd.Flags().IntVar(&showEvents, "events", 10, "How many recent events to list")
}

func openStore() (*sql.DB, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	return db, cfg.SaveKey, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	db, key, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	rec, err := storage.NewSQLiteSaveRepository(db).Load(cmd.Context(), key)
	switch {
	case errors.Is(err, storage.ErrNoSave):
		fmt.Fprintf(out, "No save under %q.\n", key)
	case err != nil:
		return err
	case showJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec.Data)
	default:
		printSave(out, rec)
	}

	if showEvents <= 0 {
		return nil
	}
	latest, err := storage.NewSQLiteEventRepository(db).Latest(cmd.Context(), showEvents)
	if err != nil {
		return err
	}
	if len(latest) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nRecent events:")
	for _, e := range latest {
		fmt.Fprintf(out, "  #%-6d %-24s %s\n", e.Seq, e.Type, storage.Summarize(e))
	}
	return nil
}

func printSave(out io.Writer, rec *storage.SaveRecord) {
	d := rec.Data
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Save\t%s (v%d, %s)\n", rec.Key, rec.Version, humanize.Time(rec.UpdatedAt))
	fmt.Fprintf(w, "Mode\t%s\n", d.Mode)
	fmt.Fprintf(w, "Lines of code\t%s\n", numfmt.Format(d.LinesOfCode))
	fmt.Fprintf(w, "Lifetime lines\t%s\n", numfmt.Format(d.LifetimeLines))
	fmt.Fprintf(w, "Commits\t%s\n", humanize.Comma(int64(d.Commits)))
	if d.Mode == "secops" {
		fmt.Fprintf(w, "Entropy\t%s\n", numfmt.Format(d.Entropy))
		fmt.Fprintf(w, "Lifetime entropy\t%s\n", numfmt.Format(d.LifetimeEntropy))
	}
	for _, u := range d.Upgrades {
		if u.Count > 0 {
			fmt.Fprintf(w, "Upgrade %s\tx%d\n", u.ID, u.Count)
		}
	}
	for id, lvl := range d.Talents {
		fmt.Fprintf(w, "Talent %s\tlevel %d\n", id, lvl)
	}
	w.Flush()
}
