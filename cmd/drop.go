package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes one stored game, or the whole metrics database.
var dropCmd = &cobra.Command{
	Use:   "drop [gameId|prefix]",
	Short: "Delete a stored game or the whole metrics database",
	Long: `With a game id, delete that game and its snapshots. Without one, permanently
delete the SQLite metrics database. Fetch games again afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropGame(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropGame(prefix string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.GetGameByPrefix(prefix)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no stored game matches %q", prefix)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete game %s (%s @ %s) and its snapshots.\n",
			rec.GameID, rec.AwayTricode, rec.HomeTricode)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteGame(rec.GameID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted game %s\n", rec.GameID)
	return nil
}
