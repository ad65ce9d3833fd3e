package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gainworld/travel-guide/internal/database"
)

// NewCleanupCmd creates the cleanup command. Cleanup removes duplicate place
// rows left behind by database files that predate the unique coordinate
// index; run it before migrate on such files.
func NewCleanupCmd() *cobra.Command {
	var dbPath string
	var owner string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove duplicate place rows, keeping the smallest place_id per coordinate pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			placeRepo := database.NewPlaceRepository(db)
			ctx := context.Background()

			var removed int64
			if owner != "" {
				removed, err = placeRepo.CleanupDuplicates(ctx, owner)
			} else {
				removed, err = placeRepo.CleanupAllDuplicates(ctx)
			}
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}

			fmt.Printf("Removed %d duplicate place(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "./travel_guide.db", "Path to the SQLite database file")
	cmd.Flags().StringVar(&owner, "owner", "", "Limit cleanup to one owner's places (subject ID)")
	return cmd
}
