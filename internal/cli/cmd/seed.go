package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/contech-dc/contrack/internal/domain"
	"github.com/contech-dc/contrack/internal/store"
	"github.com/contech-dc/contrack/internal/timefmt"
)

// seedFile is the YAML layout the seed command consumes.
type seedFile struct {
	Projects []struct {
		Name      string `yaml:"name"`
		Locations []struct {
			Pattern string `yaml:"pattern"`
			Type    string `yaml:"type"`
		} `yaml:"locations"`
	} `yaml:"projects"`

	Users []struct {
		Username   string `yaml:"username"`
		Fullname   string `yaml:"fullname"`
		Department string `yaml:"department"`
		Role       string `yaml:"role"`
		Password   string `yaml:"password"`
	} `yaml:"users"`

	// Keyed by department document name (Architectural, Civil, ...).
	Descriptions    map[string]seedDescriptions `yaml:"descriptions"`
	DescriptionsCPR map[string]seedDescriptions `yaml:"descriptions_cpr"`
}

type seedDescriptions struct {
	Base     []string `yaml:"base"`
	Floors   []string `yaml:"floors"`
	Elements []string `yaml:"elements"`
	Grades   []string `yaml:"grades"`
}

var seedDatabaseURL string

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Seed projects, users and description sets from a YAML file",
	Long: `Seed writes reference documents directly to the database. Existing
project counters are preserved: project documents are merged, not
replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var seed seedFile
		if err := yaml.Unmarshal(raw, &seed); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		dbURL := seedDatabaseURL
		if dbURL == "" {
			dbURL = os.Getenv("DATABASE_URL")
		}
		if dbURL == "" {
			return fmt.Errorf("database URL required (--database-url or DATABASE_URL)")
		}

		ctx := cmd.Context()
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		st, err := store.NewPostgres(ctx, pool)
		if err != nil {
			return err
		}
		clock := timefmt.New(2 * time.Hour)
		now := clock.Stamp()

		for _, p := range seed.Projects {
			locations := make([]domain.Location, 0, len(p.Locations))
			for _, loc := range p.Locations {
				locations = append(locations, domain.Location{Pattern: loc.Pattern, Type: loc.Type})
			}
			// Merge keeps the counters of an already-seeded project.
			fields := map[string]any{
				"name":      p.Name,
				"updatedAt": now,
			}
			if len(locations) > 0 {
				fields["locations"] = locations
			}
			if err := st.Merge(ctx, store.Projects, p.Name, fields); err != nil {
				return fmt.Errorf("seed project %s: %w", p.Name, err)
			}
			fmt.Printf("project %s\n", p.Name)
		}

		for _, u := range seed.Users {
			username := strings.ToLower(strings.TrimSpace(u.Username))
			if username == "" {
				continue
			}
			user := domain.User{
				Username:   username,
				Fullname:   u.Fullname,
				Department: u.Department,
				Role:       u.Role,
				Password:   u.Password,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := st.Set(ctx, store.Users, username, user); err != nil {
				return fmt.Errorf("seed user %s: %w", username, err)
			}
			fmt.Printf("user %s\n", username)
		}

		if err := seedDescriptionSets(ctx, st, store.Descriptions, seed.Descriptions); err != nil {
			return err
		}
		if err := seedDescriptionSets(ctx, st, store.DescriptionsCPR, seed.DescriptionsCPR); err != nil {
			return err
		}

		fmt.Println("seed complete")
		return nil
	},
}

func seedDescriptionSets(ctx context.Context, st store.Store, collection string, sets map[string]seedDescriptions) error {
	for name, d := range sets {
		set := domain.DescriptionSet{
			Base:     d.Base,
			Floors:   d.Floors,
			Elements: d.Elements,
			Grades:   d.Grades,
		}
		if err := st.Set(ctx, collection, name, set); err != nil {
			return fmt.Errorf("seed descriptions %s/%s: %w", collection, name, err)
		}
		fmt.Printf("descriptions %s/%s\n", collection, name)
	}
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedDatabaseURL, "database-url", "", "Postgres connection string")
	rootCmd.AddCommand(seedCmd)
}
