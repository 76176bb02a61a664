package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/models"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/roster"
)

func newRosterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Inspect and maintain the roster",
	}
	cmd.AddCommand(
		newRosterListCmd(app),
		newRosterUpsertCmd(app),
		newRosterDeleteCmd(app),
		newRosterResetCmd(app),
		newRosterSeedCmd(app),
		newRosterLoadCmd(app),
	)
	return cmd
}

// toInput is the inverse of PersonInput.ToPerson, so that a listing can be
// fed back through roster seed
func toInput(p models.Person) models.PersonInput {
	maxLoad := p.MaxLoad
	in := models.PersonInput{
		Name:          p.Name,
		InitialLoad:   p.Load,
		MaxLoad:       &maxLoad,
		PreferredZone: string(p.PreferredZone),
		BlockedDates:  []string{},
		AllowedZones:  []string{},
	}
	for _, d := range p.BlockedDates {
		in.BlockedDates = append(in.BlockedDates, d.String())
	}
	for _, z := range p.AllowedZones {
		in.AllowedZones = append(in.AllowedZones, string(z))
	}
	return in
}

func newRosterListCmd(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the roster as seed YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			people, err := app.Store.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			switch format {
			case "yaml":
				seed := roster.SeedFile{People: make([]models.PersonInput, 0, len(people))}
				for _, p := range people {
					seed.People = append(seed.People, toInput(p))
				}
				enc := yaml.NewEncoder(app.Out)
				enc.SetIndent(2)
				if err := enc.Encode(seed); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(app.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(people)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml, json)")
	return cmd
}

func newRosterUpsertCmd(app *App) *cobra.Command {
	var (
		in      models.PersonInput
		maxLoad int
	)
	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Add a person or update an existing one's ceiling, dates and zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-load") {
				in.MaxLoad = &maxLoad
			}
			p, err := in.ToPerson(app.Config.DefaultMaxLoad)
			if err != nil {
				return err
			}
			if err := app.Store.Upsert(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "saved %s\n", p.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Person name")
	cmd.Flags().IntVar(&in.InitialLoad, "load", 0, "Initial load for a new person")
	cmd.Flags().IntVar(&maxLoad, "max-load", 0, "Load ceiling (default from DEFAULT_MAX_LOAD)")
	cmd.Flags().StringSliceVar(&in.BlockedDates, "blocked", nil, "Blocked dates (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.PreferredZone, "preferred", "", "Preferred zone")
	cmd.Flags().StringSliceVar(&in.AllowedZones, "zones", nil, "Allowed zones (default all)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newRosterDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME...",
		Short: "Remove persons from the roster",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Store.Delete(cmd.Context(), args)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "deleted %d\n", n)
			return nil
		},
	}
}

func newRosterResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [NAME...]",
		Short: "Zero the load of the named persons, or of everyone",
		RunE: func(cmd *cobra.Command, args []string) error {
			var names []string
			if len(args) > 0 {
				names = args
			}
			if err := app.Store.ResetLoad(cmd.Context(), names); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "load reset")
			return nil
		},
	}
}

func newRosterSeedCmd(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert persons from a YAML file, or the demo roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := roster.DemoRoster()
			if file != "" {
				var err error
				if inputs, err = roster.LoadSeedFile(file); err != nil {
					return err
				}
			}
			n, err := roster.Seed(cmd.Context(), app.Store, inputs, app.Config.DefaultMaxLoad)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "seeded %d\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Seed YAML file (default demo roster)")
	return cmd
}

func newRosterLoadCmd(app *App) *cobra.Command {
	var delta int
	cmd := &cobra.Command{
		Use:     "load NAME --delta N",
		Short:   "Adjust one person's load by hand",
		Example: "  zonectl roster load R1-A --delta -2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.IncrementLoad(cmd.Context(), args[0], delta); err != nil {
				return err
			}
			p, err := app.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s load %d\n", p.Name, p.Load)
			return nil
		},
	}
	cmd.Flags().IntVar(&delta, "delta", 0, "Signed amount to add to the load")
	_ = cmd.MarkFlagRequired("delta")
	return cmd
}
