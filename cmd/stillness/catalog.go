package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"stillness/internal/bootstrap"
	catalogdto "stillness/internal/modules/catalog/dto"
)

func newCatalogCmd(dataDir *string) *cobra.Command {
	catalog := &cobra.Command{Use: "catalog", Short: "Guided meditation catalog"}

	var category, tag string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List guided meditations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				items, err := app.CatalogCLI.ListTagged(cmd.Context(), category, tag)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no meditations")
					return nil
				}
				for _, m := range items {
					line := fmt.Sprintf("%-16s %3d min  %-12s %s", m.ID, m.DurationMinutes, m.Category, m.Title)
					if len(m.Tags) > 0 {
						line += "  [" + strings.Join(m.Tags, ", ") + "]"
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&category, "category", "", "filter by category")
	listCmd.Flags().StringVar(&tag, "tag", "", "filter by tag")

	var showID string
	showCmd := &cobra.Command{
		Use:   "show --id <meditation-id>",
		Short: "Show a guided meditation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(showID) == "" {
				return fmt.Errorf("--id is required")
			}
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				m, err := app.CatalogCLI.Show(cmd.Context(), showID)
				if err != nil {
					return err
				}
				printMeditation(cmd.OutOrStdout(), m)
				return nil
			})
		},
	}
	showCmd.Flags().StringVar(&showID, "id", "", "meditation id")

	catalog.AddCommand(listCmd, showCmd, newCatalogAddCmd(dataDir), newCatalogEditCmd(dataDir), newCatalogRemoveCmd(dataDir))
	return catalog
}

func newCatalogAddCmd(dataDir *string) *cobra.Command {
	var input catalogdto.CreateInput
	cmd := &cobra.Command{
		Use:   "add --title <title> --minutes <n>",
		Short: "Add a guided meditation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				m, err := app.CatalogCLI.Add(cmd.Context(), input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", m.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&input.ID, "id", "", "meditation id (default: generated)")
	cmd.Flags().StringVar(&input.Title, "title", "", "display title")
	cmd.Flags().StringVar(&input.Description, "description", "", "short description")
	cmd.Flags().IntVar(&input.DurationMinutes, "minutes", 0, "length in minutes (1-120)")
	cmd.Flags().StringVar(&input.Category, "category", "", "category")
	cmd.Flags().StringSliceVar(&input.Tags, "tags", nil, "comma-separated tags")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("minutes")
	return cmd
}

func newCatalogEditCmd(dataDir *string) *cobra.Command {
	var (
		id, title, description, category string
		minutes                          int
		tags                             []string
	)
	cmd := &cobra.Command{
		Use:   "edit --id <meditation-id>",
		Short: "Change fields of a guided meditation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := catalogdto.UpdateInput{ID: id}
			flags := cmd.Flags()
			if flags.Changed("title") {
				input.Title = &title
			}
			if flags.Changed("description") {
				input.Description = &description
			}
			if flags.Changed("minutes") {
				input.DurationMinutes = &minutes
			}
			if flags.Changed("category") {
				input.Category = &category
			}
			if flags.Changed("tags") {
				input.Tags = &tags
			}
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				m, err := app.CatalogCLI.Edit(cmd.Context(), input)
				if err != nil {
					return err
				}
				printMeditation(cmd.OutOrStdout(), m)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "meditation id")
	cmd.Flags().StringVar(&title, "title", "", "display title")
	cmd.Flags().StringVar(&description, "description", "", "short description")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "length in minutes (1-120)")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma-separated tags, replacing the current ones")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newCatalogRemoveCmd(dataDir *string) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "remove --id <meditation-id>",
		Short: "Remove a guided meditation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, bootstrap.Options{}, func(app *bootstrap.App) error {
				m, err := app.CatalogCLI.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%s)\n", m.ID, m.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "meditation id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func printMeditation(w io.Writer, m catalogdto.MeditationOutput) {
	_, _ = fmt.Fprintf(w, "%s (%s)\n%d min, %s\n", m.Title, m.ID, m.DurationMinutes, m.Category)
	if len(m.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "tags: %s\n", strings.Join(m.Tags, ", "))
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", m.Description)
}
