package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cinedex/internal/collection"
	"cinedex/internal/library"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var eraFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var era collection.Era
			if strings.TrimSpace(eraFlag) != "" {
				parsed, err := collection.ParseEra(eraFlag)
				if err != nil {
					return err
				}
				era = parsed
			}
			return ctx.withService(func(svc *library.Service) error {
				records, err := svc.GetAll(cmd.Context())
				if err != nil {
					return err
				}
				if era != "" {
					records = filterByEra(records, era)
				}
				return printRecords(cmd, ctx, records, "Collection is empty")
			})
		},
	}

	cmd.Flags().StringVar(&eraFlag, "era", "", "Only show one era (silent, golden, classic, modern, contemporary)")
	return cmd
}

func filterByEra(records []collection.Record, era collection.Era) []collection.Record {
	out := make([]collection.Record, 0, len(records))
	for _, rec := range records {
		if rec.Era == era {
			out = append(out, rec)
		}
	}
	return out
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the collection by title, director, genre, or tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("search query is required")
			}
			return ctx.withService(func(svc *library.Service) error {
				records, err := svc.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				return printRecords(cmd, ctx, records, fmt.Sprintf("No movies match %q", query))
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withService(func(svc *library.Service) error {
				rec, err := svc.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("movie %s not found", id)
				}
				return printRecord(cmd, ctx, *rec)
			})
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a movie from the collection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withService(func(svc *library.Service) error {
				deleted, err := svc.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("movie %s not found", id)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]bool{"deleted": true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
				return nil
			})
		},
	}
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <query>",
		Short: "Search OMDB without changing the collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("lookup query is required")
			}
			return ctx.withService(func(svc *library.Service) error {
				results, err := svc.Lookup(cmd.Context(), query)
				if err != nil {
					return fmt.Errorf("omdb lookup: %w", err)
				}
				return printSummaries(cmd, ctx, results)
			})
		},
	}
}
