package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cinedex/internal/collection"
	"cinedex/internal/omdb"
)

func formatRating(rating *float64) string {
	if rating == nil {
		return "-"
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func printRecords(cmd *cobra.Command, ctx *commandContext, records []collection.Record, empty string) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, records)
	}
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, empty)
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			rec.Title,
			strconv.Itoa(rec.Year),
			string(rec.Era),
			rec.Director,
			formatRating(rec.Rating),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Year", "Era", "Director", "Rating"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight},
	))
	fmt.Fprintf(out, "%d movie(s)\n", len(records))
	return nil
}

func printRecord(cmd *cobra.Command, ctx *commandContext, rec collection.Record) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, rec)
	}
	rows := [][]string{
		{"ID", rec.ID},
		{"Title", rec.Title},
		{"Year", strconv.Itoa(rec.Year)},
		{"Era", string(rec.Era)},
		{"Director", rec.Director},
		{"Genre", valueOrDash(strings.Join(rec.Genre, ", "))},
		{"IMDb ID", valueOrDash(rec.IMDBID)},
		{"IMDb rating", valueOrDash(rec.IMDBRating)},
		{"Runtime", valueOrDash(rec.Runtime)},
		{"Rating", formatRating(rec.Rating)},
		{"Tags", valueOrDash(strings.Join(rec.Tags, ", "))},
		{"Notes", valueOrDash(rec.Notes)},
		{"Poster", valueOrDash(rec.Poster)},
		{"Added", rec.DateAdded.Local().Format(time.DateTime)},
	}
	if plot := strings.TrimSpace(rec.Plot); plot != "" {
		rows = append(rows, []string{"Plot", plot})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
	return nil
}

func printSummaries(cmd *cobra.Command, ctx *commandContext, results []omdb.Summary) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, results)
	}
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No OMDB matches")
		return nil
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.IMDBID, r.Title, r.Year, r.Type})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"IMDb ID", "Title", "Year", "Type"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}
