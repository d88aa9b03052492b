package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"cinedex/internal/collection"
	"cinedex/internal/library"
)

type userMetaFlags struct {
	rating float64
	tags   []string
	notes  string
}

func (f *userMetaFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.rating, "rating", 0, "Personal rating (0-10)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag to attach (repeatable or comma separated)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Personal notes")
}

func (f *userMetaFlags) ratingValue(cmd *cobra.Command) (*float64, error) {
	if !cmd.Flags().Changed("rating") {
		return nil, nil
	}
	if !collection.ValidRating(f.rating) {
		return nil, fmt.Errorf("--rating must be between %d and %d", collection.MinRating, collection.MaxRating)
	}
	rating := f.rating
	return &rating, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var meta userMetaFlags

	cmd := &cobra.Command{
		Use:   "add <imdbId>",
		Short: "Add a movie from OMDB by IMDb id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imdbID := strings.TrimSpace(args[0])
			if !collection.ValidIMDBID(imdbID) {
				return fmt.Errorf("invalid IMDb id %q (expected format tt1234567)", imdbID)
			}
			rating, err := meta.ratingValue(cmd)
			if err != nil {
				return err
			}
			userMeta := &collection.UserMeta{
				Rating: rating,
				Tags:   cleanTags(meta.tags),
				Notes:  strings.TrimSpace(meta.notes),
			}
			return ctx.withService(func(svc *library.Service) error {
				rec, err := svc.AddFromExternal(cmd.Context(), imdbID, userMeta)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("could not find %s on OMDB", imdbID)
				}
				return printRecord(cmd, ctx, *rec)
			})
		},
	}

	meta.register(cmd)
	return cmd
}

type movieFlags struct {
	title    string
	year     int
	director string
	genre    []string
	plot     string
	runtime  string
	poster   string
	era      string
	meta     userMetaFlags
}

func (f *movieFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Movie title")
	cmd.Flags().IntVar(&f.year, "year", 0, "Release year")
	cmd.Flags().StringVar(&f.director, "director", "", "Director")
	cmd.Flags().StringSliceVar(&f.genre, "genre", nil, "Genre (repeatable or comma separated)")
	cmd.Flags().StringVar(&f.plot, "plot", "", "Plot summary")
	cmd.Flags().StringVar(&f.runtime, "runtime", "", "Runtime, e.g. \"120 min\"")
	cmd.Flags().StringVar(&f.poster, "poster", "", "Poster URL")
	cmd.Flags().StringVar(&f.era, "era", "", "Override the era derived from the year")
	f.meta.register(cmd)
}

// validate checks every flag the user set.
func (f *movieFlags) validate(cmd *cobra.Command) error {
	var problems []string
	changed := cmd.Flags().Changed
	if changed("title") && strings.TrimSpace(f.title) == "" {
		problems = append(problems, "--title must not be empty")
	}
	if changed("year") && !collection.ValidYear(f.year) {
		problems = append(problems, fmt.Sprintf("--year must be between %d and %d", collection.MinYear, collection.MaxYear))
	}
	if changed("director") && strings.TrimSpace(f.director) == "" {
		problems = append(problems, "--director must not be empty")
	}
	if changed("genre") && len(cleanTags(f.genre)) == 0 {
		problems = append(problems, "--genre requires at least one genre")
	}
	if changed("poster") {
		if u, err := url.Parse(f.poster); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, "--poster must be a URL")
		}
	}
	if changed("era") {
		if _, err := collection.ParseEra(f.era); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if _, err := f.meta.ratingValue(cmd); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func newAddManualCommand(ctx *commandContext) *cobra.Command {
	var flags movieFlags

	cmd := &cobra.Command{
		Use:   "add-manual",
		Short: "Add a movie by hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(cmd); err != nil {
				return err
			}
			draft := collection.Draft{
				Title:    strings.TrimSpace(flags.title),
				Year:     flags.year,
				Director: strings.TrimSpace(flags.director),
				Genre:    cleanTags(flags.genre),
				Plot:     flags.plot,
				Runtime:  flags.runtime,
				Poster:   flags.poster,
				ImageURL: flags.poster,
				Tags:     cleanTags(flags.meta.tags),
				Notes:    strings.TrimSpace(flags.meta.notes),
			}
			draft.Rating, _ = flags.meta.ratingValue(cmd)
			if cmd.Flags().Changed("era") {
				draft.Era, _ = collection.ParseEra(flags.era)
			}
			return ctx.withService(func(svc *library.Service) error {
				rec, err := svc.Add(cmd.Context(), draft)
				if err != nil {
					return err
				}
				return printRecord(cmd, ctx, rec)
			})
		},
	}

	flags.register(cmd)
	for _, name := range []string{"title", "year", "genre"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var flags movieFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if err := flags.validate(cmd); err != nil {
				return err
			}
			patch := flags.patch(cmd)
			if patch.Empty() {
				return errors.New("nothing to update; pass at least one field flag")
			}
			return ctx.withService(func(svc *library.Service) error {
				rec, err := svc.Update(cmd.Context(), id, patch)
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

	flags.register(cmd)
	return cmd
}

// patch converts the changed flags into a partial update.
func (f *movieFlags) patch(cmd *cobra.Command) collection.Patch {
	var p collection.Patch
	changed := cmd.Flags().Changed
	if changed("title") {
		title := strings.TrimSpace(f.title)
		p.Title = &title
	}
	if changed("year") {
		year := f.year
		p.Year = &year
	}
	if changed("director") {
		director := strings.TrimSpace(f.director)
		p.Director = &director
	}
	if changed("genre") {
		genre := cleanTags(f.genre)
		p.Genre = &genre
	}
	if changed("plot") {
		plot := f.plot
		p.Plot = &plot
	}
	if changed("runtime") {
		runtime := f.runtime
		p.Runtime = &runtime
	}
	if changed("poster") {
		poster := f.poster
		p.Poster = &poster
		p.ImageURL = &poster
	}
	if changed("era") {
		era, _ := collection.ParseEra(f.era)
		p.Era = &era
	}
	if changed("tag") {
		tags := cleanTags(f.meta.tags)
		p.Tags = &tags
	}
	if changed("notes") {
		notes := strings.TrimSpace(f.meta.notes)
		p.Notes = &notes
	}
	p.Rating, _ = f.meta.ratingValue(cmd)
	return p
}
