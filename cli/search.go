package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/meghashyamc/notesapp/notes"
	"github.com/meghashyamc/notesapp/services/search"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type searchFlags struct {
	categories []string
	tags       []string
	colors     []string
	priorities []string
	favorites  bool
	pinned     bool
	from       string
	to         string
	asJSON     bool
}

func (f searchFlags) filters() (search.Filters, error) {
	filters := search.Filters{
		Categories:        f.categories,
		Tags:              f.tags,
		Colors:            f.colors,
		ShowFavoritesOnly: f.favorites,
		ShowPinnedOnly:    f.pinned,
	}
	for _, value := range f.priorities {
		priority, ok := notes.ParsePriority(value)
		if !ok {
			return filters, fmt.Errorf("unknown priority %q", value)
		}
		filters.Priorities = append(filters.Priorities, priority)
	}

	if f.from == "" && f.to == "" {
		return filters, nil
	}
	// a missing bound is open
	dateRange := &search.DateRange{Start: time.UnixMilli(0), End: time.UnixMilli(math.MaxInt64)}
	if f.from != "" {
		start, err := time.ParseInLocation(dateLayout, f.from, time.Local)
		if err != nil {
			return filters, fmt.Errorf("invalid --from date: %w", err)
		}
		dateRange.Start = start
	}
	if f.to != "" {
		end, err := time.ParseInLocation(dateLayout, f.to, time.Local)
		if err != nil {
			return filters, fmt.Errorf("invalid --to date: %w", err)
		}
		// the whole day is included
		dateRange.End = end.Add(24*time.Hour - time.Millisecond)
	}
	filters.DateRange = dateRange
	return filters, nil
}

func searchCMD(opts *rootOptions) *cobra.Command {
	flags := searchFlags{}
	cmd := &cobra.Command{
		Use:     "search [query]",
		Short:   "Search notes by relevance",
		Example: "notesapp search milk --category home --favorites",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := flags.filters()
			if err != nil {
				return err
			}

			application, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			results := application.Search.Search(strings.Join(args, " "), filters)
			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&flags.categories, "category", nil, "only notes in these categories")
	cmd.Flags().StringSliceVar(&flags.tags, "tag", nil, "only notes with one of these tags")
	cmd.Flags().StringSliceVar(&flags.colors, "color", nil, "only notes with these colors")
	cmd.Flags().StringSliceVar(&flags.priorities, "priority", nil, "only notes with these priorities (low, medium, high)")
	cmd.Flags().BoolVar(&flags.favorites, "favorites", false, "only favorite notes")
	cmd.Flags().BoolVar(&flags.pinned, "pinned", false, "only pinned notes")
	cmd.Flags().StringVar(&flags.from, "from", "", "updated on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.to, "to", "", "updated on or before this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print results as JSON")
	return cmd
}

func printResults(w io.Writer, results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no notes found")
		return
	}
	for _, result := range results {
		note := result.Note
		fmt.Fprintf(w, "%-4d %s  [%s]\n", result.Score, note.Title, note.CategoryOrDefault())
		if preview := note.Preview(100); preview != "" {
			fmt.Fprintf(w, "     %s\n", preview)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
