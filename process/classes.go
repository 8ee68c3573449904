package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"hilite/archive"
	"hilite/config"
	"hilite/state"
	"hilite/store"
)

// Classes outputs active mapping of record types to CSS classes.
func Classes(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)
	return writeClasses(os.Stdout, &env.Cfg.Annotation)
}

func writeClasses(w io.Writer, cfg *config.AnnotationConfig) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, typeID := range slices.SortedFunc(maps.Keys(cfg.Classes), archive.Compare) {
		fmt.Fprintf(tw, "%s\t%s\n", typeID, cfg.Classes[typeID])
	}
	fmt.Fprintf(tw, "%s\t%s\n", "<relations>", cfg.RelationClass)
	if cfg.SlugFallback {
		fmt.Fprintf(tw, "%s\t%s\n", "<other>", "slug of type")
	} else {
		fmt.Fprintf(tw, "%s\t%s\n", "<other>", "type as is")
	}
	return tw.Flush()
}

// History outputs runs recorded in results database.
func History(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if path := cmd.String("db"); len(path) > 0 {
		env.DBPath = path
	}

	path := env.StorePath()
	if len(path) == 0 {
		return errors.New("results database was not specified")
	}
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Runs()
	if err != nil {
		return err
	}
	env.Log.Debug("Listing runs", zap.String("db", path), zap.Int("count", len(runs)))
	return writeRuns(os.Stdout, runs)
}

func writeRuns(w io.Writer, runs []store.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tELAPSED\tOK\tFAILED\tSOURCE")
	for _, r := range runs {
		elapsed := "unfinished"
		if !r.Finished.IsZero() {
			elapsed = r.Finished.Sub(r.Started).Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Started.Local().Format(time.DateTime), elapsed, r.OK, r.Failed, r.Source)
	}
	return tw.Flush()
}
