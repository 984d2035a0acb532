package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/redbadger/webdeploy/history"
	"github.com/redbadger/webdeploy/model"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent deploy runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := historyPath()
		if err != nil {
			return err
		}
		if dsn == "off" {
			return errors.New("run history is disabled")
		}
		store, err := history.Open(dsn)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTARTED\tCONFIGURATION\tSERVER\tUSER\tDURATION\tSTATUS\tREASON")
		for _, r := range runs {
			s := r.Summary
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID,
				s.Started.Local().Format("2006-01-02 15:04"),
				s.Configuration,
				s.Server,
				s.Username,
				s.Finished.Sub(s.Started).Round(time.Second),
				formatStatus(s.Outcome),
				s.Outcome.Reason,
			)
		}
		return w.Flush()
	},
}

func formatStatus(o model.RunOutcome) string {
	if o.Succeeded() {
		return consoleSuccess(string(o.Status))
	}
	return consoleFailure(fmt.Sprintf("%s (%s)", o.Status, o.Stage))
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
}
