package app

import (
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/parkour/internal/timeutil"
	"github.com/ayoisaiah/parkour/internal/ui"
	"github.com/ayoisaiah/parkour/parkour"
	"github.com/ayoisaiah/parkour/store"
)

const noRecordsMsg = "No records found for %s"

// printRecordsTable prints stored best times to w.
func printRecordsTable(w io.Writer, records []store.Record) error {
	tableBody := make([][]string, 0, len(records)+1)

	tableBody = append(tableBody, []string{"#", "LEVEL", "BEST TIME", "STATUS"})

	for i, r := range records {
		best := "-"
		if r.HasBest {
			best = timeutil.Nicely(r.Best)
		}

		status := ui.Red("not completed")
		if r.Completed {
			status = ui.Green("completed")
		}

		tableBody = append(tableBody, []string{
			strconv.Itoa(i + 1),
			r.LevelID,
			best,
			status,
		})
	}

	return ui.PrintTable(w, tableBody)
}

// listRecords prints the records of participant, or a note when there are
// none.
func listRecords(w io.Writer, participant string, records []store.Record) error {
	if len(records) == 0 {
		pterm.Info.Printfln(noRecordsMsg, participant)
		return nil
	}

	return printRecordsTable(w, records)
}

// printResultsTable prints one row per recorded level of every ended run.
func printResultsTable(w io.Writer, results []parkour.Result) error {
	tableBody := [][]string{{"PARTICIPANT", "COURSE", "OUTCOME", "LEVEL", "TIME"}}

	for _, res := range results {
		outcome := ui.Red(string(res.Outcome))
		if res.Outcome == parkour.OutcomeFinished {
			outcome = ui.Green(string(res.Outcome))
		}

		if len(res.Times) == 0 {
			tableBody = append(tableBody, []string{res.Participant, res.Course, outcome, "-", "-"})
			continue
		}

		for _, lt := range res.Times {
			tableBody = append(tableBody, []string{
				res.Participant,
				res.Course,
				outcome,
				lt.Level.ID,
				timeutil.Nicely(lt.Elapsed),
			})
		}
	}

	return ui.PrintTable(w, tableBody)
}
