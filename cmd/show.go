package cmd

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var showCmd = &cobra.Command{
	Use:   "show [recording.sqlite3]",
	Short: "Show the statistics stored in a recording.",
	Long: "`show [recording.sqlite3]` prints the statistics of a run " +
		"recorded with `run --record`.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, err := os.Stat(args[0])
		if err != nil {
			atexit.Fatalf("Error: %v\n", err)
		}

		faults, _ := cmd.Flags().GetInt("faults")

		reader := trace.NewRecordingReader(datarecording.NewReader(args[0]))
		defer reader.Close()

		out := bufio.NewWriter(os.Stdout)
		defer out.Flush()

		err = showRecording(cmd.Context(), reader, out, faults)
		if err != nil {
			out.Flush()
			atexit.Fatalf("Error: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Int("faults", 0,
		"Also list the first N translations that caused a page fault.")
}

func showRecording(
	ctx context.Context,
	reader *trace.RecordingReader,
	w io.Writer,
	numFaults int,
) error {
	stats, err := reader.Statistics(ctx)
	if err != nil {
		return err
	}

	printLocatedStatistics(w, stats)

	if numFaults <= 0 {
		return nil
	}

	faults, total, err := reader.PageFaults(ctx, numFaults)
	if err != nil {
		return err
	}

	printPageFaults(w, faults, total)

	return nil
}
