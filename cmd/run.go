package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/sarchlab/vmsim/monitoring"
	"github.com/sarchlab/vmsim/sim/hooking"
	"github.com/sarchlab/vmsim/sim/id"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Translate a list of virtual addresses.",
	Long: "`run --population [file] --queries [file]` fills the backing " +
		"store with the population records, translates every query, and " +
		"prints the statistics.",
	Run: func(cmd *cobra.Command, args []string) {
		envFile, _ := cmd.Flags().GetString("env-file")

		err := loadEnvFile(envFile)
		if err != nil {
			atexit.Fatalf("Error: %v\n", err)
		}

		err = applyEnvDefaults(cmd.Flags())
		if err != nil {
			atexit.Fatalf("Error: %v\n", err)
		}

		cfg, err := parseRunConfig(cmd.Flags())
		if err != nil {
			atexit.Fatalf("Error: %v\n", err)
		}

		out := bufio.NewWriter(os.Stdout)
		defer out.Flush()

		s, err := newSimulation(cfg, out)
		if err != nil {
			atexit.Fatalf("Error: %v\n", err)
		}

		err = s.runFiles()
		if err != nil {
			out.Flush()
			atexit.Fatalf("Error: %v\n", err)
		}

		if s.monitor != nil {
			out.Flush()
			waitForInterrupt()
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	registerRunFlags(runCmd.Flags())
}

// A simulation wires an MMU with the optional tracers and the monitor.
type simulation struct {
	cfg     runConfig
	out     io.Writer
	mmu     *mmu.Comp
	tracer  *trace.DBTracer
	monitor *monitoring.Monitor
}

func newSimulation(cfg runConfig, out io.Writer) (*simulation, error) {
	s := &simulation{
		cfg: cfg,
		out: out,
	}

	s.mmu = mmu.MakeBuilder().
		WithAddressSpace(cfg.AddressSpace).
		WithMode(cfg.Mode).
		WithTLBSize(cfg.TLBSize).
		WithTLBDeduplication(cfg.TLBDedup).
		Build("MMU")

	if cfg.Trace {
		logger := log.New(os.Stderr, "", 0)
		s.mmu.AcceptHook(trace.NewTracer(logger))
	}

	if cfg.RecordName != "" {
		id.UseGlobalUniqueIDs()

		recorder := datarecording.New(cfg.RecordName)
		s.tracer = trace.NewDBTracer(recorder)
		s.mmu.AcceptHook(s.tracer)
	}

	if cfg.Monitor {
		err := s.startMonitor()
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *simulation) startMonitor() error {
	s.monitor = monitoring.NewMonitor().WithPortNumber(s.cfg.MonitorPort)
	s.monitor.RegisterComponent(s.mmu)
	s.monitor.RegisterComponent(s.mmu.TLB())

	s.monitor.RegisterStatsProvider(s.mmu.Name(), func() any {
		return s.mmu.Stats()
	})

	posCounter := hooking.NewPosCountTracer()
	s.mmu.AcceptHook(posCounter)
	s.monitor.RegisterStatsProvider(s.mmu.Name()+".Hooks", func() any {
		counts := make(map[string]uint64)
		for _, name := range posCounter.GetPosNames() {
			counts[name] = posCounter.GetPosCount(name)
		}

		return counts
	})

	s.monitor.StartServer()

	if s.cfg.OpenBrowser {
		return s.monitor.OpenInBrowser()
	}

	return nil
}

func (s *simulation) runFiles() error {
	population, err := os.Open(s.cfg.PopulationFile)
	if err != nil {
		return err
	}
	defer population.Close()

	queries, err := os.Open(s.cfg.QueriesFile)
	if err != nil {
		return err
	}
	defer queries.Close()

	if s.monitor == nil {
		return s.run(population, queries)
	}

	info, err := queries.Stat()
	if err != nil {
		return err
	}

	bar := s.monitor.CreateProgressBar(
		"Queries (bytes)", uint64(info.Size()))
	defer s.monitor.CompleteProgressBar(bar)

	return s.run(population, &progressReader{r: queries, bar: bar})
}

// run populates the MMU, translates the queries as they are read, and prints
// the report.
func (s *simulation) run(population, queries io.Reader) error {
	err := trace.ReadPopulation(population, func(rec mmu.Record) error {
		s.lock()
		defer s.unlock()

		return s.mmu.Populate(rec)
	})
	if err != nil {
		return err
	}

	err = trace.ReadQueries(queries, func(vAddr uint64) error {
		value, err := s.translate(vAddr)
		if err != nil {
			return err
		}

		if !s.cfg.Quiet {
			printTranslation(s.out, vAddr, value)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.report()

	return nil
}

// progressReader reports the number of bytes read to a progress bar.
type progressReader struct {
	r   io.Reader
	bar *monitoring.ProgressBar
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.bar.IncrementFinished(uint64(n))

	return n, err
}

func (s *simulation) translate(vAddr uint64) (int64, error) {
	s.lock()
	defer s.unlock()

	return s.mmu.Translate(vAddr)
}

func (s *simulation) report() {
	stats := s.mmu.Stats()

	printStatistics(s.out, stats)

	if s.cfg.DumpTLB {
		printTLB(s.out, s.mmu.TLB().Entries())
	}

	if s.tracer != nil {
		s.tracer.RecordStatistics(s.mmu.Name(), stats)
	}
}

func (s *simulation) lock() {
	if s.monitor != nil {
		s.monitor.Lock()
	}
}

func (s *simulation) unlock() {
	if s.monitor != nil {
		s.monitor.Unlock()
	}
}

func waitForInterrupt() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr,
		"Simulation finished. Press Ctrl+C to stop the monitoring server.\n")

	<-ctx.Done()
}
