package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/spf13/pflag"
)

const envPrefix = "VMSIM_"

// runConfig collects everything that the run command needs.
type runConfig struct {
	PopulationFile string
	QueriesFile    string
	AddressSpace   vm.AddressSpace
	TLBSize        int
	TLBDedup       bool
	Mode           mmu.Mode
	Quiet          bool
	DumpTLB        bool
	RecordName     string
	Trace          bool
	Monitor        bool
	MonitorPort    int
	OpenBrowser    bool
}

func registerRunFlags(flags *pflag.FlagSet) {
	as := vm.DefaultAddressSpace()

	flags.String("population", "",
		"File of `vaddr paddr value` records that fill the backing store.")
	flags.String("queries", "",
		"File of virtual addresses to translate.")
	flags.Uint64("pages", as.MaxNumOfPages,
		"Number of entries of the page table.")
	flags.Uint64("page-size", as.PageSize, "Number of bytes in a page.")
	flags.Uint64("frames", as.NumOfFrames,
		"Number of frames of the physical memory.")
	flags.Uint64("frame-size", as.FrameSize, "Number of words in a frame.")
	flags.Int("tlb-size", 16, "Number of entries of the TLB.")
	flags.Bool("tlb-dedup", true,
		"Overwrite the existing TLB entry when a page is inserted twice.")
	flags.String("mode", mmu.ModeDemandPaging.String(),
		"How page faults are handled, `demand` or `prebuilt`.")
	flags.Bool("quiet", false, "Do not print the value of every query.")
	flags.Bool("dump-tlb", false, "Print the TLB content after the run.")
	flags.String("record", "",
		"Record every translation into the SQLite database <record>.sqlite3.")
	flags.Bool("trace", false, "Log every step of every translation.")
	flags.Bool("monitor", false, "Serve the monitoring page during the run.")
	flags.Int("monitor-port", 0,
		"Port of the monitoring server. A random port is used if 0.")
	flags.Bool("open-browser", false, "Open the monitoring page in a browser.")
	flags.String("env-file", "",
		"File of VMSIM_* variables. Defaults to .env if it exists.")
}

// loadEnvFile loads the variables in the file into the environment. Variables
// that are already set are not overwritten. If no file is given, .env is
// loaded when it exists.
func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"

		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	err := godotenv.Load(path)
	if err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}

	return nil
}

func envName(flagName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// applyEnvDefaults sets the flags that are not given on the command line from
// the VMSIM_* environment variables.
func applyEnvDefaults(flags *pflag.FlagSet) error {
	var firstErr error

	flags.VisitAll(func(f *pflag.Flag) {
		if firstErr != nil || f.Changed || f.Name == "env-file" {
			return
		}

		value, found := os.LookupEnv(envName(f.Name))
		if !found {
			return
		}

		err := flags.Set(f.Name, value)
		if err != nil {
			firstErr = fmt.Errorf("invalid %s: %w", envName(f.Name), err)
		}
	})

	return firstErr
}

func parseRunConfig(flags *pflag.FlagSet) (runConfig, error) {
	cfg := runConfig{}

	cfg.PopulationFile, _ = flags.GetString("population")
	cfg.QueriesFile, _ = flags.GetString("queries")
	cfg.AddressSpace.MaxNumOfPages, _ = flags.GetUint64("pages")
	cfg.AddressSpace.PageSize, _ = flags.GetUint64("page-size")
	cfg.AddressSpace.NumOfFrames, _ = flags.GetUint64("frames")
	cfg.AddressSpace.FrameSize, _ = flags.GetUint64("frame-size")
	cfg.TLBSize, _ = flags.GetInt("tlb-size")
	cfg.TLBDedup, _ = flags.GetBool("tlb-dedup")
	cfg.Quiet, _ = flags.GetBool("quiet")
	cfg.DumpTLB, _ = flags.GetBool("dump-tlb")
	cfg.RecordName, _ = flags.GetString("record")
	cfg.Trace, _ = flags.GetBool("trace")
	cfg.Monitor, _ = flags.GetBool("monitor")
	cfg.MonitorPort, _ = flags.GetInt("monitor-port")
	cfg.OpenBrowser, _ = flags.GetBool("open-browser")

	modeName, _ := flags.GetString("mode")

	mode, err := mmu.ParseMode(modeName)
	if err != nil {
		return runConfig{}, err
	}

	cfg.Mode = mode

	err = cfg.validate()
	if err != nil {
		return runConfig{}, err
	}

	return cfg, nil
}

func (c runConfig) validate() error {
	if c.PopulationFile == "" {
		return errors.New("population file is required")
	}

	if c.QueriesFile == "" {
		return errors.New("queries file is required")
	}

	as := c.AddressSpace
	if as.MaxNumOfPages == 0 || as.PageSize == 0 ||
		as.NumOfFrames == 0 || as.FrameSize == 0 {
		return fmt.Errorf("address space sizes must be positive, got %+v", as)
	}

	if c.TLBSize <= 0 {
		return fmt.Errorf("TLB size must be positive, got %d", c.TLBSize)
	}

	if c.OpenBrowser && !c.Monitor {
		return errors.New("--open-browser requires --monitor")
	}

	return nil
}
