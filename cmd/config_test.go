package cmd

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/spf13/pflag"
)

var _ = Describe("Run Config", func() {
	var (
		flags *pflag.FlagSet
	)

	BeforeEach(func() {
		flags = pflag.NewFlagSet("run", pflag.ContinueOnError)
		registerRunFlags(flags)
	})

	It("should use the default address space", func() {
		Expect(flags.Parse([]string{
			"--population", "p.txt", "--queries", "q.txt",
		})).To(Succeed())

		cfg, err := parseRunConfig(flags)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.PopulationFile).To(Equal("p.txt"))
		Expect(cfg.QueriesFile).To(Equal("q.txt"))
		Expect(cfg.AddressSpace).To(Equal(vm.DefaultAddressSpace()))
		Expect(cfg.TLBSize).To(Equal(16))
		Expect(cfg.TLBDedup).To(BeTrue())
		Expect(cfg.Mode).To(Equal(mmu.ModeDemandPaging))
	})

	It("should parse the sizes and the mode", func() {
		Expect(flags.Parse([]string{
			"--population", "p.txt", "--queries", "q.txt",
			"--pages", "128", "--page-size", "100",
			"--frames", "64", "--frame-size", "512",
			"--tlb-size", "4", "--tlb-dedup=false", "--mode", "prebuilt",
		})).To(Succeed())

		cfg, err := parseRunConfig(flags)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.AddressSpace).To(Equal(vm.AddressSpace{
			MaxNumOfPages: 128,
			PageSize:      100,
			NumOfFrames:   64,
			FrameSize:     512,
		}))
		Expect(cfg.TLBSize).To(Equal(4))
		Expect(cfg.TLBDedup).To(BeFalse())
		Expect(cfg.Mode).To(Equal(mmu.ModePrebuilt))
	})

	It("should reject unknown modes", func() {
		Expect(flags.Parse([]string{
			"--population", "p.txt", "--queries", "q.txt", "--mode", "lru",
		})).To(Succeed())

		_, err := parseRunConfig(flags)

		Expect(err).To(HaveOccurred())
	})

	It("should require the input files", func() {
		Expect(flags.Parse([]string{"--queries", "q.txt"})).To(Succeed())

		_, err := parseRunConfig(flags)

		Expect(err).To(MatchError(ContainSubstring("population")))
	})

	It("should reject zero sizes", func() {
		Expect(flags.Parse([]string{
			"--population", "p.txt", "--queries", "q.txt", "--frames", "0",
		})).To(Succeed())

		_, err := parseRunConfig(flags)

		Expect(err).To(HaveOccurred())
	})

	It("should reject non-positive TLB sizes", func() {
		Expect(flags.Parse([]string{
			"--population", "p.txt", "--queries", "q.txt", "--tlb-size", "0",
		})).To(Succeed())

		_, err := parseRunConfig(flags)

		Expect(err).To(HaveOccurred())
	})

	It("should not open a browser without the monitor", func() {
		Expect(flags.Parse([]string{
			"--population", "p.txt", "--queries", "q.txt", "--open-browser",
		})).To(Succeed())

		_, err := parseRunConfig(flags)

		Expect(err).To(HaveOccurred())
	})

	Context("with environment variables", func() {
		AfterEach(func() {
			os.Unsetenv("VMSIM_TLB_SIZE")
			os.Unsetenv("VMSIM_PAGE_SIZE")
			os.Unsetenv("VMSIM_POPULATION")
			os.Unsetenv("VMSIM_QUERIES")
		})

		It("should derive the variable names from the flags", func() {
			Expect(envName("page-size")).To(Equal("VMSIM_PAGE_SIZE"))
			Expect(envName("tlb-dedup")).To(Equal("VMSIM_TLB_DEDUP"))
		})

		It("should use the variables as defaults", func() {
			os.Setenv("VMSIM_TLB_SIZE", "8")
			os.Setenv("VMSIM_PAGE_SIZE", "128")
			os.Setenv("VMSIM_POPULATION", "env_p.txt")
			os.Setenv("VMSIM_QUERIES", "env_q.txt")

			Expect(flags.Parse([]string{"--tlb-size", "2"})).To(Succeed())
			Expect(applyEnvDefaults(flags)).To(Succeed())

			cfg, err := parseRunConfig(flags)

			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.TLBSize).To(Equal(2))
			Expect(cfg.AddressSpace.PageSize).To(Equal(uint64(128)))
			Expect(cfg.PopulationFile).To(Equal("env_p.txt"))
			Expect(cfg.QueriesFile).To(Equal("env_q.txt"))
		})

		It("should reject invalid values", func() {
			os.Setenv("VMSIM_TLB_SIZE", "many")

			Expect(flags.Parse(nil)).To(Succeed())

			err := applyEnvDefaults(flags)

			Expect(err).To(MatchError(ContainSubstring("VMSIM_TLB_SIZE")))
		})
	})

	Context("with env files", func() {
		AfterEach(func() {
			os.Unsetenv("VMSIM_FRAMES")
		})

		It("should load the variables in the file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "vmsim.env")
			Expect(os.WriteFile(path, []byte("VMSIM_FRAMES=32\n"), 0644)).
				To(Succeed())

			Expect(loadEnvFile(path)).To(Succeed())
			Expect(os.Getenv("VMSIM_FRAMES")).To(Equal("32"))
		})

		It("should fail on missing files", func() {
			path := filepath.Join(GinkgoT().TempDir(), "missing.env")

			Expect(loadEnvFile(path)).NotTo(Succeed())
		})

		It("should skip the default file if it does not exist", func() {
			Expect(loadEnvFile("")).To(Succeed())
		})
	})
})
