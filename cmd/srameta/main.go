package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/GonzoDMX/srameta/internal/config"
	"github.com/GonzoDMX/srameta/internal/input"
	"github.com/GonzoDMX/srameta/internal/output"
	"github.com/GonzoDMX/srameta/internal/pipeline"
	"github.com/GonzoDMX/srameta/internal/query"
	"github.com/GonzoDMX/srameta/internal/store"
)

var (
	dbPath   string
	tierSpec string
	saveHits bool
	field    string
	destDir  string

	logger = log.New(os.Stderr, "[SRAMETA] ", log.LstdFlags)
)

var rootCmd = &cobra.Command{
	Use:   "srameta",
	Short: "Search and extract SRA run metadata from a local snapshot",
	Long: `srameta filters the SRA metadata snapshot before you download any
sequence data: acquire the SQLite snapshot once, then search free-text
columns by term, resolve accessions across the study/experiment/run
tiers, and extract abstracts and library construction protocols.`,
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download and decompress the metadata snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		prov, err := acquireSnapshot(cmd.Context(), destDir)
		if err != nil {
			return err
		}
		fmt.Println("Snapshot download complete!")
		output.PrintProvenance(os.Stdout, prov)
		return nil
	},
}

var termsCmd = &cobra.Command{
	Use:   "terms <terms-or-file>",
	Short: "Find accessions matching ALL given terms",
	Long: `Search for records matching every provided term. Terms are
comma-separated ('NA12878, Illumina, reagent') or the path to a file with
one term group per line. Each term matches any of the ten free-text
metadata columns. --output selects up to three tiers (run, experiment,
study), comma-separated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tiers, err := query.ParseTiers(tierSpec)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		r := &query.Resolver{Store: s}
		ctx := cmd.Context()

		var groups []query.GroupMatches
		if input.IsFile(args[0]) {
			groups, err = r.ResolveFile(ctx, args[0], tiers)
			if err != nil {
				return err
			}
		} else {
			terms := input.SplitTerms(args[0])
			rows, err := r.Resolve(ctx, terms, tiers)
			if err != nil {
				return err
			}
			groups = []query.GroupMatches{{Terms: terms, Rows: rows}}
		}

		for _, g := range groups {
			if len(g.Rows) == 0 {
				output.PrintNoMatch(os.Stdout, g.Terms)
				continue
			}
			output.PrintRows(os.Stdout, g.Rows)
			if saveHits {
				if err := saveMatches(ctx, s, g); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

var protocolsCmd = &cobra.Command{
	Use:   "protocols [terms]",
	Short: "List experiments that carry library construction protocol text",
	Long: `Without arguments, lists every experiment whose library
construction protocol mentions kit or reagent text. With a term group,
first resolves the matching studies, then reports the experiments under
them that have protocol text at all.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		r := &query.Resolver{Store: s}

		var accs []string
		if len(args) == 0 {
			accs, err = r.ProtocolSubmissions(cmd.Context())
		} else {
			accs, err = r.ResolveWithProtocol(cmd.Context(), input.SplitTerms(args[0]))
		}
		if err != nil {
			return err
		}
		output.PrintAccessions(os.Stdout, accs)
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <accessions-or-file>",
	Short: "Extract abstract/protocol text for experiment accessions",
	Long: `Extract long-text fields per experiment accession. Accessions are
comma-separated inline or read from a file (one per line, commas also
allowed). --field selects abstract, protocol or both.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := query.ParseFieldSelector(field)
		if err != nil {
			return err
		}

		var accs []string
		if input.IsFile(args[0]) {
			accs, err = input.ReadAccessions(args[0])
			if err != nil {
				return err
			}
		} else {
			accs = input.SplitTerms(args[0])
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		r := &query.Resolver{Store: s}

		recs, err := r.ExtractFields(cmd.Context(), accs, sel)
		if err != nil {
			return err
		}
		output.PrintFieldRecords(os.Stdout, recs, sel)
		return nil
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample <accession>",
	Short: "Show the free-text description of a sample accession",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		r := &query.Resolver{Store: s}

		desc, err := r.SampleDescription(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(desc)
		return nil
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables [name]",
	Short: "List snapshot tables, or show one table's columns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 1 {
			cols, err := s.TableSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			output.PrintSchema(os.Stdout, cols)
			return nil
		}

		names, err := s.ListTables(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("All tables in the snapshot:")
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a raw SQL query against the snapshot",
	Long: `Run caller-supplied SQL with no parameter binding. You are
responsible for quoting; nothing is escaped on your behalf.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		rows, err := s.ExecuteRaw(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		output.PrintRows(os.Stdout, rows)
		return nil
	},
}

// saveMatches persists one group's matched accessions into the auxiliary
// terms table, keyed on the first requested tier's accession.
func saveMatches(ctx context.Context, s *store.Store, g query.GroupMatches) error {
	accs := make([]string, 0, len(g.Rows))
	for _, row := range g.Rows {
		accs = append(accs, row[0])
	}
	return s.SaveTermMatches(ctx, query.KeywordTag(g.Terms), accs)
}

// openStore resolves the snapshot path, asking the user how to proceed
// when the file is missing or unreadable. Declining both the download and
// a manual path exits cleanly with no partial state.
func openStore() (*store.Store, error) {
	state, s := store.Resolve(dbPath)
	switch state {
	case store.Opened:
		return s, nil

	case store.NeedsAcquisition:
		if promptYes("Snapshot not found at " + dbPath + ". Download it? Enter [y/n]:") {
			if _, err := acquireSnapshot(context.Background(), filepath.Dir(dbPath)); err != nil {
				return nil, err
			}
			return store.Open(dbPath)
		}
		return promptPath()

	default: // NeedsPathInput
		fmt.Printf("%s exists but could not be opened as a snapshot.\n", dbPath)
		return promptPath()
	}
}

// promptPath asks for an alternate snapshot path; 'n' aborts the process
// cleanly (exit 0, nothing written).
func promptPath() (*store.Store, error) {
	fmt.Println("Enter the path to your SRAmetadb.sqlite file (enter [n] to exit):")
	line := readLine()
	if line == "n" || line == "" {
		fmt.Println("Exiting...")
		os.Exit(0)
	}
	return store.Open(line)
}

func promptYes(msg string) bool {
	fmt.Println(msg)
	return readLine() == "y"
}

func readLine() string {
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

// acquireSnapshot runs the pipeline with console progress reporting.
func acquireSnapshot(ctx context.Context, dir string) (store.Provenance, error) {
	acq := pipeline.NewAcquirer(config.CurrentDefaults, logger)

	var last int64
	acq.OnProgress = func(written, total int64) {
		// Redraw at most every 8 MB to keep the terminal readable.
		if written-last < 8<<20 && (total < 0 || written < total) {
			return
		}
		last = written
		if total < 0 {
			fmt.Fprintf(os.Stderr, "\r%s downloaded", humanize.IBytes(uint64(written)))
			return
		}
		fmt.Fprintf(os.Stderr, "\r%s / %s", humanize.IBytes(uint64(written)), humanize.IBytes(uint64(total)))
	}

	prov, err := acq.Acquire(ctx, dir)
	fmt.Fprintln(os.Stderr)
	return prov, err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", filepath.Join(".", config.SnapshotName), "Path to the SRAmetadb.sqlite snapshot")

	downloadCmd.Flags().StringVar(&destDir, "dir", ".", "Directory to place the snapshot in")

	termsCmd.Flags().StringVar(&tierSpec, "output", "run", "Output tiers: run, experiment, study (comma-separated, max 3)")
	termsCmd.Flags().BoolVar(&saveHits, "save", false, "Store matched accessions in the auxiliary terms table")

	extractCmd.Flags().StringVar(&field, "field", "protocol", "Field(s) to extract: abstract, protocol or both")

	rootCmd.AddCommand(downloadCmd, termsCmd, protocolsCmd, extractCmd, sampleCmd, tablesCmd, queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Println(err)
		os.Exit(1)
	}
}
