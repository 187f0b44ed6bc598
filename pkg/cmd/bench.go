package cmd

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/c9s/rbtree/pkg/rbtree"
	"github.com/c9s/rbtree/pkg/style"
)

func init() {
	BenchCmd.Flags().Int("n", 100_000, "number of keys to insert, search and delete")
	BenchCmd.Flags().Int64("key-range", 0, "keys are drawn from [0, key-range), defaults to 10*n")
	BenchCmd.Flags().Int64("seed", 0, "random seed, 0 means the current time")
	BenchCmd.Flags().Bool("no-progress", false, "hide the progress bar")
	RootCmd.AddCommand(BenchCmd)
}

// go run ./cmd/rbtree bench --n 1000000
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "measure insert, search and delete latencies on random keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := cmd.Flags().GetInt("n")
		if err != nil {
			return err
		}

		if n <= 0 {
			return errors.Errorf("n must be positive, got %d", n)
		}

		keyRange, err := cmd.Flags().GetInt64("key-range")
		if err != nil {
			return err
		}

		if keyRange <= 0 {
			keyRange = 10 * int64(n)
		}

		seed, err := cmd.Flags().GetInt64("seed")
		if err != nil {
			return err
		}

		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		noProgress, err := cmd.Flags().GetBool("no-progress")
		if err != nil {
			return err
		}

		b := &benchmark{
			n:        n,
			keyRange: keyRange,
			rnd:      rand.New(rand.NewSource(seed)),
		}

		if !noProgress {
			b.bar = pb.Full.Start(3 * n)
			b.bar.SetWriter(cmd.ErrOrStderr())
			b.bar.SetTemplateString(`{{ string . "phase" | green}} | {{counters . }} {{bar . }} {{percent . }} {{etime . }}`)
		}

		report, err := b.run()
		if b.bar != nil {
			b.bar.Finish()
		}

		if err != nil {
			return err
		}

		report.Render(cmd.OutOrStdout(), seed)
		return nil
	},
}

type benchmark struct {
	n        int
	keyRange int64
	rnd      *rand.Rand
	bar      *pb.ProgressBar
}

type phaseResult struct {
	Name      string
	Latencies []float64 // nanoseconds
	Total     time.Duration
	Misses    int
}

type benchReport struct {
	Phases     []phaseResult
	PeakHeight int
	PeakLen    int
	Stats      rbtree.Stats
}

func (b *benchmark) phase(name string) {
	if b.bar != nil {
		b.bar.Set("phase", name)
	}
}

func (b *benchmark) step() {
	if b.bar != nil {
		b.bar.Increment()
	}
}

func (b *benchmark) run() (*benchReport, error) {
	tree := rbtree.New[int64]()
	keys := make([]int64, b.n)
	for i := range keys {
		keys[i] = b.rnd.Int63n(b.keyRange)
	}

	report := &benchReport{}

	b.phase("insert")
	insert := phaseResult{Name: "insert", Latencies: make([]float64, 0, b.n)}
	for _, k := range keys {
		startTime := time.Now()
		tree.Insert(k)
		d := time.Since(startTime)
		insert.Total += d
		insert.Latencies = append(insert.Latencies, float64(d))
		b.step()
	}

	if err := tree.Verify(); err != nil {
		return nil, errors.Wrap(err, "tree is broken after inserts")
	}

	report.PeakLen = tree.Len()
	report.PeakHeight = tree.Height()

	b.phase("search")
	search := phaseResult{Name: "search", Latencies: make([]float64, 0, b.n)}
	for range keys {
		k := b.rnd.Int63n(b.keyRange)
		startTime := time.Now()
		_, err := tree.Search(k)
		d := time.Since(startTime)
		if err != nil {
			search.Misses++
		}

		search.Total += d
		search.Latencies = append(search.Latencies, float64(d))
		b.step()
	}

	b.phase("delete")
	b.rnd.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	del := phaseResult{Name: "delete", Latencies: make([]float64, 0, b.n)}
	for _, k := range keys {
		startTime := time.Now()
		err := tree.Delete(k)
		d := time.Since(startTime)
		if err != nil {
			return nil, errors.Wrapf(err, "inserted key %d can not be deleted", k)
		}

		del.Total += d
		del.Latencies = append(del.Latencies, float64(d))
		b.step()
	}

	if err := tree.Verify(); err != nil {
		return nil, errors.Wrap(err, "tree is broken after deletes")
	}

	if tree.Len() != 0 {
		return nil, errors.Errorf("tree should be empty after deleting every key, %d left", tree.Len())
	}

	report.Phases = []phaseResult{insert, search, del}
	report.Stats = tree.Stats()
	return report, nil
}

func (r *benchReport) Render(w io.Writer, seed int64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*style.NewDefaultTableStyle())
	t.SetTitle(fmt.Sprintf("rbtree benchmark (seed %d)", seed))
	t.AppendHeader(table.Row{"Op", "Count", "Misses", "Total", "Mean", "StdDev", "P50", "P99", "Ops/s"})

	for _, p := range r.Phases {
		mean, std := stat.MeanStdDev(p.Latencies, nil)

		sorted := append([]float64(nil), p.Latencies...)
		sort.Float64s(sorted)
		p50 := stat.Quantile(0.5, stat.Empirical, sorted, nil)
		p99 := stat.Quantile(0.99, stat.Empirical, sorted, nil)

		var opsPerSecond float64
		if p.Total > 0 {
			opsPerSecond = float64(len(p.Latencies)) / p.Total.Seconds()
		}

		t.AppendRow(table.Row{
			p.Name,
			len(p.Latencies),
			p.Misses,
			p.Total.Round(time.Microsecond),
			time.Duration(mean),
			time.Duration(std),
			time.Duration(p50),
			time.Duration(p99),
			fmt.Sprintf("%.0f", opsPerSecond),
		})
	}

	bound := 2 * math.Log2(float64(r.PeakLen+1))
	t.AppendFooter(table.Row{"height", r.PeakHeight, "", "bound", fmt.Sprintf("%.1f", bound), "", "reuse", r.Stats.Reuse, ""})
	t.Render()
}
