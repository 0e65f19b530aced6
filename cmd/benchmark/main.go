package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/ticksignals/tick"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

func main() {
	profile := flag.String("cpuprofile", "", "write a CPU profile to this file")
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkTick(false)
	benchmarkTick(true)
}

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100}
	iters = 100
)

func pass(*tick.Signal) error {
	return nil
}

// benchmarkTick measures one Advance over w observed signals with h bindings
// each, with every signal changed before the cycle.
func benchmarkTick(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Tick Signals")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			m := tick.New()
			values := make([]int, w)
			for i := range values {
				s, err := tick.Observe(m, &values[i])
				if err != nil {
					log.Fatal(err)
				}
				for j := 0; j < h; j++ {
					if _, err := m.Bind(s, pass); err != nil {
						log.Fatal(err)
					}
				}
			}

			for i := 0; i < iters; i++ {
				for j := range values {
					values[j]++
				}
				start := time.Now()
				m.Advance()
				tach.AddTime(time.Since(start))
			}
			m.Flush()

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("advance: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
