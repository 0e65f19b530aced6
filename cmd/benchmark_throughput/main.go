package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/delaneyj/ticksignals/tick"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func main() {
	log.Print("Starting tick throughput benchmark, please wait...")
	defer log.Print("Finished tick throughput benchmark")

	cfgs := []benchmarkConfig{
		{
			name:           "few values",
			kind:           tick.KindValue,
			nSignals:       10,
			nBindings:      1,
			changeFraction: 1,
			iterations:     200000,
		},
		{
			name:           "wide values",
			kind:           tick.KindValue,
			nSignals:       1000,
			nBindings:      2,
			changeFraction: 0.1,
			iterations:     5000,
		},
		{
			name:           "wide buffers",
			kind:           tick.KindBytes,
			nSignals:       1000,
			nBindings:      1,
			changeFraction: 0.1,
			bufSize:        256,
			iterations:     2000,
		},
		{
			name:           "sparse events",
			kind:           tick.KindEvent,
			nSignals:       1000,
			nBindings:      4,
			changeFraction: 0.05,
			iterations:     5000,
		},
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"test", "kind", "signals", "bindings", "change%",
		"nTimes", "time", "dispatches", "dispatchRate",
	})

	testRepeats := 5
	for _, cfg := range cfgs {
		log.Printf("Running '%s' config", cfg.name)

		best := time.Hour
		var dispatches uint64
		for i := 0; i < testRepeats; i++ {
			log.Printf("Running '%s' config, iteration %d/%d %d%%", cfg.name, i+1, testRepeats, (i+1)*100/testRepeats)
			duration, stats := runBenchmark(&cfg)
			if duration < best {
				best = duration
				dispatches = stats.Dispatches
			}
		}

		dispatchRate := float64(dispatches) / (float64(best) / float64(time.Millisecond))

		table.Append([]string{
			cfg.name,
			cfg.kind.String(),
			humanize.Comma(int64(cfg.nSignals)),
			humanize.Comma(int64(cfg.nSignals * cfg.nBindings)),
			fmt.Sprint(100 * cfg.changeFraction),
			humanize.Comma(cfg.iterations),
			fmt.Sprint(best),
			humanize.Comma(int64(dispatches)),
			humanize.Comma(int64(dispatchRate)) + "/ms",
		})
	}
	table.Render()
}

type benchmarkConfig struct {
	name           string
	kind           tick.Kind
	nSignals       int
	nBindings      int     // bindings per signal
	changeFraction float64 // fraction of signals touched before each advance
	bufSize        int     // buffer length for KindBytes
	iterations     int64
}

func runBenchmark(cfg *benchmarkConfig) (time.Duration, tick.Stats) {
	random := rand.New(rand.NewSource(0))
	m := tick.New()
	defer m.Flush()

	touch := makeSignals(m, cfg)
	nChanged := int(float64(cfg.nSignals) * cfg.changeFraction)

	start := time.Now()
	for i := int64(0); i < cfg.iterations; i++ {
		for j := 0; j < nChanged; j++ {
			touch[random.Intn(len(touch))](i)
		}
		m.Advance()
	}
	return time.Since(start), m.Stats()
}

// makeSignals registers cfg.nSignals signals and returns one mutator per
// signal.
func makeSignals(m *tick.Machine, cfg *benchmarkConfig) []func(i int64) {
	touch := make([]func(int64), cfg.nSignals)
	values := make([]int64, cfg.nSignals)
	bufs := make([][]byte, cfg.nSignals)

	for n := range touch {
		var (
			s   *tick.Signal
			err error
		)
		switch cfg.kind {
		case tick.KindValue:
			s, err = tick.Observe(m, &values[n])
			touch[n] = func(i int64) { values[n] = i + 1 }
		case tick.KindBytes:
			bufs[n] = make([]byte, cfg.bufSize)
			s, err = tick.ObserveBytes(m, &bufs[n])
			touch[n] = func(i int64) { bufs[n][int(i)%cfg.bufSize]++ }
		default:
			s, err = tick.NewEvent(m)
			touch[n] = func(i int64) { s.Emit(i) }
		}
		if err != nil {
			log.Fatal(err)
		}
		for b := 0; b < cfg.nBindings; b++ {
			if _, err := m.Bind(s, func(*tick.Signal) error { return nil }); err != nil {
				log.Fatal(err)
			}
		}
	}
	return touch
}
