// Command goflags-loadtest measures flag-store throughput: it seeds raw
// bit-field values for N subjects, then runs concurrent load and
// combine-and-save phases against Redis (or an embedded miniredis when no
// address is configured).
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goFlags "github.com/MrEthical07/goFlags"
	"github.com/MrEthical07/goFlags/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const catalogWidth = 16

func main() {
	var (
		subjects    = flag.Int("subjects", 100000, "number of subjects to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (load + combine)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "bf", "flag value key prefix")
	)
	flag.Parse()

	if *subjects <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "subjects, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	reg := buildCatalog()
	st := store.NewStore(client, *prefix)

	ids := make([]string, *subjects)
	fmt.Printf("seeding %d subjects...\n", *subjects)
	startSeed := time.Now()
	seedRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range ids {
		ids[i] = uuid.NewString()
		field := reg.FromValue(seedRand.Uint64() & reg.AllBits())
		if err := st.Save(ctx, ids[i], field, 24*time.Hour); err != nil {
			fmt.Fprintf(os.Stderr, "seed save failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	loadStats := runLoadPhase(ctx, st, reg, ids, *ops, *concurrency)
	combineStats := runCombinePhase(ctx, st, reg, ids, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("load", loadStats)
	printStats("combine", combineStats)

	m := st.Metrics()
	fmt.Printf("store counters: saves=%d loads=%d misses=%d\n", m.Saves, m.Loads, m.Misses)
}

// buildCatalog declares a synthetic 16-flag catalog for the benchmark.
func buildCatalog() *goFlags.Registry {
	flags := make([]goFlags.Flag, 0, catalogWidth)
	for i := 0; i < catalogWidth; i++ {
		bit := i
		flags = append(flags, goFlags.NewFlag(fmt.Sprintf("flag%02d", bit), func() uint64 { return 1 << bit }))
	}
	return goFlags.MustRegistry("LoadFlags", flags...)
}

func runLoadPhase(ctx context.Context, st *store.Store, reg *goFlags.Registry, ids []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(ids))
				t0 := time.Now()
				_, err := st.Load(ctx, ids[idx], reg)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

// runCombinePhase loads two subjects, ORs them, and writes the result back to
// the first — the read-modify-write shape of a permission grant.
func runCombinePhase(ctx context.Context, st *store.Store, reg *goFlags.Registry, ids []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				a := ids[r.Intn(len(ids))]
				b := ids[r.Intn(len(ids))]

				t0 := time.Now()
				err := combine(ctx, st, reg, a, b)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

func combine(ctx context.Context, st *store.Store, reg *goFlags.Registry, a, b string) error {
	fa, err := st.Load(ctx, a, reg)
	if err != nil {
		return err
	}
	fb, err := st.Load(ctx, b, reg)
	if err != nil {
		return err
	}
	if err := fa.OrAssign(fb); err != nil {
		return err
	}
	return st.Save(ctx, a, fa, 24*time.Hour)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf(
		"%-8s ops=%d failures=%d total=%s ops/s=%.0f p50=%s p95=%s p99=%s\n",
		name, s.ops, s.failures, s.total.Round(time.Millisecond), s.opsPerS,
		s.p50, s.p95, s.p99,
	)
}
