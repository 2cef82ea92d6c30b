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

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cardgate/cardgate"
	"github.com/cardgate/cardgate/card"
	"github.com/cardgate/cardgate/permission"
)

func main() {
	var (
		cards       = flag.Int("cards", 10000, "number of cards to seed on the bridge")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (sync + push)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "cg", "bridge key prefix")
	)
	flag.Parse()

	if *cards <= 0 || *cards > 65536 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "cards must be 1..65536; concurrency and ops must be > 0")
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

	cfg := cardgate.Config{
		Backend: cardgate.BackendConfig{RedisPrefix: *prefix},
		Metrics: cardgate.MetricsConfig{Enabled: true, EnableLatencyHistograms: true},
	}
	registry, err := cardgate.NewBuilder().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer registry.Close()

	fmt.Printf("seeding %d cards...\n", *cards)
	startSeed := time.Now()
	backend := registry.Backend()
	for i := 0; i < *cards; i++ {
		c := card.New(uint16(i), permission.Regular)
		if err := backend.Write(ctx, c, c.Encode()); err != nil {
			fmt.Fprintf(os.Stderr, "seed write failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	syncStats := runSyncPhase(ctx, registry, *cards, *ops, *concurrency)
	pushStats := runPushPhase(ctx, registry, *cards, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("sync", syncStats)
	printStats("push", pushStats)
	fmt.Printf("registry holds %d cards\n", registry.Len())
}

func runSyncPhase(ctx context.Context, registry *cardgate.Registry, cards, ops, concurrency int) phaseStats {
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
				id := uint16(r.Intn(cards))
				t0 := time.Now()
				_, err := registry.Sync(ctx, id)
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

func runPushPhase(ctx context.Context, registry *cardgate.Registry, cards, ops, concurrency int) phaseStats {
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
				id := uint16(r.Intn(cards))
				registry.Put(card.New(id, permission.Regular|permission.OpenDoors))
				t0 := time.Now()
				err := registry.Push(ctx, id)
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
		p50:      samples[len(samples)/2],
		p95:      samples[len(samples)*95/100],
		p99:      samples[len(samples)*99/100],
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func printStats(phase string, s phaseStats) {
	fmt.Printf("%s: %d ops in %s (%.0f ops/s), %d failures, p50=%s p95=%s p99=%s\n",
		phase, s.ops, s.total.Round(time.Millisecond), s.opsPerS, s.failures,
		s.p50.Round(time.Microsecond), s.p95.Round(time.Microsecond), s.p99.Round(time.Microsecond))
}
