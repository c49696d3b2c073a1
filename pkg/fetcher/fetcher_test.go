package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adtfetch/internal/downloader"
	"adtfetch/pkg/casc"
	"adtfetch/pkg/config"
	errs "adtfetch/pkg/errors"
	"adtfetch/pkg/logger"
	"adtfetch/pkg/manifest"
	"adtfetch/pkg/ratelimit"
	"adtfetch/pkg/storage"
)

// transportFunc adapts a function to the Transport interface
type transportFunc func(ctx context.Context, id int) (*casc.Result, error)

func (f transportFunc) Fetch(ctx context.Context, id int) (*casc.Result, error) {
	return f(ctx, id)
}

// tileResult builds a successful fetch result carrying a tile name
func tileResult(name string, body []byte) *casc.Result {
	h := http.Header{}
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	return &casc.Result{Body: body, Header: h}
}

// tileTransport serves kalimdor_<id>_0.adt for every ID
func tileTransport() Transport {
	return transportFunc(func(ctx context.Context, id int) (*casc.Result, error) {
		return tileResult(fmt.Sprintf("kalimdor_%d_0.adt", id), []byte("tile bytes")), nil
	})
}

func newTestFetcher(t *testing.T, transport Transport, mutate func(*config.Config)) *Fetcher {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Output.Directory = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}

	writer, err := storage.NewWriter(cfg.Output.Directory)
	require.NoError(t, err)

	return &Fetcher{
		transport: transport,
		writer:    writer,
		limiter:   ratelimit.NewInterval(0),
		cfg:       cfg,
		logger:    logger.NewTestLogger(),
	}
}

func manifestSource(ids ...int) *manifest.Source {
	return &manifest.Source{Mode: manifest.ModeManifest, IDs: ids}
}

func rangeSource(ids ...int) *manifest.Source {
	return &manifest.Source{Mode: manifest.ModeRange, IDs: ids}
}

func TestRunWritesAcceptedTiles(t *testing.T) {
	f := newTestFetcher(t, tileTransport(), nil)

	counters, err := f.Run(context.Background(), manifestSource(1, 2, 3))
	require.NoError(t, err)

	assert.Equal(t, Counters{OK: 3}, counters)
	for _, id := range []int{1, 2, 3} {
		data, err := os.ReadFile(f.Writer().Path(fmt.Sprintf("kalimdor_%d_0.adt", id)))
		require.NoError(t, err)
		assert.Equal(t, []byte("tile bytes"), data)
	}
}

func TestRunClassifiesOutcomes(t *testing.T) {
	transport := transportFunc(func(ctx context.Context, id int) (*casc.Result, error) {
		switch id {
		case 1:
			return tileResult("kalimdor_1_2.adt", []byte("x")), nil
		case 2:
			return nil, errs.HTTPStatusError(404)
		case 3:
			return nil, errs.ExhaustedError(6, errs.HTTPStatusError(503))
		case 4:
			return tileResult("minimap.blp", []byte("x")), nil
		default:
			return tileResult("azeroth_0_0.adt", nil), nil // empty body
		}
	})
	f := newTestFetcher(t, transport, nil)

	counters, err := f.Run(context.Background(), manifestSource(1, 2, 3, 4, 5))
	require.NoError(t, err)

	assert.Equal(t, Counters{OK: 1, Missing: 1, Failed: 2, SkippedNonMatch: 1}, counters)
	assert.Equal(t, 5, counters.Total())
}

func TestRunContinuesPastFailures(t *testing.T) {
	transport := transportFunc(func(ctx context.Context, id int) (*casc.Result, error) {
		if id == 1 {
			return nil, errs.ExhaustedError(6, errs.HTTPStatusError(500))
		}
		return tileResult(fmt.Sprintf("kalimdor_%d_0.adt", id), []byte("x")), nil
	})
	f := newTestFetcher(t, transport, nil)

	counters, err := f.Run(context.Background(), manifestSource(1, 2, 3))
	require.NoError(t, err)

	assert.Equal(t, 1, counters.Failed)
	assert.Equal(t, 2, counters.OK)
}

func TestRunFallbackNameIsRejected(t *testing.T) {
	// No Content-Disposition at all: the synthesized <id>.bin never matches
	transport := transportFunc(func(ctx context.Context, id int) (*casc.Result, error) {
		return &casc.Result{Body: []byte("x"), Header: http.Header{}}, nil
	})
	f := newTestFetcher(t, transport, nil)

	counters, err := f.Run(context.Background(), manifestSource(782830))
	require.NoError(t, err)
	assert.Equal(t, Counters{SkippedNonMatch: 1}, counters)
}

func TestRunMapFilter(t *testing.T) {
	f := newTestFetcher(t, tileTransport(), func(cfg *config.Config) {
		cfg.Filter.Map = config.MapAzeroth
	})

	counters, err := f.Run(context.Background(), manifestSource(1, 2))
	require.NoError(t, err)
	assert.Equal(t, Counters{SkippedNonMatch: 2}, counters)
}

func TestRunNameCaseNormalization(t *testing.T) {
	f := newTestFetcher(t, tileTransport(), func(cfg *config.Config) {
		cfg.Filter.NameCase = config.NameCaseCapitalize
	})

	counters, err := f.Run(context.Background(), manifestSource(1))
	require.NoError(t, err)

	assert.Equal(t, Counters{OK: 1}, counters)
	_, err = os.Stat(f.Writer().Path("Kalimdor_1_0.adt"))
	assert.NoError(t, err)
}

func TestRunIsIdempotent(t *testing.T) {
	f := newTestFetcher(t, tileTransport(), nil)
	src := manifestSource(1, 2, 3)

	first, err := f.Run(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, Counters{OK: 3}, first)

	sizeOf := func() int64 {
		entries, err := os.ReadDir(f.Writer().OutputDir())
		require.NoError(t, err)
		var total int64
		for _, e := range entries {
			info, err := e.Info()
			require.NoError(t, err)
			total += info.Size()
		}
		return total
	}
	before := sizeOf()

	var presentEvents int
	f.OnEvent(func(e Event) {
		if e.AlreadyPresent {
			presentEvents++
		}
	})

	second, err := f.Run(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, Counters{OK: 3}, second)
	assert.Equal(t, 3, second.OK)
	assert.Equal(t, 3, presentEvents)
	assert.Equal(t, before, sizeOf(), "second run must write zero additional bytes")
}

func TestRunSafetyCap(t *testing.T) {
	var calls atomic.Int32
	transport := transportFunc(func(ctx context.Context, id int) (*casc.Result, error) {
		calls.Add(1)
		return tileResult("kalimdor_0_0.adt", []byte("x")), nil
	})

	t.Run("over-cap range refused before any fetch", func(t *testing.T) {
		calls.Store(0)
		f := newTestFetcher(t, transport, func(cfg *config.Config) {
			cfg.Safety.MaxCount = 2
		})

		_, err := f.Run(context.Background(), rangeSource(1, 2, 3))
		assert.True(t, errs.IsType(err, errs.ErrorTypeConfig))
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("force overrides the cap", func(t *testing.T) {
		calls.Store(0)
		f := newTestFetcher(t, transport, func(cfg *config.Config) {
			cfg.Safety.MaxCount = 2
			cfg.Safety.Force = true
		})

		counters, err := f.Run(context.Background(), rangeSource(1, 2, 3))
		require.NoError(t, err)
		assert.Equal(t, 3, counters.Total())
	})

	t.Run("cap does not apply to manifest mode", func(t *testing.T) {
		calls.Store(0)
		f := newTestFetcher(t, transport, func(cfg *config.Config) {
			cfg.Safety.MaxCount = 2
		})

		counters, err := f.Run(context.Background(), manifestSource(1, 2, 3))
		require.NoError(t, err)
		assert.Equal(t, 3, counters.Total())
	})
}

func TestRunEmitsEvents(t *testing.T) {
	f := newTestFetcher(t, tileTransport(), nil)

	var events []Event
	f.OnEvent(func(e Event) { events = append(events, e) })

	_, err := f.Run(context.Background(), manifestSource(7, 8))
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Index)
	assert.Equal(t, 2, events[0].Total)
	assert.Equal(t, 7, events[0].ID)
	assert.Equal(t, downloader.StatusOK, events[0].Status)
	assert.Equal(t, "kalimdor_7_0.adt", events[0].Name)
}

func TestRunConcurrent(t *testing.T) {
	transport := transportFunc(func(ctx context.Context, id int) (*casc.Result, error) {
		if id%7 == 0 {
			return nil, errs.HTTPStatusError(404)
		}
		return tileResult(fmt.Sprintf("kalimdor_%d_0.adt", id), []byte("x")), nil
	})
	f := newTestFetcher(t, transport, func(cfg *config.Config) {
		cfg.Download.Concurrent = 4
	})

	ids := make([]int, 50)
	for i := range ids {
		ids[i] = i + 1
	}

	counters, err := f.Run(context.Background(), manifestSource(ids...))
	require.NoError(t, err)

	assert.Equal(t, 50, counters.Total())
	assert.Equal(t, 7, counters.Missing) // 7, 14, ..., 49
	assert.Equal(t, 43, counters.OK)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	var calls atomic.Int32
	transport := transportFunc(func(ctx context.Context, id int) (*casc.Result, error) {
		calls.Add(1)
		return tileResult("kalimdor_0_0.adt", []byte("x")), nil
	})
	f := newTestFetcher(t, transport, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	counters, err := f.Run(ctx, manifestSource(1, 2, 3))
	require.NoError(t, err)

	assert.Equal(t, 0, counters.Total())
	assert.Equal(t, int32(0), calls.Load())
}
