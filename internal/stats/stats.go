package stats

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alexivanou/geotemp-api/internal/config"
	"github.com/alexivanou/geotemp-api/internal/repository"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// Stats is a point-in-time snapshot of the process and its store
type Stats struct {
	Timestamp time.Time     `json:"timestamp"`
	Memory    MemoryStats   `json:"memory"`
	Database  DatabaseStats `json:"database"`
	Entities  EntityStats   `json:"entities"`
	Runtime   RuntimeStats  `json:"runtime"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc"`
	TotalAlloc   uint64 `json:"total_alloc"`
	Sys          uint64 `json:"sys"`
	NumGC        uint32 `json:"num_gc"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	HeapSys      uint64 `json:"heap_sys"`
	HeapInuse    uint64 `json:"heap_inuse"`
	HeapReleased uint64 `json:"heap_released"`
}

type DatabaseStats struct {
	Type         string      `json:"type"`
	TotalRecords int64       `json:"total_records"`
	SizeBytes    int64       `json:"size_bytes"`
	TableStats   []TableStat `json:"table_stats"`
}

// EntityStats counts the live records of each kind
type EntityStats struct {
	Countries    int64 `json:"countries"`
	Cities       int64 `json:"cities"`
	Temperatures int64 `json:"temperatures"`
}

type TableStat struct {
	Name      string `json:"name"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

type Collector struct {
	db         *sqlx.DB
	config     config.DBConfig
	repos      *repository.Container
	startTime  time.Time
	cachedMem  *MemoryStats
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

var (
	memStatsCacheDuration = 5 * time.Second
)

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// kvTables are the tables backing the key-value store
var kvTables = []string{"kv_hashes", "kv_sets", "kv_counters"}

func NewCollector(db *sqlx.DB, cfg config.DBConfig, repos *repository.Container) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		repos:     repos,
		startTime: time.Now(),
	}
}

// Collect gathers a snapshot. Store-backed sections are queried concurrently.
func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now(),
		Memory:    c.collectMemoryStats(),
		Runtime:   c.collectRuntimeStats(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		db, err := c.collectDatabaseStats(gctx)
		if err != nil {
			return err
		}
		stats.Database = *db
		return nil
	})
	g.Go(func() error {
		entities, err := c.collectEntityStats(gctx)
		if err != nil {
			return err
		}
		stats.Entities = *entities
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		HeapInuse:    m.HeapInuse,
		HeapReleased: m.HeapReleased,
	}

	c.cachedMem = &mem
	c.cacheTime = time.Now()

	return mem
}

func (c *Collector) collectDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{
		Type:       string(c.config.Type),
		TableStats: make([]TableStat, 0, len(kvTables)),
	}

	// Size reporting depends on optional backend features; a failure leaves it at zero.
	_ = c.db.GetContext(ctx, &stats.SizeBytes, c.sizeQueries().database)

	for _, table := range kvTables {
		stat, err := c.tableStat(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
		}
		stats.TableStats = append(stats.TableStats, stat)
		stats.TotalRecords += stat.RowCount
	}

	return stats, nil
}

type sizeQueries struct {
	database string
	table    string
}

func (c *Collector) sizeQueries() sizeQueries {
	if c.config.Type == config.DBTypePostgreSQL {
		return sizeQueries{
			database: `SELECT pg_database_size(current_database())`,
			table:    `SELECT COALESCE(pg_total_relation_size($1::regclass), 0)`,
		}
	}
	// dbstat is only present when SQLite is built with SQLITE_ENABLE_DBSTAT_VTAB.
	return sizeQueries{
		database: `SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()`,
		table:    `SELECT COALESCE(SUM(pgsize), 0) FROM dbstat WHERE name = ?`,
	}
}

func (c *Collector) tableStat(ctx context.Context, table string) (TableStat, error) {
	stat := TableStat{Name: table}

	if err := c.db.GetContext(ctx, &stat.RowCount, "SELECT COUNT(*) FROM "+table); err != nil {
		return stat, err
	}
	_ = c.db.GetContext(ctx, &stat.SizeBytes, c.sizeQueries().table, table)

	return stat, nil
}

func (c *Collector) collectEntityStats(ctx context.Context) (*EntityStats, error) {
	var stats EntityStats
	g, gctx := errgroup.WithContext(ctx)
	count := func(repo counter, dst *int64) {
		g.Go(func() (err error) {
			*dst, err = repo.Count(gctx)
			return err
		})
	}
	count(c.repos.Country, &stats.Countries)
	count(c.repos.City, &stats.Cities)
	count(c.repos.Temperature, &stats.Temperatures)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}
	return &stats, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	uptime := time.Since(c.startTime).Seconds()
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(uptime),
	}
}
