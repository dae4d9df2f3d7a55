package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ContentMutations counts successful writes by resource and action.
	ContentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_content_mutations_total",
		Help: "Total number of content writes by resource and action",
	}, []string{"resource", "action"})
)

// RecordMutation increments the content mutation counter.
func RecordMutation(resource, action string) {
	ContentMutations.WithLabelValues(resource, action).Inc()
}

const queryStartKey = "observability:query_start"

// RegisterGormMetrics installs GORM callbacks that record per-statement latency.
func RegisterGormMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	registrations := []struct {
		name     string
		register func() error
	}{
		{"create", func() error {
			if err := cb.Create().Before("gorm:create").Register("metrics:before_create", before); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("metrics:after_create", after("create"))
		}},
		{"query", func() error {
			if err := cb.Query().Before("gorm:query").Register("metrics:before_query", before); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("metrics:after_query", after("query"))
		}},
		{"update", func() error {
			if err := cb.Update().Before("gorm:update").Register("metrics:before_update", before); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("metrics:after_update", after("update"))
		}},
		{"delete", func() error {
			if err := cb.Delete().Before("gorm:delete").Register("metrics:before_delete", before); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("metrics:after_delete", after("delete"))
		}},
		{"raw", func() error {
			if err := cb.Raw().Before("gorm:raw").Register("metrics:before_raw", before); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register("metrics:after_raw", after("raw"))
		}},
	}

	for _, r := range registrations {
		if err := r.register(); err != nil {
			return fmt.Errorf("register %s metrics callback: %w", r.name, err)
		}
	}
	return nil
}
