package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// VibeRecord is one completed resolution in the ledger.
type VibeRecord struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Input     string    `json:"input"`
	Category  string    `gorm:"index:idx_vibe_records_category" json:"category"`
	Source    string    `gorm:"index:idx_vibe_records_source" json:"source"`
	Reason    string    `json:"reason"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_vibe_records_created_at" json:"created_at"`
}

func (VibeRecord) TableName() string {
	return "vibe_records"
}

func (r *VibeRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Summary aggregates the ledger.
type Summary struct {
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"by_category"`
	BySource   map[string]int64 `json:"by_source"`
	LastSeenAt *time.Time       `json:"last_seen_at,omitempty"`
}

// Service represents a service that interacts with the ledger database.
type Service interface {
	// Health returns a map of health status information.
	Health() map[string]string

	// Record stores one resolution.
	Record(ctx context.Context, record *VibeRecord) error

	// Summarize counts resolutions by category and source.
	Summarize(ctx context.Context) (Summary, error)

	// Close terminates the database connection.
	Close() error
}

type service struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// New opens the sqlite ledger at dsn, or returns a no-op service when dsn
// is empty.
func New(dsn string) (Service, error) {
	if dsn == "" {
		return NewNoop(), nil
	}
	return NewSQLiteAdapter(dsn)
}

func NewSQLiteAdapter(dsn string) (Service, error) {
	return newSQLiteService(dsn)
}

func newSQLiteService(dsn string) (*service, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database: empty dsn")
	}

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", dsn, err)
	}

	if err := gormDB.AutoMigrate(&VibeRecord{}); err != nil {
		return nil, fmt.Errorf("database: migrate: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	return &service{db: gormDB, sqlDB: sqlDB}, nil
}

func (s *service) Record(ctx context.Context, record *VibeRecord) error {
	if record == nil {
		return nil
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(record).Error
}

type countRow struct {
	Name  string
	Total int64
}

func (s *service) Summarize(ctx context.Context) (Summary, error) {
	summary := Summary{
		ByCategory: map[string]int64{},
		BySource:   map[string]int64{},
	}

	if err := s.db.WithContext(ctx).Model(&VibeRecord{}).Count(&summary.Total).Error; err != nil {
		return Summary{}, err
	}

	var byCategory []countRow
	if err := s.db.WithContext(ctx).Model(&VibeRecord{}).
		Select("category AS name, COUNT(*) AS total").
		Group("category").
		Scan(&byCategory).Error; err != nil {
		return Summary{}, err
	}
	for _, row := range byCategory {
		summary.ByCategory[row.Name] = row.Total
	}

	var bySource []countRow
	if err := s.db.WithContext(ctx).Model(&VibeRecord{}).
		Select("source AS name, COUNT(*) AS total").
		Group("source").
		Scan(&bySource).Error; err != nil {
		return Summary{}, err
	}
	for _, row := range bySource {
		summary.BySource[row.Name] = row.Total
	}

	if summary.Total > 0 {
		var latest VibeRecord
		if err := s.db.WithContext(ctx).Order("created_at DESC").First(&latest).Error; err != nil {
			return Summary{}, err
		}
		summary.LastSeenAt = &latest.CreatedAt
	}

	return summary, nil
}

// Health checks the health of the database connection by pinging the database.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	err := s.sqlDB.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.sqlDB.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	return s.sqlDB.Close()
}

// noopService stands in when no ledger is configured.
type noopService struct{}

func NewNoop() Service {
	return noopService{}
}

func (noopService) Health() map[string]string {
	return map[string]string{"status": "disabled", "message": "ledger not configured"}
}

func (noopService) Record(context.Context, *VibeRecord) error { return nil }

func (noopService) Summarize(context.Context) (Summary, error) {
	return Summary{ByCategory: map[string]int64{}, BySource: map[string]int64{}}, nil
}

func (noopService) Close() error { return nil }
