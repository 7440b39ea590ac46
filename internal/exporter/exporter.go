// Package exporter pushes segmented trials from the local store to a shared
// lab Postgres warehouse, so cross-subject queries do not have to touch the
// per-study sqlite files.
package exporter

import (
	"fmt"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jmontp/LocoHub-sub016/internal/database"
	"github.com/jmontp/LocoHub-sub016/internal/log"
)

// WarehouseTrial is the warehouse-side trial row.
type WarehouseTrial struct {
	ID         string    `gorm:"primaryKey"`
	Subject    string    `gorm:"index"`
	Task       string    `gorm:"index"`
	Archetype  string
	SourceFile string
	SampleRate float64
	CreatedAt  time.Time
}

// TableName keeps the warehouse naming scheme.
func (WarehouseTrial) TableName() string { return "trials" }

// WarehouseSegment is the warehouse-side segment row.
type WarehouseSegment struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	TrialID        string `gorm:"index"`
	Kind           string `gorm:"index"`
	StartIndex     int
	EndIndex       int
	StartTime      float64
	EndTime        float64
	Duration       float64
	FlightDuration float64
	MidTime        float64
}

// TableName keeps the warehouse naming scheme.
func (WarehouseSegment) TableName() string { return "segments" }

// Client holds the connection to the segment warehouse.
type Client struct {
	DB     *gorm.DB
	logger *zap.SugaredLogger
}

// NewClient creates a warehouse client; call Connect before exporting.
func NewClient(logger *zap.SugaredLogger) *Client {
	return &Client{logger: logger}
}

// Connect connects to the warehouse and migrates the schema.
func (c *Client) Connect(connectionString string) error {
	dbLogger := gormlogger.New(
		zap.NewStdLog(log.GetZapLogger()),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Warn,
		},
	)

	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return fmt.Errorf("connecting to segment warehouse: %w", err)
	}
	if err := db.AutoMigrate(&WarehouseTrial{}, &WarehouseSegment{}); err != nil {
		return fmt.Errorf("migrating warehouse schema: %w", err)
	}
	c.DB = db
	return nil
}

// ExportTrial uploads one trial and its segments, replacing any previous
// export of the same trial ID.
func (c *Client) ExportTrial(trial database.Trial, segments []database.SegmentRecord) error {
	if c.DB == nil {
		return fmt.Errorf("warehouse client not connected")
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trial_id = ?", trial.ID).Delete(&WarehouseSegment{}).Error; err != nil {
			return fmt.Errorf("clearing previous segments: %w", err)
		}
		if err := tx.Where("id = ?", trial.ID).Delete(&WarehouseTrial{}).Error; err != nil {
			return fmt.Errorf("clearing previous trial: %w", err)
		}

		wt := WarehouseTrial{
			ID:         trial.ID,
			Subject:    trial.Subject,
			Task:       trial.Task,
			Archetype:  trial.Archetype,
			SourceFile: trial.SourceFile,
			SampleRate: trial.SampleRate,
			CreatedAt:  trial.CreatedAt,
		}
		if err := tx.Create(&wt).Error; err != nil {
			return fmt.Errorf("inserting trial: %w", err)
		}

		if len(segments) == 0 {
			return nil
		}
		rows := make([]WarehouseSegment, len(segments))
		for i, s := range segments {
			rows[i] = WarehouseSegment{
				TrialID:        s.TrialID,
				Kind:           s.Kind,
				StartIndex:     s.StartIndex,
				EndIndex:       s.EndIndex,
				StartTime:      s.StartTime,
				EndTime:        s.EndTime,
				Duration:       s.Duration,
				FlightDuration: s.FlightDuration,
				MidTime:        s.MidTime,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("inserting segments: %w", err)
		}

		if c.logger != nil {
			c.logger.Infof("Exported trial %s (%d segments) to warehouse", trial.ID, len(rows))
		}
		return nil
	})
}
