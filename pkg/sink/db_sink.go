package sink

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TelemetryRecord es una fila de telemetría en la base de datos
type TelemetryRecord struct {
	ID        uint      `gorm:"primaryKey"`
	SensorID  string    `gorm:"size:64;index;not null"`
	Payload   string    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName fija el nombre de la tabla
func (TelemetryRecord) TableName() string {
	return "sensor_telemetry"
}

// DBSink guarda cada payload como una fila en PostgreSQL
type DBSink struct {
	db *gorm.DB
}

// NewDBSink abre la conexión y migra el esquema
func NewDBSink(dsn string) (*DBSink, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return NewDBSinkFromDB(db)
}

// NewDBSinkFromDB usa una conexión gorm existente
func NewDBSinkFromDB(db *gorm.DB) (*DBSink, error) {
	if err := db.AutoMigrate(&TelemetryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate telemetry table: %w", err)
	}
	return &DBSink{db: db}, nil
}

// Write inserta el payload
func (ds *DBSink) Write(ctx context.Context, data []byte, sensorID string) error {
	if len(data) == 0 {
		return fmt.Errorf("empty data for sensor %s", sensorID)
	}

	record := TelemetryRecord{SensorID: sensorID, Payload: string(data)}
	if err := ds.db.WithContext(ctx).Create(&record).Error; err != nil {
		return &SinkError{Sink: "db", Operation: "write", Err: err, SensorID: sensorID}
	}

	return nil
}

// Count retorna cuántas filas hay para un sensor
func (ds *DBSink) Count(ctx context.Context, sensorID string) (int64, error) {
	var n int64
	err := ds.db.WithContext(ctx).Model(&TelemetryRecord{}).Where("sensor_id = ?", sensorID).Count(&n).Error
	return n, err
}

// Close cierra el pool de conexiones
func (ds *DBSink) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
