package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/DataDog/zstd"
)

// FileSink escribe los JSON serializados a archivos en disco
// Usado para buffer/queue cuando la nube no está disponible
type FileSink struct {
	queueDir string
	compress bool
	level    int
	seq      uint64
}

// FileSinkConfig configura un FileSink
type FileSinkConfig struct {
	QueueDir string // directorio donde guardar los archivos
	Compress bool   // comprimir con zstd (.json.zst)
	Level    int    // nivel zstd (default: zstd.DefaultCompression)
}

// NewFileSink crea un nuevo file sink
func NewFileSink(config FileSinkConfig) (*FileSink, error) {
	// Crear directorio si no existe
	if err := os.MkdirAll(config.QueueDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create queue directory: %w", err)
	}

	if config.Level == 0 {
		config.Level = zstd.DefaultCompression
	}

	return &FileSink{
		queueDir: config.QueueDir,
		compress: config.Compress,
		level:    config.Level,
	}, nil
}

// Write guarda el JSON en un archivo {epoch}_{seq}_{sensor_id}.json[.zst]
// El archivo queda listo para ser reenviado después
func (fs *FileSink) Write(ctx context.Context, data []byte, sensorID string) error {
	if len(data) == 0 {
		return fmt.Errorf("empty data for sensor %s", sensorID)
	}

	// El ID viene del dispositivo: nunca debe salir de queueDir
	if sensorID == "" || strings.ContainsAny(sensorID, `/\`) || filepath.Base(sensorID) != sensorID {
		return &SinkError{
			Sink:      "file",
			Operation: "write",
			Err:       fmt.Errorf("invalid sensor id %q for a file name", sensorID),
			SensorID:  sensorID,
			Permanent: true,
		}
	}

	ext := ".json"
	if fs.compress {
		compressed, err := zstd.CompressLevel(nil, data, fs.level)
		if err != nil {
			return &SinkError{Sink: "file", Operation: "compress", Err: err, SensorID: sensorID, Permanent: true}
		}
		data = compressed
		ext = ".json.zst"
	}

	// seq evita colisiones de nombre dentro del mismo segundo
	seq := atomic.AddUint64(&fs.seq, 1)
	filename := fmt.Sprintf("%d_%04d_%s%s", time.Now().Unix(), seq, sensorID, ext)

	if err := os.WriteFile(filepath.Join(fs.queueDir, filename), data, 0644); err != nil {
		return &SinkError{
			Sink:      "file",
			Operation: "write",
			Err:       err,
			SensorID:  sensorID,
		}
	}

	return nil
}

// ReadQueued lee un archivo de la cola, descomprimiendo si es .zst
func ReadQueued(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) == ".zst" {
		decompressed, err := zstd.Decompress(nil, data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		return decompressed, nil
	}

	return data, nil
}

// Close cierra el FileSink (no tiene recursos abiertos)
func (fs *FileSink) Close() error {
	return nil
}
