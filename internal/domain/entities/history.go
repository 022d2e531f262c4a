package entities

import "time"

// Ограничения журнала сжатий
const (
	HistoryKey        = "pdf-compress-history"
	HistoryMaxEntries = 10
)

// HistoryEntry запись журнала прошлых сжатий
type HistoryEntry struct {
	ID             string    `json:"id" bson:"id"`
	Date           time.Time `json:"date" bson:"date"`
	Filename       string    `json:"filename" bson:"filename"`
	OriginalSize   int64     `json:"originalSize" bson:"originalSize"`
	CompressedSize int64     `json:"compressedSize" bson:"compressedSize"`
	Ratio          float64   `json:"ratio" bson:"ratio"`
}

// NewHistoryEntry создает запись журнала по результату сжатия
func NewHistoryEntry(filename string, result *CompressionResult) HistoryEntry {
	return HistoryEntry{
		Filename:       filename,
		OriginalSize:   result.OriginalSize,
		CompressedSize: result.CompressedSize,
		Ratio:          result.CompressionRatio,
	}
}
