package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/mesonet-data/internal/config"
	"github.com/couchcryptid/mesonet-data/internal/domain"
	"github.com/couchcryptid/mesonet-data/internal/table"
)

// keyColumns identify a row; those present in a table form the message key.
var keyColumns = []string{domain.SiteColumn, domain.DateColumn, "Depth"}

// messageWriter is the subset of kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes retrieved tables to a Kafka topic, one message per row.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// WriteTable serializes every row of df as JSON and publishes them in a single
// WriteMessages call. Rows of the same station share a partition.
func (w *Writer) WriteTable(ctx context.Context, operation string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	if df.Nrow() == 0 {
		return nil
	}
	msgs, err := serializeRows(operation, df, domain.Now())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %s rows: %w", operation, err)
	}
	w.logger.Info("published table", "operation", operation, "rows", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeRows marshals each table row into a Kafka message.
func serializeRows(operation string, df dataframe.DataFrame, exportedAt time.Time) ([]kafkago.Message, error) {
	names := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		names[n] = true
	}

	rows := table.Rows(df)
	msgs := make([]kafkago.Message, len(rows))
	for i, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("serialize %s row %d: %w", operation, i, err)
		}
		msgs[i] = kafkago.Message{
			Key:   []byte(rowKey(row, names)),
			Value: data,
			Headers: []kafkago.Header{
				{Key: "operation", Value: []byte(operation)},
				{Key: "exported_at", Value: []byte(exportedAt.Format(time.RFC3339))},
			},
		}
	}
	return msgs, nil
}

func rowKey(row map[string]any, names map[string]bool) string {
	var parts []string
	for _, col := range keyColumns {
		if names[col] {
			parts = append(parts, fmt.Sprint(row[col]))
		}
	}
	return strings.Join(parts, "|")
}
