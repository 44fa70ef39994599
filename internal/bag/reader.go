// Package bag reads rosbag2-style SQLite recordings: a topics table naming
// the channels and a messages table holding timestamped payloads.
package bag

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"bag2csv/internal/record"
)

// TopicInfo describes one recorded channel.
type TopicInfo struct {
	Name   string
	Type   string
	Format string
}

// Message is one recorded entry of a topic, decoded into a record.
type Message struct {
	Timestamp int64
	Topic     string
	Record    record.Record
}

// Reader reads messages out of one recording file.
type Reader struct {
	db *sql.DB

	// Decoder turns raw payloads into records. Open sets it to a
	// JSONDecoder; replace it before reading to handle other encodings.
	Decoder Decoder
}

// Open opens the recording at path read-only and verifies it has the
// expected schema.
func Open(path string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("open recording %s: %w", path, err)
	}
	var n int
	if err := db.QueryRow(`SELECT count(*) FROM topics`).Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("open recording %s: %w", path, err)
	}
	dec, err := NewJSONDecoder()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Reader{db: db, Decoder: dec}, nil
}

// Close releases the underlying database handle.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Topics returns the recorded channels in recording order.
func (r *Reader) Topics(ctx context.Context) ([]TopicInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, type, serialization_format FROM topics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []TopicInfo
	for rows.Next() {
		var ti TopicInfo
		if err := rows.Scan(&ti.Name, &ti.Type, &ti.Format); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, ti)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// ReadTopic returns every message of topic in recorded order, along with
// the count of messages whose payload could not be decoded. Undecodable
// messages are dropped, not fatal. A topic with no messages yields an
// empty slice.
func (r *Reader) ReadTopic(ctx context.Context, topic string) ([]Message, int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.timestamp, m.data
		   FROM messages m
		   JOIN topics t ON m.topic_id = t.id
		  WHERE t.name = ?
		  ORDER BY m.id`, topic)
	if err != nil {
		return nil, 0, fmt.Errorf("read topic %s: %w", topic, err)
	}
	defer rows.Close()

	var msgs []Message
	skipped := 0
	for rows.Next() {
		var ts int64
		var data []byte
		if err := rows.Scan(&ts, &data); err != nil {
			return nil, skipped, fmt.Errorf("scan message: %w", err)
		}
		rec, err := r.Decoder.Decode(data)
		if err != nil {
			skipped++
			continue
		}
		msgs = append(msgs, Message{Timestamp: ts, Topic: topic, Record: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read topic %s: %w", topic, err)
	}
	return msgs, skipped, nil
}
