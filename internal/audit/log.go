// Package audit keeps an append-only, on-disk record of employee change
// events. Entries are JSON-encoded events.Event values stored in a
// tidwall/wal segment log, indexed from 1.
package audit

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/wal"

	"github.com/spec-kit/employee-service/internal/events"
)

// Log is safe for concurrent use.
type Log struct {
	mu        sync.Mutex
	nextIndex uint64
	log       *wal.Log
}

// Entry is one decoded audit record.
type Entry struct {
	Index uint64
	Event events.Event
}

// Exists reports whether dir holds at least one log segment. Unlike Open it
// never creates files.
func Exists(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.WithMessage(err, "could not read audit log directory")
	}
	for _, entry := range entries {
		if !entry.IsDir() && isSegmentName(entry.Name()) {
			return true, nil
		}
	}
	return false, nil
}

// segment files are named by their 20 digit first index, with a .START or
// .END suffix while a truncation is in flight.
func isSegmentName(name string) bool {
	base := strings.TrimSuffix(strings.TrimSuffix(name, ".START"), ".END")
	if len(base) != 20 {
		return false
	}
	_, err := strconv.ParseUint(base, 10, 64)
	return err == nil
}

// Open opens or creates the log in dir.
func Open(dir string) (*Log, error) {
	log, err := wal.Open(dir, nil)
	if err != nil {
		return nil, errors.WithMessage(err, "could not open audit log")
	}

	lastIndex, err := log.LastIndex()
	if err != nil {
		log.Close()
		return nil, errors.WithMessage(err, "could not read last index")
	}

	return &Log{log: log, nextIndex: lastIndex + 1}, nil
}

// Append writes event at the next index and returns that index.
func (l *Log) Append(event events.Event) (uint64, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return 0, errors.WithMessage(err, "could not encode event")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	index := l.nextIndex
	if err := l.log.Write(index, data); err != nil {
		return 0, errors.WithMessagef(err, "could not write index %d", index)
	}
	l.nextIndex++
	return index, nil
}

// Len returns the number of entries written.
func (l *Log) Len() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextIndex - 1
}

// Iterator walks the entries present when it was created.
type Iterator struct {
	currentIndex uint64
	stopIndex    uint64
	log          *wal.Log
}

// Iterator returns an iterator positioned at the first entry.
func (l *Log) Iterator() *Iterator {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Iterator{currentIndex: 1, stopIndex: l.nextIndex - 1, log: l.log}
}

// Next returns the next entry, or io.EOF once the iterator is exhausted.
func (i *Iterator) Next() (*Entry, error) {
	if i.currentIndex > i.stopIndex {
		return nil, io.EOF
	}

	data, err := i.log.Read(i.currentIndex)
	if err != nil {
		return nil, errors.WithMessagef(err, "could not read index %d", i.currentIndex)
	}

	entry := &Entry{Index: i.currentIndex}
	if err := json.Unmarshal(data, &entry.Event); err != nil {
		return nil, errors.WithMessagef(err, "could not decode index %d, is the audit log corrupt?", i.currentIndex)
	}

	i.currentIndex++
	return entry, nil
}

// Sync flushes written entries to disk.
func (l *Log) Sync() error {
	return l.log.Sync()
}

// Close closes the underlying log.
func (l *Log) Close() error {
	return l.log.Close()
}
