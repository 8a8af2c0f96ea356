// Package store persists annotation messages in a single flat JSON document
// and serves them over a small REST API.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/gofrs/flock"

	"github.com/Augmented-Design-Capability-Studio/replay-prompt-eval/internal/message"
)

// ErrNotFound is returned when a message id does not exist in the store.
var ErrNotFound = errors.New("message not found")

// document is the on-disk layout: one JSON object holding the messages
// collection. There are no schema migrations.
type document struct {
	Messages []message.Message `json:"messages"`
}

// FileStore is a message collection backed by a JSON file. A mutex serializes
// access within the process and a sidecar flock guards against concurrent
// processes sharing the file. Concurrent writers still interleave at the
// operation level: last write wins.
type FileStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// Open prepares a store at path, creating an empty document if the file does
// not exist yet.
func Open(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.save(document{Messages: []message.Message{}}); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	return s, nil
}

// Filter selects and orders messages for a list call. Zero values mean "no
// constraint".
type Filter struct {
	SessionID       string
	TimestampLTE    *float64
	SortByTimestamp bool // ascending when set, file order otherwise
}

// List returns messages matching the filter.
func (s *FileStore) List(f Filter) ([]message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	out := make([]message.Message, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		if f.SessionID != "" && m.SessionID != f.SessionID {
			continue
		}
		if f.TimestampLTE != nil && m.Timestamp > *f.TimestampLTE {
			continue
		}
		out = append(out, m)
	}
	if f.SortByTimestamp {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp < out[j].Timestamp
		})
	}
	return out, nil
}

// Create appends a message, assigning the next integer id, and returns the
// stored record.
func (s *FileStore) Create(m message.Message) (message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return message.Message{}, err
	}

	maxID := 0
	for _, existing := range doc.Messages {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	m.ID = maxID + 1
	doc.Messages = append(doc.Messages, m)

	if err := s.saveLocked(doc); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

// Update merges the non-nil patch fields into the message with the given id
// and returns the updated record.
func (s *FileStore) Update(id int, p message.Patch) (message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return message.Message{}, err
	}

	for i := range doc.Messages {
		if doc.Messages[i].ID != id {
			continue
		}
		if p.Rating != nil {
			doc.Messages[i].Rating = *p.Rating
		}
		if p.Comment != nil {
			doc.Messages[i].Comment = *p.Comment
		}
		if err := s.saveLocked(doc); err != nil {
			return message.Message{}, err
		}
		return doc.Messages[i], nil
	}
	return message.Message{}, ErrNotFound
}

// Delete removes the message with the given id.
func (s *FileStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}

	for i := range doc.Messages {
		if doc.Messages[i].ID != id {
			continue
		}
		doc.Messages = append(doc.Messages[:i], doc.Messages[i+1:]...)
		return s.saveLocked(doc)
	}
	return ErrNotFound
}

func (s *FileStore) loadLocked() (document, error) {
	var doc document
	if err := s.lock.RLock(); err != nil {
		return doc, fmt.Errorf("acquire shared file lock: %w", err)
	}
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc, fmt.Errorf("read data file: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse data file: %w", err)
	}
	if doc.Messages == nil {
		doc.Messages = []message.Message{}
	}
	return doc, nil
}

func (s *FileStore) saveLocked(doc document) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer s.lock.Unlock()
	return s.save(doc)
}

// save writes through a temp file and renames, so a crash mid-write never
// truncates the document.
func (s *FileStore) save(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
