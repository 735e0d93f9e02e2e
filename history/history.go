/*
File    : go-flow/history/history.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package history records conversation transcripts to a local sqlite
// database. It stores utterances only - who said what, when, in which
// session. Runtime session state (variables, step position) is never
// persisted; a restarted process always begins conversations fresh.
package history

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Utterance is one transcript row: a single thing said by the user or by
// the system within a session.
type Utterance struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Role      string // "user" or "system"
	Text      string
	CreatedAt time.Time
}

// Recorder appends utterances to the transcript store.
type Recorder struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite transcript database at path and
// migrates the schema.
//
// Parameters:
//   - path: Filesystem path of the sqlite database file
//
// Returns:
//   - *Recorder: A ready recorder
//   - error: When the database cannot be opened or migrated
func Open(path string) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Utterance{}); err != nil {
		return nil, err
	}
	return &Recorder{db: db}, nil
}

// Record appends one utterance to the session's transcript.
func (r *Recorder) Record(userID, role, text string) error {
	return r.db.Create(&Utterance{
		UserID: userID,
		Role:   role,
		Text:   text,
	}).Error
}

// Transcript returns the session's utterances in the order they were
// recorded.
func (r *Recorder) Transcript(userID string) ([]Utterance, error) {
	var rows []Utterance
	err := r.db.Where("user_id = ?", userID).Order("id").Find(&rows).Error
	return rows, err
}
