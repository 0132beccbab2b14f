// Package dbstore is the database-backed workspace destination: the same
// read-back, insert and delete surface as the Notion client, persisted in a
// local table instead of a hosted workspace.
package dbstore

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"watchsync/feature/watchlist/models"
)

// MovieRow is the table representation of one record.
type MovieRow struct {
	ID             uint   `gorm:"primaryKey;column:id"`
	Title          string `gorm:"column:title;type:varchar(255)"`
	Runtime        string `gorm:"column:runtime;type:varchar(16)"`
	Location       string `gorm:"column:location;type:varchar(255)"`
	Year           int    `gorm:"column:year"`
	LetterboxdID   string `gorm:"column:letterboxd_id;type:varchar(32)"`
	LetterboxdLink string `gorm:"column:letterboxd_link;type:varchar(512)"`
}

func (MovieRow) TableName() string {
	return "watchlist_movies"
}

// Store reads and mutates the movie table.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a store and ensures the table exists.
func New(db *gorm.DB, log *zap.Logger) (*Store, error) {
	if err := db.AutoMigrate(&MovieRow{}); err != nil {
		return nil, fmt.Errorf("migrate watchlist_movies: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// ListMovies reads back every row as a record. The row id becomes the
// record's workspace id.
func (s *Store) ListMovies(ctx context.Context) ([]models.MovieRecord, error) {
	var rows []MovieRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	records := make([]models.MovieRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.MovieRecord{
			Title:          row.Title,
			Runtime:        row.Runtime,
			Location:       row.Location,
			Year:           row.Year,
			LetterboxdID:   row.LetterboxdID,
			LetterboxdLink: row.LetterboxdLink,
			WorkspaceID:    strconv.FormatUint(uint64(row.ID), 10),
		})
	}
	s.log.Debug("listed workspace movies", zap.Int("count", len(records)))
	return records, nil
}

// Insert persists a fresh record as a new row.
func (s *Store) Insert(ctx context.Context, record models.MovieRecord) error {
	row := MovieRow{
		Title:          record.Title,
		Runtime:        record.Runtime,
		Location:       record.Location,
		Year:           record.Year,
		LetterboxdID:   record.LetterboxdID,
		LetterboxdLink: record.LetterboxdLink,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert %q: %w", record.Title, err)
	}
	return nil
}

// Delete removes the row behind a stale record. The record must carry the
// workspace-assigned row id.
func (s *Store) Delete(ctx context.Context, record models.MovieRecord) error {
	if record.WorkspaceID == "" {
		return fmt.Errorf("delete %q: record has no workspace id", record.Title)
	}
	id, err := strconv.ParseUint(record.WorkspaceID, 10, 64)
	if err != nil {
		return fmt.Errorf("delete %q: invalid workspace id %q", record.Title, record.WorkspaceID)
	}
	if err := s.db.WithContext(ctx).Delete(&MovieRow{}, id).Error; err != nil {
		return fmt.Errorf("delete %q: %w", record.Title, err)
	}
	return nil
}
