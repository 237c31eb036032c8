package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentModel is the row backing one document
type DocumentModel struct {
	Name      string `gorm:"type:varchar(128);primaryKey"`
	Body      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// GormStore keeps documents in the documents table of a sqlite or postgres database
type GormStore struct {
	database *Database
}

// NewGormStore migrates the documents table
func NewGormStore(database *Database) (*GormStore, error) {
	if err := database.DB.AutoMigrate(&DocumentModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &GormStore{database: database}, nil
}

// Load implements DocumentStore
func (s *GormStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	var model DocumentModel
	err := s.database.DB.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return []byte(model.Body), nil
}

// Save upserts the document row
func (s *GormStore) Save(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	model := DocumentModel{Name: name, Body: string(data), UpdatedAt: time.Now()}
	err := s.database.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// Names implements DocumentStore
func (s *GormStore) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := s.database.DB.WithContext(ctx).Model(&DocumentModel{}).Order("name").Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return names, nil
}

// Driver implements DocumentStore
func (s *GormStore) Driver() string {
	return s.database.Driver()
}

// Ping checks the database connection
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.database.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *GormStore) Close() error {
	return s.database.Close()
}
