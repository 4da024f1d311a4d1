package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/warehouse-backend/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one row of the documents table created by the goose migrations.
type Document struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Body      string    `gorm:"column:body;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Document) TableName() string { return "documents" }

// SQL stores documents in a relational table through GORM.
type SQL struct {
	client *db.Client
	now    func() time.Time
}

func NewSQL(client *db.Client) *SQL {
	return &SQL{client: client, now: time.Now}
}

func (s *SQL) Load(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	var doc Document
	err := s.client.DB().WithContext(ctx).Where("name = ?", name).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: select %s: %w", name, err)
	}
	return []byte(doc.Body), nil
}

func (s *SQL) Save(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	doc := Document{Name: name, Body: string(data), UpdatedAt: s.now().UTC()}
	err := s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&doc).Error
	if err != nil {
		return fmt.Errorf("docstore: upsert %s: %w", name, err)
	}
	return nil
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *SQL) Close() error {
	return s.client.Close()
}
