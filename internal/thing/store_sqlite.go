// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/taibuivan/rankeverything/internal/platform/database/schema"
	"github.com/taibuivan/rankeverything/internal/platform/dberr"
	"github.com/taibuivan/rankeverything/pkg/query"
	"github.com/taibuivan/rankeverything/pkg/ranking"
)

// # SQLite Store

// thingRecord is the gorm model of the thing table.
type thingRecord struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement;index:thing_adult_id_idx,priority:2"`
	Name        string    `gorm:"column:name;not null"`
	NameKey     string    `gorm:"column:name_key;not null;uniqueIndex:thing_name_key_uq"`
	ImageURL    string    `gorm:"column:image_url;not null"`
	Description string    `gorm:"column:description;not null"`
	Likes       int64     `gorm:"column:likes;not null;default:0;check:likes >= 0"`
	Dislikes    int64     `gorm:"column:dislikes;not null;default:0;check:dislikes >= 0"`
	Adult       bool      `gorm:"column:adult;not null;index:thing_adult_id_idx,priority:1"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

// TableName pins the table to the shared schema name.
func (thingRecord) TableName() string {
	return schema.RankThing.Table
}

func (record *thingRecord) toThing() *Thing {
	return &Thing{
		ID:          record.ID,
		Name:        record.Name,
		NameKey:     record.NameKey,
		ImageURL:    record.ImageURL,
		Description: record.Description,
		Likes:       record.Likes,
		Dislikes:    record.Dislikes,
		Adult:       record.Adult,
		CreatedAt:   record.CreatedAt,
	}
}

// SQLiteRepository is the [Repository] backed by an embedded SQLite database.
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps an open gorm handle.
func NewSQLiteRepository(db *gorm.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Migrate creates or updates the thing table and its indexes.
func (repository *SQLiteRepository) Migrate(context context.Context) error {
	if err := repository.db.WithContext(context).AutoMigrate(&thingRecord{}); err != nil {
		return dberr.Wrap(err, "migrate_thing")
	}
	return nil
}

func (repository *SQLiteRepository) Insert(context context.Context, t *Thing) (int64, error) {
	record := &thingRecord{
		Name:        t.Name,
		NameKey:     t.NameKey,
		ImageURL:    t.ImageURL,
		Description: t.Description,
		Adult:       t.Adult,
	}

	if err := repository.db.WithContext(context).Create(record).Error; err != nil {
		return 0, dberr.Wrap(err, "insert_thing")
	}

	t.ID = record.ID
	t.CreatedAt = record.CreatedAt
	return t.ID, nil
}

func (repository *SQLiteRepository) FindByID(context context.Context, id int64) (*Thing, error) {
	var record thingRecord
	err := repository.db.WithContext(context).
		Where(schema.RankThing.ID+" = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, dberr.Wrap(err, "find_thing_by_id")
	}
	return record.toThing(), nil
}

func (repository *SQLiteRepository) ExistsByName(context context.Context, nameKey string) (bool, error) {
	var count int64
	err := repository.db.WithContext(context).
		Model(&thingRecord{}).
		Where(schema.RankThing.NameKey+" = ?", nameKey).
		Count(&count).Error
	if err != nil {
		return false, dberr.Wrap(err, "exists_thing_by_name")
	}
	return count > 0, nil
}

func (repository *SQLiteRepository) IncrementLike(context context.Context, id int64) error {
	return incrementRecord(repository.db.WithContext(context), schema.RankThing.Likes, id)
}

func (repository *SQLiteRepository) IncrementDislike(context context.Context, id int64) error {
	return incrementRecord(repository.db.WithContext(context), schema.RankThing.Dislikes, id)
}

// incrementRecord adds one to column in a single UPDATE.
func incrementRecord(db *gorm.DB, column string, id int64) error {
	result := db.Model(&thingRecord{}).
		Where(schema.RankThing.ID+" = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return dberr.Wrap(result.Error, "increment_"+column)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyVote records both halves of a vote in one transaction, lower id first.
func (repository *SQLiteRepository) ApplyVote(context context.Context, winnerID, loserID int64) error {
	err := repository.db.WithContext(context).Transaction(func(tx *gorm.DB) error {
		first, second := func() error {
			return incrementRecord(tx, schema.RankThing.Likes, winnerID)
		}, func() error {
			return incrementRecord(tx, schema.RankThing.Dislikes, loserID)
		}
		if loserID < winnerID {
			first, second = second, first
		}

		if err := first(); err != nil {
			return err
		}
		return second()
	})
	return dberr.Wrap(err, "apply_vote")
}

// adultScope hides adult things unless includeAdult is set.
func adultScope(includeAdult bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if includeAdult {
			return db
		}
		return db.Where(schema.RankThing.Adult+" = ?", false)
	}
}

func (repository *SQLiteRepository) Count(context context.Context, includeAdult bool) (int, error) {
	var count int64
	err := repository.db.WithContext(context).
		Model(&thingRecord{}).
		Scopes(adultScope(includeAdult)).
		Count(&count).Error
	if err != nil {
		return 0, dberr.Wrap(err, "count_things")
	}
	return int(count), nil
}

// FindAtPositions resolves each position inside one read transaction, so every
// row comes from the same snapshot.
func (repository *SQLiteRepository) FindAtPositions(context context.Context, includeAdult bool, positions []int) ([]*Thing, error) {
	if len(positions) == 0 {
		return nil, nil
	}

	byPosition := make(map[int64]*Thing, len(positions))

	err := repository.db.WithContext(context).Transaction(func(tx *gorm.DB) error {
		for _, position := range positions {
			var records []thingRecord
			err := tx.Scopes(adultScope(includeAdult)).
				Order(schema.RankThing.ID + " ASC").
				Offset(position).
				Limit(1).
				Find(&records).Error
			if err != nil {
				return err
			}
			if len(records) == 1 {
				byPosition[int64(position)] = records[0].toThing()
			}
		}
		return nil
	})
	if err != nil {
		return nil, dberr.Wrap(err, "find_things_at_positions")
	}

	return orderByPositions(byPosition, positions), nil
}

func (repository *SQLiteRepository) Search(context context.Context, q SearchQuery) ([]*Thing, error) {
	var records []thingRecord
	err := repository.db.WithContext(context).
		Scopes(adultScope(q.IncludeAdult)).
		Where(schema.RankThing.NameKey+` LIKE ? ESCAPE '\'`, query.Contains(q.Text)).
		Order(ranking.OrderExpr(schema.RankThing.Likes, schema.RankThing.Dislikes) + " " + direction(q.Ascending)).
		Order(schema.RankThing.ID + " ASC").
		Limit(q.Limit).
		Find(&records).Error
	if err != nil {
		return nil, dberr.Wrap(err, "search_things")
	}

	things := make([]*Thing, 0, len(records))
	for i := range records {
		things = append(things, records[i].toThing())
	}
	return things, nil
}

func (repository *SQLiteRepository) Ping(context context.Context) error {
	sqlDB, err := repository.db.DB()
	if err != nil {
		return dberr.Wrap(err, "ping")
	}
	if err := sqlDB.PingContext(context); err != nil {
		return dberr.Wrap(err, "ping")
	}
	return nil
}
