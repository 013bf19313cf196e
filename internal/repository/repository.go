// Package repository holds the typed queries over the relational store.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Store groups the repositories that share one database handle. A Store
// obtained inside Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB

	Users         *UserRepository
	Purchases     *PurchaseRepository
	Chats         *ChatRepository
	Organizations *OrganizationRepository
	Tokens        *RefreshTokenRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         &UserRepository{db: db},
		Purchases:     &PurchaseRepository{db: db},
		Chats:         &ChatRepository{db: db},
		Organizations: &OrganizationRepository{db: db},
		Tokens:        &RefreshTokenRepository{db: db},
	}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
