package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderBy int

const (
	OrderByASC OrderBy = iota
	OrderByDESC
)

type Database struct {
	Pool *pgxpool.Pool
}

func NewDatabase() Database {
	return Database{
		Pool: nil,
	}
}

func (db *Database) Connect(ctx context.Context, connString string) error {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("unable to parse database configuration: %w", err)
	}

	db.Pool, err = pgxpool.New(ctx, config.ConnString())
	if err != nil {
		return fmt.Errorf("unable to create database pool: %w", err)
	}

	return nil
}

func (db *Database) Close() {
	db.Pool.Close()
}

func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrRegistrationNotFound   = errors.New("registration not found")
	ErrAgentNotFound          = errors.New("agent not found")
	ErrPropertyNotFound       = errors.New("property not found")
	ErrFavoriteNotFound       = errors.New("favorite not found")
	ErrFavoriteExists         = errors.New("favorite already exists")
	ErrRegistrationExists     = errors.New("registration already exists")
	ErrServiceRequestNotFound = errors.New("service request not found")

	// ErrRegistrationNotPending means a conditional status transition matched
	// no row: another decision already landed on this registration.
	ErrRegistrationNotPending = errors.New("registration is not pending")
)
