package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type Favorite struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	PropertyID uuid.UUID
	CreatedAt  time.Time
}

// CreateFavorite inserts a favorite. The (user_id, property_id) pair is
// unique; a duplicate surfaces as ErrFavoriteExists.
func (db *Database) CreateFavorite(ctx context.Context, userID, propertyID uuid.UUID) (Favorite, error) {
	favorite := Favorite{
		ID:         uuid.New(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := db.Pool.Exec(ctx, `INSERT INTO tbl_favorite (id, user_id, property_id, created_at) VALUES ($1, $2, $3, $4)`,
		favorite.ID, favorite.UserID, favorite.PropertyID, favorite.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return favorite, ErrFavoriteExists
		}
		return favorite, fmt.Errorf("database: failed to insert favorite (user_id=%s, property_id=%s): %w", userID, propertyID, err)
	}
	return favorite, nil
}

func (db *Database) DeleteFavorite(ctx context.Context, userID, propertyID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM tbl_favorite WHERE user_id = $1 AND property_id = $2`, userID, propertyID)
	if err != nil {
		return fmt.Errorf("database: failed to delete favorite (user_id=%s, property_id=%s): %w", userID, propertyID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (db *Database) HasFavorite(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	var exists bool
	if err := db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tbl_favorite WHERE user_id = $1 AND property_id = $2)`, userID, propertyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("database: failed to check favorite (user_id=%s, property_id=%s): %w", userID, propertyID, err)
	}
	return exists, nil
}

// ListFavoriteProperties returns the user's favorited properties, most
// recently favorited first.
func (db *Database) ListFavoriteProperties(ctx context.Context, userID uuid.UUID) ([]Property, error) {
	rows, err := db.Pool.Query(ctx, `SELECT p.id, p.owner_id, p.agent_id, p.title, p.slug, p.description, p.address, p.city, p.type, p.category, p.status, p.price, p.bedrooms, p.bathrooms, p.area, p.images, p.features, p.is_featured, p.created_at, p.updated_at
		FROM tbl_property p
		JOIN tbl_favorite f ON f.property_id = p.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("database: failed to list favorites (user_id=%s): %w", userID, err)
	}
	defer rows.Close()

	var properties []Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("database: failed to scan property: %w", err)
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: failed to iterate favorites: %w", err)
	}

	return properties, nil
}
