package favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"horizonhomes/internal/database"

	"github.com/google/uuid"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrAlreadyFavorited = errors.New("property is already in favorites")
	ErrNotFavorited     = errors.New("property is not in favorites")
)

type Manager struct {
	logger *slog.Logger
	db     *database.Database
}

func NewManager(logger *slog.Logger, db *database.Database) Manager {
	return Manager{logger: logger, db: db}
}

// Add favorites a property for the user. Favoriting twice is an error.
func (m *Manager) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	if _, err := m.db.GetPropertyByID(ctx, propertyID); err != nil {
		if errors.Is(err, database.ErrPropertyNotFound) {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("failed to get property: %w", err)
	}

	if _, err := m.db.CreateFavorite(ctx, userID, propertyID); err != nil {
		if errors.Is(err, database.ErrFavoriteExists) {
			return ErrAlreadyFavorited
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove drops a property from the user's favorites.
func (m *Manager) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	if err := m.db.DeleteFavorite(ctx, userID, propertyID); err != nil {
		if errors.Is(err, database.ErrFavoriteNotFound) {
			return ErrNotFavorited
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// Toggle flips the favorite state for a property and reports whether it is
// now favorited.
func (m *Manager) Toggle(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	if _, err := m.db.GetPropertyByID(ctx, propertyID); err != nil {
		if errors.Is(err, database.ErrPropertyNotFound) {
			return false, ErrPropertyNotFound
		}
		return false, fmt.Errorf("failed to get property: %w", err)
	}

	_, err := m.db.CreateFavorite(ctx, userID, propertyID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, database.ErrFavoriteExists) {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	if err := m.db.DeleteFavorite(ctx, userID, propertyID); err != nil {
		// A concurrent toggle may have removed it already.
		if errors.Is(err, database.ErrFavoriteNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return false, nil
}

func (m *Manager) Has(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	has, err := m.db.HasFavorite(ctx, userID, propertyID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return has, nil
}

func (m *Manager) List(ctx context.Context, userID uuid.UUID) ([]database.Property, error) {
	properties, err := m.db.ListFavoriteProperties(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return properties, nil
}
