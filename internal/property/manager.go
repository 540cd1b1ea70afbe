package property

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"horizonhomes/internal/database"
	"horizonhomes/internal/util"

	"github.com/google/uuid"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrNotOwner         = errors.New("property does not belong to this user")
)

type Manager struct {
	logger *slog.Logger
	db     *database.Database
}

func NewManager(logger *slog.Logger, db *database.Database) Manager {
	return Manager{logger: logger, db: db}
}

type CreateParam struct {
	OwnerID     util.Optional[uuid.UUID]
	AgentID     util.Optional[uuid.UUID]
	Title       string
	Description string
	Address     string
	City        string
	Type        string
	Category    string
	Status      string
	Price       int64
	Bedrooms    int
	Bathrooms   int
	Area        int
	Images      []string
	Features    []string
	IsFeatured  bool
}

// Create stores a new listing. The slug comes from the title; on collision a
// short random suffix is appended.
func (m *Manager) Create(ctx context.Context, param CreateParam) (database.Property, error) {
	slug := Slugify(param.Title)

	if _, err := m.db.GetPropertyBySlug(ctx, slug); err == nil {
		suffix, err := util.RandomString(4)
		if err != nil {
			return database.Property{}, fmt.Errorf("failed to generate slug suffix: %w", err)
		}
		slug = slug + "-" + suffix
	} else if !errors.Is(err, database.ErrPropertyNotFound) {
		return database.Property{}, fmt.Errorf("failed to check slug: %w", err)
	}

	status := param.Status
	if status == "" {
		status = "available"
	}

	property, err := m.db.CreateProperty(ctx, database.CreatePropertyParams{
		OwnerID:     param.OwnerID,
		AgentID:     param.AgentID,
		Title:       param.Title,
		Slug:        slug,
		Description: param.Description,
		Address:     param.Address,
		City:        param.City,
		Type:        param.Type,
		Category:    param.Category,
		Status:      status,
		Price:       param.Price,
		Bedrooms:    param.Bedrooms,
		Bathrooms:   param.Bathrooms,
		Area:        param.Area,
		Images:      param.Images,
		Features:    param.Features,
		IsFeatured:  param.IsFeatured,
	})
	if err != nil {
		return property, fmt.Errorf("failed to create property: %w", err)
	}

	m.logger.Info("Property created", "property_id", property.ID, "slug", property.Slug)
	return property, nil
}

type ListParam struct {
	Type     util.Optional[string]
	Category util.Optional[string]
	City     util.Optional[string]
	Status   util.Optional[string]
	MinPrice util.Optional[int64]
	MaxPrice util.Optional[int64]
	Search   util.Optional[string]
	OwnerID  util.Optional[uuid.UUID]
	AgentID  util.Optional[uuid.UUID]
	Page     int
	PageSize int
}

type ListResult struct {
	Properties []database.Property
	Total      int
	Page       int
	PageSize   int
}

func (m *Manager) List(ctx context.Context, param ListParam) (ListResult, error) {
	page := param.Page
	if page < 1 {
		page = 1
	}
	pageSize := param.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	properties, total, err := m.db.ListProperties(ctx, database.ListPropertiesParams{
		Type:     param.Type,
		Category: param.Category,
		City:     param.City,
		Status:   param.Status,
		MinPrice: param.MinPrice,
		MaxPrice: param.MaxPrice,
		Search:   param.Search,
		OwnerID:  param.OwnerID,
		AgentID:  param.AgentID,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list properties: %w", err)
	}

	return ListResult{Properties: properties, Total: total, Page: page, PageSize: pageSize}, nil
}

func (m *Manager) GetBySlug(ctx context.Context, slug string) (database.Property, error) {
	property, err := m.db.GetPropertyBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, database.ErrPropertyNotFound) {
			return property, ErrPropertyNotFound
		}
		return property, fmt.Errorf("failed to get property: %w", err)
	}
	return property, nil
}

func (m *Manager) GetByID(ctx context.Context, id uuid.UUID) (database.Property, error) {
	property, err := m.db.GetPropertyByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrPropertyNotFound) {
			return property, ErrPropertyNotFound
		}
		return property, fmt.Errorf("failed to get property: %w", err)
	}
	return property, nil
}

func (m *Manager) ListFeatured(ctx context.Context, limit int) ([]database.Property, error) {
	if limit < 1 || limit > 50 {
		limit = 6
	}
	properties, err := m.db.ListFeaturedProperties(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured properties: %w", err)
	}
	return properties, nil
}

type UpdateParam struct {
	Title       util.Optional[string]
	Description util.Optional[string]
	Address     util.Optional[string]
	City        util.Optional[string]
	Type        util.Optional[string]
	Category    util.Optional[string]
	Status      util.Optional[string]
	Price       util.Optional[int64]
	Bedrooms    util.Optional[int]
	Bathrooms   util.Optional[int]
	Area        util.Optional[int]
	Images      util.Optional[[]string]
	Features    util.Optional[[]string]
	IsFeatured  util.Optional[bool]
}

// Update modifies a listing owned by the given user. A title change does not
// change the slug; existing links keep working.
func (m *Manager) Update(ctx context.Context, ownerID, id uuid.UUID, param UpdateParam) (database.Property, error) {
	property, err := m.requireOwned(ctx, ownerID, id)
	if err != nil {
		return property, err
	}

	if err := m.db.UpdatePropertyByID(ctx, id, database.UpdatePropertyParams{
		Title:       param.Title,
		Description: param.Description,
		Address:     param.Address,
		City:        param.City,
		Type:        param.Type,
		Category:    param.Category,
		Status:      param.Status,
		Price:       param.Price,
		Bedrooms:    param.Bedrooms,
		Bathrooms:   param.Bathrooms,
		Area:        param.Area,
		Images:      param.Images,
		Features:    param.Features,
		IsFeatured:  param.IsFeatured,
	}); err != nil {
		return property, fmt.Errorf("failed to update property: %w", err)
	}

	return m.db.GetPropertyByID(ctx, id)
}

func (m *Manager) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := m.requireOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := m.db.DeletePropertyByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	m.logger.Info("Property deleted", "property_id", id, "owner_id", ownerID)
	return nil
}

func (m *Manager) requireOwned(ctx context.Context, ownerID, id uuid.UUID) (database.Property, error) {
	property, err := m.db.GetPropertyByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrPropertyNotFound) {
			return property, ErrPropertyNotFound
		}
		return property, fmt.Errorf("failed to get property: %w", err)
	}
	if !property.OwnerID.IsSet || property.OwnerID.Val != ownerID {
		return property, ErrNotOwner
	}
	return property, nil
}
