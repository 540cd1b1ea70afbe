package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"horizonhomes/internal/util"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Property struct {
	ID          uuid.UUID
	OwnerID     util.Optional[uuid.UUID]
	AgentID     util.Optional[uuid.UUID]
	Title       string
	Slug        string
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
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const propertyColumns = `id, owner_id, agent_id, title, slug, description, address, city, type, category, status, price, bedrooms, bathrooms, area, images, features, is_featured, created_at, updated_at`

func scanProperty(row pgx.Row) (Property, error) {
	var p Property
	err := row.Scan(&p.ID, &p.OwnerID, &p.AgentID, &p.Title, &p.Slug, &p.Description, &p.Address,
		&p.City, &p.Type, &p.Category, &p.Status, &p.Price, &p.Bedrooms, &p.Bathrooms, &p.Area,
		&p.Images, &p.Features, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

type CreatePropertyParams struct {
	OwnerID     util.Optional[uuid.UUID]
	AgentID     util.Optional[uuid.UUID]
	Title       string
	Slug        string
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

func (db *Database) CreateProperty(ctx context.Context, params CreatePropertyParams) (Property, error) {
	property := Property{
		ID:          uuid.New(),
		OwnerID:     params.OwnerID,
		AgentID:     params.AgentID,
		Title:       params.Title,
		Slug:        params.Slug,
		Description: params.Description,
		Address:     params.Address,
		City:        params.City,
		Type:        params.Type,
		Category:    params.Category,
		Status:      params.Status,
		Price:       params.Price,
		Bedrooms:    params.Bedrooms,
		Bathrooms:   params.Bathrooms,
		Area:        params.Area,
		Images:      params.Images,
		Features:    params.Features,
		IsFeatured:  params.IsFeatured,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if _, err := db.Pool.Exec(ctx, `INSERT INTO tbl_property (id, owner_id, agent_id, title, slug, description, address, city, type, category, status, price, bedrooms, bathrooms, area, images, features, is_featured, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		property.ID, property.OwnerID, property.AgentID, property.Title, property.Slug, property.Description,
		property.Address, property.City, property.Type, property.Category, property.Status, property.Price,
		property.Bedrooms, property.Bathrooms, property.Area, property.Images, property.Features,
		property.IsFeatured, property.CreatedAt, property.UpdatedAt); err != nil {
		return property, fmt.Errorf("database: failed to insert property (slug=%s): %w", property.Slug, err)
	}
	return property, nil
}

type ListPropertiesParams struct {
	Type     util.Optional[string]
	Category util.Optional[string]
	City     util.Optional[string]
	Status   util.Optional[string]
	MinPrice util.Optional[int64]
	MaxPrice util.Optional[int64]
	Search   util.Optional[string]
	OwnerID  util.Optional[uuid.UUID]
	AgentID  util.Optional[uuid.UUID]
	Limit    int
	Offset   int
}

// ListProperties lists properties with filters and pagination. Search matches
// title, description and address case-insensitively; city is a substring match.
func (db *Database) ListProperties(ctx context.Context, params ListPropertiesParams) ([]Property, int, error) {
	var where strings.Builder
	where.WriteString(` FROM tbl_property WHERE 1=1`)
	var args []any
	argNum := 1

	if params.Type.IsSet {
		where.WriteString(fmt.Sprintf(" AND type = $%d", argNum))
		args = append(args, params.Type.Val)
		argNum++
	}
	if params.Category.IsSet {
		where.WriteString(fmt.Sprintf(" AND category = $%d", argNum))
		args = append(args, params.Category.Val)
		argNum++
	}
	if params.City.IsSet {
		where.WriteString(fmt.Sprintf(" AND city ILIKE $%d", argNum))
		args = append(args, "%"+params.City.Val+"%")
		argNum++
	}
	if params.Status.IsSet {
		where.WriteString(fmt.Sprintf(" AND status = $%d", argNum))
		args = append(args, params.Status.Val)
		argNum++
	}
	if params.MinPrice.IsSet {
		where.WriteString(fmt.Sprintf(" AND price >= $%d", argNum))
		args = append(args, params.MinPrice.Val)
		argNum++
	}
	if params.MaxPrice.IsSet {
		where.WriteString(fmt.Sprintf(" AND price <= $%d", argNum))
		args = append(args, params.MaxPrice.Val)
		argNum++
	}
	if params.Search.IsSet {
		pattern := "%" + params.Search.Val + "%"
		where.WriteString(fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR address ILIKE $%d)", argNum, argNum, argNum))
		args = append(args, pattern)
		argNum++
	}
	if params.OwnerID.IsSet {
		where.WriteString(fmt.Sprintf(" AND owner_id = $%d", argNum))
		args = append(args, params.OwnerID.Val)
		argNum++
	}
	if params.AgentID.IsSet {
		where.WriteString(fmt.Sprintf(" AND agent_id = $%d", argNum))
		args = append(args, params.AgentID.Val)
		argNum++
	}

	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*)`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("database: failed to count properties: %w", err)
	}

	query := `SELECT ` + propertyColumns + where.String() +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("database: failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("database: failed to scan property: %w", err)
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database: failed to iterate properties: %w", err)
	}

	return properties, total, nil
}

func (db *Database) GetPropertyByID(ctx context.Context, id uuid.UUID) (Property, error) {
	property, err := scanProperty(db.Pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM tbl_property WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return property, ErrPropertyNotFound
		}
		return property, fmt.Errorf("database: failed to scan property: %w", err)
	}
	return property, nil
}

func (db *Database) GetPropertyBySlug(ctx context.Context, slug string) (Property, error) {
	property, err := scanProperty(db.Pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM tbl_property WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return property, ErrPropertyNotFound
		}
		return property, fmt.Errorf("database: failed to scan property: %w", err)
	}
	return property, nil
}

func (db *Database) ListFeaturedProperties(ctx context.Context, limit int) ([]Property, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+propertyColumns+` FROM tbl_property WHERE is_featured = TRUE ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("database: failed to list featured properties: %w", err)
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
		return nil, fmt.Errorf("database: failed to iterate properties: %w", err)
	}

	return properties, nil
}

type UpdatePropertyParams struct {
	Title       util.Optional[string]
	Slug        util.Optional[string]
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

func (db *Database) UpdatePropertyByID(ctx context.Context, id uuid.UUID, params UpdatePropertyParams) error {
	var query strings.Builder
	query.WriteString(`UPDATE tbl_property SET `)
	var args []any
	argNum := 1

	set := func(column string, value any) {
		query.WriteString(fmt.Sprintf("%s = $%d, ", column, argNum))
		args = append(args, value)
		argNum++
	}

	if params.Title.IsSet {
		set("title", params.Title.Val)
	}
	if params.Slug.IsSet {
		set("slug", params.Slug.Val)
	}
	if params.Description.IsSet {
		set("description", params.Description.Val)
	}
	if params.Address.IsSet {
		set("address", params.Address.Val)
	}
	if params.City.IsSet {
		set("city", params.City.Val)
	}
	if params.Type.IsSet {
		set("type", params.Type.Val)
	}
	if params.Category.IsSet {
		set("category", params.Category.Val)
	}
	if params.Status.IsSet {
		set("status", params.Status.Val)
	}
	if params.Price.IsSet {
		set("price", params.Price.Val)
	}
	if params.Bedrooms.IsSet {
		set("bedrooms", params.Bedrooms.Val)
	}
	if params.Bathrooms.IsSet {
		set("bathrooms", params.Bathrooms.Val)
	}
	if params.Area.IsSet {
		set("area", params.Area.Val)
	}
	if params.Images.IsSet {
		set("images", params.Images.Val)
	}
	if params.Features.IsSet {
		set("features", params.Features.Val)
	}
	if params.IsFeatured.IsSet {
		set("is_featured", params.IsFeatured.Val)
	}

	query.WriteString(fmt.Sprintf("updated_at = $%d WHERE id = $%d", argNum, argNum+1))
	args = append(args, time.Now().UTC(), id)

	if _, err := db.Pool.Exec(ctx, query.String(), args...); err != nil {
		return fmt.Errorf("database: failed to update property (id=%s): %w", id, err)
	}
	return nil
}

func (db *Database) DeletePropertyByID(ctx context.Context, id uuid.UUID) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM tbl_property WHERE id = $1`, id); err != nil {
		return fmt.Errorf("database: failed to delete property (id=%s): %w", id, err)
	}
	return nil
}
