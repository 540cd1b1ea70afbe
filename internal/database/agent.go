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

type Agent struct {
	ID          uuid.UUID
	UserID      util.Optional[uuid.UUID]
	Name        string
	Email       string
	Phone       string
	Image       string
	Bio         string
	Experience  int
	Category    string
	Specialties []string
	Portfolio   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateAgentParams struct {
	UserID      util.Optional[uuid.UUID]
	Name        string
	Email       string
	Phone       string
	Image       string
	Bio         string
	Experience  int
	Category    string
	Specialties []string
	Portfolio   []string
}

func (db *Database) CreateAgent(ctx context.Context, params CreateAgentParams) (Agent, error) {
	agent := Agent{
		ID:          uuid.New(),
		UserID:      params.UserID,
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		Image:       params.Image,
		Bio:         params.Bio,
		Experience:  params.Experience,
		Category:    params.Category,
		Specialties: params.Specialties,
		Portfolio:   params.Portfolio,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if _, err := db.Pool.Exec(ctx, `INSERT INTO tbl_agent (id, user_id, name, email, phone, image, bio, experience, category, specialties, portfolio, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		agent.ID, agent.UserID, agent.Name, agent.Email, agent.Phone, agent.Image, agent.Bio, agent.Experience,
		agent.Category, agent.Specialties, agent.Portfolio, agent.CreatedAt, agent.UpdatedAt); err != nil {
		return agent, fmt.Errorf("database: failed to insert agent (email=%s): %w", agent.Email, err)
	}
	return agent, nil
}

const agentColumns = `id, user_id, name, email, phone, image, bio, experience, category, specialties, portfolio, created_at, updated_at`

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Email, &a.Phone, &a.Image, &a.Bio, &a.Experience,
		&a.Category, &a.Specialties, &a.Portfolio, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

type ListAgentsParams struct {
	Search   util.Optional[string]
	Category util.Optional[string]
	Limit    int
	Offset   int
}

// ListAgents lists agents with pagination. Search matches name, email and bio
// case-insensitively.
func (db *Database) ListAgents(ctx context.Context, params ListAgentsParams) ([]Agent, int, error) {
	var where strings.Builder
	where.WriteString(` FROM tbl_agent WHERE 1=1`)
	var args []any
	argNum := 1

	if params.Search.IsSet {
		pattern := "%" + params.Search.Val + "%"
		where.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR bio ILIKE $%d)", argNum, argNum, argNum))
		args = append(args, pattern)
		argNum++
	}
	if params.Category.IsSet {
		where.WriteString(fmt.Sprintf(" AND category = $%d", argNum))
		args = append(args, params.Category.Val)
		argNum++
	}

	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*)`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("database: failed to count agents: %w", err)
	}

	query := `SELECT ` + agentColumns + where.String() +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("database: failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("database: failed to scan agent: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database: failed to iterate agents: %w", err)
	}

	return agents, total, nil
}

func (db *Database) GetAgentByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	agent, err := scanAgent(db.Pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM tbl_agent WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return agent, ErrAgentNotFound
		}
		return agent, fmt.Errorf("database: failed to scan agent: %w", err)
	}
	return agent, nil
}

func (db *Database) GetAgentByUserID(ctx context.Context, userID uuid.UUID) (Agent, error) {
	agent, err := scanAgent(db.Pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM tbl_agent WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return agent, ErrAgentNotFound
		}
		return agent, fmt.Errorf("database: failed to scan agent: %w", err)
	}
	return agent, nil
}

// ListFeaturedAgents returns the most experienced agents first.
func (db *Database) ListFeaturedAgents(ctx context.Context, limit int) ([]Agent, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+agentColumns+` FROM tbl_agent ORDER BY experience DESC, created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("database: failed to list featured agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("database: failed to scan agent: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: failed to iterate agents: %w", err)
	}

	return agents, nil
}
