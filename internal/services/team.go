package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marko/deckroom-api/internal/database"
	"github.com/marko/deckroom-api/internal/models"
	"github.com/marko/deckroom-api/pkg/dto"
)

var (
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrFounderNotFound    = errors.New("founder not found")
)

const teamMemberColumns = `id, product_id, name, email, role, linkedin_url, bio, created_at, updated_at`
const founderColumns = `id, product_id, name, email, title, linkedin_url, bio, created_at, updated_at`

type TeamService struct {
	db *database.DB
}

func NewTeamService(db *database.DB) *TeamService {
	return &TeamService{db: db}
}

func scanTeamMember(row pgx.Row) (*models.TeamMember, error) {
	var m models.TeamMember
	err := row.Scan(&m.ID, &m.ProductID, &m.Name, &m.Email, &m.Role, &m.LinkedInURL, &m.Bio, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanFounder(row pgx.Row) (*models.Founder, error) {
	var f models.Founder
	err := row.Scan(&f.ID, &f.ProductID, &f.Name, &f.Email, &f.Title, &f.LinkedInURL, &f.Bio, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *TeamService) CreateMember(ctx context.Context, productID uuid.UUID, req dto.CreateTeamMemberRequest) (*models.TeamMember, error) {
	member, err := scanTeamMember(s.db.Pool.QueryRow(ctx, `
		INSERT INTO product_members (product_id, name, email, role, linkedin_url, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+teamMemberColumns,
		productID, req.Name, req.Email, req.Role, req.LinkedInURL, req.Bio,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}
	return member, nil
}

func (s *TeamService) ListMembers(ctx context.Context, productID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+teamMemberColumns+` FROM product_members WHERE product_id = $1 ORDER BY created_at ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Name, &m.Email, &m.Role, &m.LinkedInURL, &m.Bio, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *TeamService) UpdateMember(ctx context.Context, productID, memberID uuid.UUID, req dto.UpdateTeamMemberRequest) (*models.TeamMember, error) {
	setParts := []string{}
	args := []any{}
	argPos := 1

	addSet := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Email != nil {
		addSet("email", *req.Email)
	}
	if req.Role != nil {
		addSet("role", *req.Role)
	}
	if req.LinkedInURL != nil {
		addSet("linkedin_url", *req.LinkedInURL)
	}
	if req.Bio != nil {
		addSet("bio", *req.Bio)
	}

	if len(setParts) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, memberID, productID)

	query := fmt.Sprintf(`UPDATE product_members SET %s WHERE id = $%d AND product_id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), argPos, argPos+1, teamMemberColumns)

	member, err := scanTeamMember(s.db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamMemberNotFound
	}
	return member, err
}

func (s *TeamService) DeleteMember(ctx context.Context, productID, memberID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx,
		`DELETE FROM product_members WHERE id = $1 AND product_id = $2`, memberID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}

func (s *TeamService) CreateFounder(ctx context.Context, productID uuid.UUID, req dto.CreateFounderRequest) (*models.Founder, error) {
	founder, err := scanFounder(s.db.Pool.QueryRow(ctx, `
		INSERT INTO product_founders (product_id, name, email, title, linkedin_url, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+founderColumns,
		productID, req.Name, req.Email, req.Title, req.LinkedInURL, req.Bio,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create founder: %w", err)
	}
	return founder, nil
}

func (s *TeamService) ListFounders(ctx context.Context, productID uuid.UUID) ([]models.Founder, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+founderColumns+` FROM product_founders WHERE product_id = $1 ORDER BY created_at ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	founders := []models.Founder{}
	for rows.Next() {
		var f models.Founder
		if err := rows.Scan(&f.ID, &f.ProductID, &f.Name, &f.Email, &f.Title, &f.LinkedInURL, &f.Bio, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		founders = append(founders, f)
	}
	return founders, rows.Err()
}

func (s *TeamService) UpdateFounder(ctx context.Context, productID, founderID uuid.UUID, req dto.UpdateFounderRequest) (*models.Founder, error) {
	setParts := []string{}
	args := []any{}
	argPos := 1

	addSet := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Email != nil {
		addSet("email", *req.Email)
	}
	if req.Title != nil {
		addSet("title", *req.Title)
	}
	if req.LinkedInURL != nil {
		addSet("linkedin_url", *req.LinkedInURL)
	}
	if req.Bio != nil {
		addSet("bio", *req.Bio)
	}

	if len(setParts) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, founderID, productID)

	query := fmt.Sprintf(`UPDATE product_founders SET %s WHERE id = $%d AND product_id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), argPos, argPos+1, founderColumns)

	founder, err := scanFounder(s.db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFounderNotFound
	}
	return founder, err
}

func (s *TeamService) DeleteFounder(ctx context.Context, productID, founderID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx,
		`DELETE FROM product_founders WHERE id = $1 AND product_id = $2`, founderID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFounderNotFound
	}
	return nil
}
