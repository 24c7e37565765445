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
	ErrProductNotFound   = errors.New("product not found")
	ErrProductLimit      = errors.New("product limit reached")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
)

const productColumns = `id, owner_id, name, industry, website, linkedin_url, address, description, status, is_active, created_at, updated_at`

type ProductService struct {
	db *database.DB
}

func NewProductService(db *database.DB) *ProductService {
	return &ProductService{db: db}
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Industry, &p.Website, &p.LinkedInURL,
		&p.Address, &p.Description, &p.Status, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product for the owner. The per-user cap is enforced
// inside a transaction so concurrent creates cannot slip past it.
func (s *ProductService) Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateProductRequest) (*models.Product, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if count >= models.MaxProductsPerUser {
		return nil, ErrProductLimit
	}

	product, err := scanProduct(tx.QueryRow(ctx, `
		INSERT INTO products (owner_id, name, industry, website, linkedin_url, address, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		ownerID, req.Name, req.Industry, req.Website, req.LinkedInURL, req.Address, req.Description,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return product, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := scanProduct(s.db.Pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *ProductService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Name, &p.Industry, &p.Website, &p.LinkedInURL,
			&p.Address, &p.Description, &p.Status, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update applies the non-nil fields of the request.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*models.Product, error) {
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
	if req.Industry != nil {
		addSet("industry", *req.Industry)
	}
	if req.Website != nil {
		addSet("website", *req.Website)
	}
	if req.LinkedInURL != nil {
		addSet("linkedin_url", *req.LinkedInURL)
	}
	if req.Address != nil {
		addSet("address", *req.Address)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}

	if len(setParts) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), argPos, productColumns)

	product, err := scanProduct(s.db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Submit moves a draft product into review. Only drafts can be submitted.
func (s *ProductService) Submit(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := scanProduct(s.db.Pool.QueryRow(ctx, `
		UPDATE products SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+productColumns,
		models.ProductStatusSubmitted, id, models.ProductStatusDraft,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInvalidTransition
	}
	return product, err
}

// Review decides a submitted product. Decision must be approved or rejected.
func (s *ProductService) Review(ctx context.Context, id uuid.UUID, decision string) (*models.Product, error) {
	if decision != models.ProductStatusApproved && decision != models.ProductStatusRejected {
		return nil, ErrInvalidTransition
	}

	product, err := scanProduct(s.db.Pool.QueryRow(ctx, `
		UPDATE products SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+productColumns,
		decision, id, models.ProductStatusSubmitted,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInvalidTransition
	}
	return product, err
}

func (s *ProductService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Product, error) {
	product, err := scanProduct(s.db.Pool.QueryRow(ctx, `
		UPDATE products SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+productColumns,
		active, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *ProductService) IsOwner(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND owner_id = $2)`,
		productID, userID).Scan(&exists)
	return exists, err
}

func (s *ProductService) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE owner_id = $1`, ownerID).Scan(&count)
	return count, err
}
