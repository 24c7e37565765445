package services

import (
	"context"
	"encoding/json"
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
	ErrDeckNotFound    = errors.New("deck not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrInvalidTraction = errors.New("traction is not valid JSON")
)

// deckColumns excludes content; the blob is only loaded by GetContent.
const deckColumns = `id, product_id, file_name, mime_type, size_bytes, problem, solution, target_market, funding_stage, funding_amount, use_of_funds, traction, version, uploaded_by, updated_by, created_at, updated_at`

type DeckService struct {
	db *database.DB
}

func NewDeckService(db *database.DB) *DeckService {
	return &DeckService{db: db}
}

func scanDeck(row pgx.Row) (*models.Deck, error) {
	var d models.Deck
	err := row.Scan(
		&d.ID, &d.ProductID, &d.FileName, &d.MimeType, &d.SizeBytes,
		&d.Problem, &d.Solution, &d.TargetMarket, &d.FundingStage, &d.FundingAmount, &d.UseOfFunds,
		&d.Traction, &d.Version, &d.UploadedBy, &d.UpdatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Upload stores the deck file for a product. A product has at most one deck
// (decks.product_id is UNIQUE); re-uploading replaces the file, keeps the
// metadata and bumps the version. The upsert keeps the singleton intact even
// under concurrent first uploads.
func (s *DeckService) Upload(ctx context.Context, productID uuid.UUID, fileName, mimeType string, content []byte, uploadedBy uuid.UUID) (*models.Deck, error) {
	deck, err := scanDeck(s.db.Pool.QueryRow(ctx, `
		INSERT INTO decks (product_id, file_name, mime_type, size_bytes, content, uploaded_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (product_id) DO UPDATE
		SET file_name = EXCLUDED.file_name, mime_type = EXCLUDED.mime_type,
		    size_bytes = EXCLUDED.size_bytes, content = EXCLUDED.content,
		    version = decks.version + 1, uploaded_by = EXCLUDED.uploaded_by,
		    updated_by = EXCLUDED.updated_by, updated_at = NOW()
		RETURNING `+deckColumns,
		productID, fileName, mimeType, int64(len(content)), content, uploadedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to store deck: %w", err)
	}
	return deck, nil
}

func (s *DeckService) GetByID(ctx context.Context, id uuid.UUID) (*models.Deck, error) {
	deck, err := scanDeck(s.db.Pool.QueryRow(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDeckNotFound
	}
	return deck, err
}

func (s *DeckService) GetByProduct(ctx context.Context, productID uuid.UUID) (*models.Deck, error) {
	deck, err := scanDeck(s.db.Pool.QueryRow(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE product_id = $1`, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDeckNotFound
	}
	return deck, err
}

// GetContent loads the file blob along with the name and MIME type needed to
// serve it.
func (s *DeckService) GetContent(ctx context.Context, id uuid.UUID) (fileName, mimeType string, content []byte, err error) {
	err = s.db.Pool.QueryRow(ctx,
		`SELECT file_name, mime_type, content FROM decks WHERE id = $1`, id,
	).Scan(&fileName, &mimeType, &content)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", nil, ErrDeckNotFound
	}
	return fileName, mimeType, content, err
}

// Update applies the non-nil metadata fields. The request version must match
// the stored version; a stale version yields ErrVersionConflict.
func (s *DeckService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateDeckRequest, updatedBy uuid.UUID) (*models.Deck, error) {
	setParts := []string{}
	args := []any{}
	argPos := 1

	addSet := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if req.Problem != nil {
		addSet("problem", *req.Problem)
	}
	if req.Solution != nil {
		addSet("solution", *req.Solution)
	}
	if req.TargetMarket != nil {
		addSet("target_market", *req.TargetMarket)
	}
	if req.FundingStage != nil {
		addSet("funding_stage", *req.FundingStage)
	}
	if req.FundingAmount != nil {
		addSet("funding_amount", *req.FundingAmount)
	}
	if req.UseOfFunds != nil {
		addSet("use_of_funds", *req.UseOfFunds)
	}
	if req.Traction != nil {
		if !json.Valid(req.Traction) {
			return nil, ErrInvalidTraction
		}
		addSet("traction", req.Traction)
	}

	if len(setParts) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	setParts = append(setParts, fmt.Sprintf("updated_by = $%d", argPos))
	args = append(args, updatedBy)
	argPos++

	setParts = append(setParts, "version = version + 1", "updated_at = NOW()")
	args = append(args, id, req.Version)

	query := fmt.Sprintf(`UPDATE decks SET %s WHERE id = $%d AND version = $%d RETURNING %s`,
		strings.Join(setParts, ", "), argPos, argPos+1, deckColumns)

	deck, err := scanDeck(s.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, s.checkVersionConflict(ctx, id, err)
	}
	return deck, nil
}

// checkVersionConflict distinguishes a missing deck from a stale version when
// a guarded UPDATE matched no rows.
func (s *DeckService) checkVersionConflict(ctx context.Context, id uuid.UUID, originalErr error) error {
	if !errors.Is(originalErr, pgx.ErrNoRows) {
		return originalErr
	}

	var currentVersion int
	err := s.db.Pool.QueryRow(ctx, `SELECT version FROM decks WHERE id = $1`, id).Scan(&currentVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDeckNotFound
	}
	if err != nil {
		return err
	}
	return ErrVersionConflict
}

// CurrentVersion is used to report the live version on a conflict.
func (s *DeckService) CurrentVersion(ctx context.Context, id uuid.UUID) (int, error) {
	var version int
	err := s.db.Pool.QueryRow(ctx, `SELECT version FROM decks WHERE id = $1`, id).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrDeckNotFound
	}
	return version, err
}

func (s *DeckService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDeckNotFound
	}
	return nil
}

// OwnerOf resolves the owning user of the product a deck belongs to.
func (s *DeckService) OwnerOf(ctx context.Context, deckID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT p.owner_id FROM decks d
		JOIN products p ON p.id = d.product_id
		WHERE d.id = $1
	`, deckID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrDeckNotFound
	}
	return ownerID, err
}
