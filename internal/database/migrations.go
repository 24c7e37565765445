package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		provider VARCHAR(50) NOT NULL,
		provider_id VARCHAR(255) NOT NULL,
		global_role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		industry VARCHAR(120),
		website VARCHAR(500),
		linkedin_url VARCHAR(500),
		address VARCHAR(500),
		description VARCHAR(2000),
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS product_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255),
		role VARCHAR(120),
		linkedin_url VARCHAR(500),
		bio VARCHAR(2000),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS product_founders (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255),
		title VARCHAR(120),
		linkedin_url VARCHAR(500),
		bio VARCHAR(2000),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS decks (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		product_id UUID NOT NULL UNIQUE REFERENCES products(id) ON DELETE CASCADE,
		file_name VARCHAR(255) NOT NULL,
		mime_type VARCHAR(100) NOT NULL,
		size_bytes BIGINT NOT NULL,
		content BYTEA NOT NULL,
		problem VARCHAR(2000),
		solution VARCHAR(2000),
		target_market VARCHAR(2000),
		funding_stage VARCHAR(120),
		funding_amount VARCHAR(120),
		use_of_funds VARCHAR(2000),
		traction JSONB NOT NULL DEFAULT '{}',
		version INTEGER NOT NULL DEFAULT 1,
		uploaded_by UUID REFERENCES users(id),
		updated_by UUID REFERENCES users(id),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS deck_access (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		deck_id UUID NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		granted_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		revoked_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(deck_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS deck_shares (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		deck_id UUID NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
		recipient_email VARCHAR(255) NOT NULL,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		token_prefix VARCHAR(20) NOT NULL,
		created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TIMESTAMP WITH TIME ZONE,
		revoked_at TIMESTAMP WITH TIME ZONE,
		last_viewed_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS access_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		deck_id UUID NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
		requester_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message VARCHAR(1000),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(deck_id, requester_id)
	)`,

	`CREATE TABLE IF NOT EXISTS deck_events (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		deck_id UUID NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
		viewer_id UUID REFERENCES users(id) ON DELETE SET NULL,
		viewer_email VARCHAR(255),
		event_type VARCHAR(20) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_owner_id ON products(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_product_members_product_id ON product_members(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_product_founders_product_id ON product_founders(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deck_access_deck_id ON deck_access(deck_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deck_access_user_id ON deck_access(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deck_shares_deck_id ON deck_shares(deck_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deck_shares_token_hash ON deck_shares(token_hash)`,
	`CREATE INDEX IF NOT EXISTS idx_access_requests_deck_id ON access_requests(deck_id)`,
	`CREATE INDEX IF NOT EXISTS idx_access_requests_requester_id ON access_requests(requester_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deck_events_deck_id ON deck_events(deck_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
