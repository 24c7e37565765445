package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko/deckroom-api/internal/services"
	"github.com/marko/deckroom-api/pkg/dto"
	"github.com/marko/deckroom-api/tests/testutil"
)

func TestTeamService_Integration_MemberLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTeamService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, owner, testutil.WithProductName("Acme Robotics"))

	role := "CTO"
	member, err := svc.CreateMember(ctx, product.ID, dto.CreateTeamMemberRequest{
		Name: "Ana",
		Role: &role,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", member.Name)

	newRole := "VP Engineering"
	updated, err := svc.UpdateMember(ctx, product.ID, member.ID, dto.UpdateTeamMemberRequest{
		Role: &newRole,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Role)
	assert.Equal(t, newRole, *updated.Role)

	members, err := svc.ListMembers(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	err = svc.DeleteMember(ctx, product.ID, member.ID)
	require.NoError(t, err)

	members, err = svc.ListMembers(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestTeamService_Integration_MemberScopedToProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTeamService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, owner)
	otherProduct := fixtures.CreateProduct(t, owner)

	member, err := svc.CreateMember(ctx, product.ID, dto.CreateTeamMemberRequest{Name: "Ana"})
	require.NoError(t, err)

	// The member id is only valid under its own product.
	name := "Sneaky"
	_, err = svc.UpdateMember(ctx, otherProduct.ID, member.ID, dto.UpdateTeamMemberRequest{Name: &name})
	assert.ErrorIs(t, err, services.ErrTeamMemberNotFound)

	err = svc.DeleteMember(ctx, otherProduct.ID, member.ID)
	assert.ErrorIs(t, err, services.ErrTeamMemberNotFound)
}

func TestTeamService_Integration_FounderLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTeamService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	product := fixtures.CreateProduct(t, owner)

	title := "CEO"
	linkedIn := "https://linkedin.com/in/marta"
	founder, err := svc.CreateFounder(ctx, product.ID, dto.CreateFounderRequest{
		Name:        "Marta",
		Title:       &title,
		LinkedInURL: &linkedIn,
	})
	require.NoError(t, err)
	assert.Equal(t, "Marta", founder.Name)
	require.NotNil(t, founder.LinkedInURL)
	assert.Equal(t, linkedIn, *founder.LinkedInURL)

	founders, err := svc.ListFounders(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, founders, 1)

	err = svc.DeleteFounder(ctx, product.ID, founder.ID)
	require.NoError(t, err)

	_, err = svc.UpdateFounder(ctx, product.ID, founder.ID, dto.UpdateFounderRequest{Name: &title})
	assert.ErrorIs(t, err, services.ErrFounderNotFound)
}
