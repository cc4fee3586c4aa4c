package service

import (
	"testing"

	"exam_prep_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	require.NoError(t, env.badges.Award(user.ID, model.BadgeFirstTest))
	require.NoError(t, env.badges.Award(user.ID, model.BadgeFirstTest))

	badges, err := env.badges.ListUserBadges(user.ID)
	require.NoError(t, err)
	assert.Len(t, badges, 1)
}

func TestAwardUnknownBadgeIsSilentNoop(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	require.NoError(t, env.badges.Award(user.ID, "Nonexistent Badge"))

	badges, err := env.badges.ListUserBadges(user.ID)
	require.NoError(t, err)
	assert.Empty(t, badges)
}

func TestListCatalogContainsSeededBadges(t *testing.T) {
	env := newTestEnv(t)

	catalog, err := env.badges.ListCatalog()
	require.NoError(t, err)

	names := make([]string, 0, len(catalog))
	for _, b := range catalog {
		names = append(names, b.Name)
	}
	assert.Contains(t, names, model.BadgeFirstTest)
	assert.Contains(t, names, model.BadgePerfectScore)
	assert.Contains(t, names, model.BadgeSpeedDemon)
	assert.Contains(t, names, model.BadgeStudyStreak)
}
