package service

import (
	"context"
	"testing"

	"roundrobin-tracker/internal/domain"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerService_GetPlayer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addPlayer(t, "alice")

	byID, err := f.players.GetPlayer(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := f.players.GetPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	_, err = f.players.GetPlayer(ctx, "nobody")
	require.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestPlayerService_SearchPlayers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"ShadowFox", "shadowblade", "Moonlight", "fox"} {
		f.addPlayer(t, name)
	}

	got, err := f.players.SearchPlayers(ctx, "fox")
	require.NoError(t, err)
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Username
	}
	require.Len(t, names, 2)
	assert.Equal(t, "fox", names[0])
	assert.Contains(t, names, "ShadowFox")

	got, err = f.players.SearchPlayers(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlayerService_SearchLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	faker := gofakeit.New(7)
	for i := 0; i < 15; i++ {
		f.addPlayer(t, "team"+faker.LetterN(8))
	}

	got, err := f.players.SearchPlayers(ctx, "team")
	require.NoError(t, err)
	assert.Len(t, got, 10)
}
