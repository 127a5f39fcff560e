package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/models"
)

type fakePlayerRepo struct {
	players []*models.Player
}

func (f *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	f.players = append(f.players, player)
	return nil
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	for _, p := range f.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakePlayerRepo) GetByName(ctx context.Context, name string) (*models.Player, error) {
	for _, p := range f.players {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakePlayerRepo) List(ctx context.Context, limit int) ([]*models.Player, error) {
	return f.players, nil
}

func (f *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error { return nil }

type fakeTeamStatsRepo struct {
	upserted []*models.TeamStats
}

func (f *fakeTeamStatsRepo) Upsert(ctx context.Context, stats *models.TeamStats) error {
	f.upserted = append(f.upserted, stats)
	return nil
}

func (f *fakeTeamStatsRepo) GetByAbbreviation(ctx context.Context, abbreviation string) (*models.TeamStats, error) {
	return nil, models.ErrNotFound
}

func (f *fakeTeamStatsRepo) List(ctx context.Context) ([]*models.TeamStats, error) {
	return f.upserted, nil
}

type fakeGameLogSource struct {
	logsByRef map[string][]datasource.GameLogData
	teams     []datasource.TeamStatsData
	failRefs  map[string]error
}

func (f *fakeGameLogSource) FetchGameLogs(ctx context.Context, playerRef string, season int) ([]datasource.GameLogData, error) {
	if err, ok := f.failRefs[playerRef]; ok {
		return nil, err
	}
	return f.logsByRef[playerRef], nil
}

func (f *fakeGameLogSource) FetchTeamStats(ctx context.Context) ([]datasource.TeamStatsData, error) {
	return f.teams, nil
}

func (f *fakeGameLogSource) Name() string { return "fake" }

func newTestIngestion(source *fakeGameLogSource, players *fakePlayerRepo, gameLogs *fakeGameLogRepo, teams *fakeTeamStatsRepo) *IngestionService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewIngestionService(source, players, gameLogs, teams, log)
}

func TestSyncPlayerGameLogs(t *testing.T) {
	player := &models.Player{ID: uuid.New(), Name: "Test Player", ExternalRef: "test-player"}
	source := &fakeGameLogSource{logsByRef: map[string][]datasource.GameLogData{
		"test-player": {
			{GameDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Opponent: "BOS", Points: 28},
			{GameDate: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), Opponent: "WSH", Points: 31},
		},
	}}
	gameLogs := &fakeGameLogRepo{}
	svc := newTestIngestion(source, &fakePlayerRepo{}, gameLogs, &fakeTeamStatsRepo{})

	n, err := svc.SyncPlayerGameLogs(context.Background(), player, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, gameLogs.upserted, 1)
	stored := gameLogs.upserted[0]
	require.Len(t, stored, 2)
	assert.Equal(t, player.ID, stored[0].PlayerID)
	assert.Equal(t, "BOS", stored[0].Opponent)
}

func TestSyncPlayerGameLogsEmptySeason(t *testing.T) {
	player := &models.Player{ID: uuid.New(), Name: "Rookie", ExternalRef: "rookie"}
	gameLogs := &fakeGameLogRepo{}
	svc := newTestIngestion(&fakeGameLogSource{}, &fakePlayerRepo{}, gameLogs, &fakeTeamStatsRepo{})

	n, err := svc.SyncPlayerGameLogs(context.Background(), player, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, gameLogs.upserted)
}

func TestSyncAllPlayersSkipsFailures(t *testing.T) {
	good := &models.Player{ID: uuid.New(), Name: "Good", ExternalRef: "good"}
	bad := &models.Player{ID: uuid.New(), Name: "Bad", ExternalRef: "bad"}
	players := &fakePlayerRepo{players: []*models.Player{bad, good}}

	source := &fakeGameLogSource{
		logsByRef: map[string][]datasource.GameLogData{
			"good": {{GameDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Points: 20}},
		},
		failRefs: map[string]error{
			"bad": datasource.NewDataSourceError("fake", datasource.ErrCodeServerError, "boom", nil),
		},
	}
	gameLogs := &fakeGameLogRepo{}
	svc := newTestIngestion(source, players, gameLogs, &fakeTeamStatsRepo{})

	err := svc.SyncAllPlayers(context.Background(), 2026)

	// The failing player surfaces as the returned error, but the good
	// player's sync still happened.
	require.Error(t, err)
	require.Len(t, gameLogs.upserted, 1)
	assert.Equal(t, good.ID, gameLogs.upserted[0][0].PlayerID)
}

func TestSyncTeamStats(t *testing.T) {
	source := &fakeGameLogSource{teams: []datasource.TeamStatsData{
		{Abbreviation: "BOS", Name: "Boston Celtics", DefensiveRating: 108.2, Pace: 97.1},
		{Abbreviation: "WSH", Name: "Washington Wizards", DefensiveRating: 118.5, Pace: 103.4},
	}}
	teams := &fakeTeamStatsRepo{}
	svc := newTestIngestion(source, &fakePlayerRepo{}, &fakeGameLogRepo{}, teams)

	require.NoError(t, svc.SyncTeamStats(context.Background()))
	require.Len(t, teams.upserted, 2)
	assert.Equal(t, "BOS", teams.upserted[0].Abbreviation)
	assert.False(t, teams.upserted[0].UpdatedAt.IsZero())
}
