package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/value"
	"verhandlungsbot/internal/infrastructure/persistence"
	"verhandlungsbot/pkg/dbtest"
)

// Интеграционные тесты требуют живой базы.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/0001_init.sql"))

	return db
}

func testResult(conversationID string) *entity.Result {
	price := value.Price(880)
	return &entity.Result{
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
		ConversationID: conversationID,
		ParticipantID:  "p-1",
		VariantTag:     "control",
		Outcome:        entity.OutcomeDeal,
		FinalPrice:     &price,
		MessageCount:   8,
		EndedBy:        entity.EndedByUser,
		EndedVia:       "confirm",
	}
}

func TestResultRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := persistence.NewResultRepository(db)

	id := ulid.Make().String()
	result := testResult(id)

	require.NoError(t, repo.Create(ctx, result))
	// Повторная доставка той же записи не плодит дублей.
	require.NoError(t, repo.Create(ctx, result))

	results, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)

	var found *entity.Result
	for _, r := range results {
		if r.ConversationID == id {
			require.Nil(t, found, "duplicate result row")
			found = r
		}
	}
	require.NotNil(t, found)

	assert.Equal(t, result.ParticipantID, found.ParticipantID)
	assert.Equal(t, result.Outcome, found.Outcome)
	require.NotNil(t, found.FinalPrice)
	assert.Equal(t, *result.FinalPrice, *found.FinalPrice)
	assert.Equal(t, result.EndedVia, found.EndedVia)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 1)
}

func TestTranscriptRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := persistence.NewTranscriptRepository(db)

	id := ulid.Make().String()
	now := time.Now().UTC().Truncate(time.Microsecond)

	messages := []entity.Message{
		{ConversationID: id, Seq: 1, Role: entity.RoleSeller, Text: "Hi!", CreatedAt: now},
		{ConversationID: id, Seq: 2, Role: entity.RoleBuyer, Text: "700 €?", CreatedAt: now.Add(time.Second)},
		{ConversationID: id, Seq: 3, Role: entity.RoleSeller, Text: "Eher 880 €.", CreatedAt: now.Add(2 * time.Second)},
	}

	for i := range messages {
		require.NoError(t, repo.Append(ctx, &messages[i]))
	}
	// Идемпотентность по (conversation_id, seq).
	require.NoError(t, repo.Append(ctx, &messages[0]))

	got, err := repo.ListByConversation(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, msg := range got {
		assert.Equal(t, i+1, msg.Seq)
		assert.Equal(t, messages[i].Text, msg.Text)
		assert.Equal(t, messages[i].Role, msg.Role)
	}
}
