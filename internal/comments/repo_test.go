package comments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
)

func setupCommentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS piece_comments (
  id TEXT PRIMARY KEY,
  piece_id TEXT NOT NULL,
  meetup_id TEXT,
  author_id TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestCommentsRepoListOrderedOldestFirst(t *testing.T) {
	db := setupCommentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pieceID := uuid.New()
	authorID := uuid.New()
	base := time.Now().Add(-time.Hour)

	second := &models.PieceComment{
		ID:        uuid.New(),
		PieceID:   pieceID,
		AuthorID:  authorID,
		Body:      "그날 진짜 재밌었는데",
		CreatedAt: base.Add(10 * time.Minute),
	}
	first := &models.PieceComment{
		ID:        uuid.New(),
		PieceID:   pieceID,
		AuthorID:  authorID,
		Body:      "사진 올려줘서 고마워",
		CreatedAt: base,
	}

	_, err := repo.Create(ctx, second)
	require.NoError(t, err)
	_, err = repo.Create(ctx, first)
	require.NoError(t, err)

	rows, err := repo.ListByPiece(ctx, pieceID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, second.ID, rows[1].ID)
}

func TestCommentsRepoScopesByPiece(t *testing.T) {
	db := setupCommentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pieceID := uuid.New()
	otherPiece := uuid.New()
	meetupID := uuid.New()

	_, err := repo.Create(ctx, &models.PieceComment{
		ID:       uuid.New(),
		PieceID:  pieceID,
		MeetupID: &meetupID,
		AuthorID: uuid.New(),
		Body:     "모임에서 이야기했던 그거!",
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.PieceComment{
		ID:       uuid.New(),
		PieceID:  otherPiece,
		AuthorID: uuid.New(),
		Body:     "다른 조각 댓글",
	})
	require.NoError(t, err)

	rows, err := repo.ListByPiece(ctx, pieceID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].MeetupID)
	assert.Equal(t, meetupID, *rows[0].MeetupID)

	empty, err := repo.ListByPiece(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
