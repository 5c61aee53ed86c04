package postgres

import (
	"context"
	"fmt"
	"testing"

	"chatter/internal/domain/entity"
	"chatter/internal/infra/persistence/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory sqlite database with the same gorm options
// as production. The DSN is keyed by test name so parallel tests cannot see
// each other's data through the shared cache.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.UserModel{},
		&model.PostModel{},
		&model.CommentModel{},
		&model.LikeModel{},
	))

	return db
}

func seedTestUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		Name:         "Seed User",
		Email:        email,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return user
}

func seedTestPost(t *testing.T, db *gorm.DB, userID int64, body string) *entity.Post {
	t.Helper()

	post := &entity.Post{
		Body:   body,
		UserID: userID,
	}
	require.NoError(t, NewPostRepository(db).CreatePost(context.Background(), post))

	return post
}
