//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/adarshalexbalmuchu/nextnode/internal/model"
	repo "github.com/adarshalexbalmuchu/nextnode/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "nextnode_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/nextnode_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(email string) model.User {
	now := time.Now()
	return model.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     "Integration Tester",
		PasswordHash: []byte("$2a$04$integrationtesthash"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("user_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		u := newUser("user@example.com")

		saved, err := ur.Create(ctx, u)
		require.NoError(t, err)
		require.Equal(t, u.ID, saved.ID)

		byEmail, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		byID, err := ur.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, byID.Email)

		_, err = ur.GetByEmail(ctx, "missing@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)

		// Same email again hits the unique index.
		dup := newUser(u.Email)
		_, err = ur.Create(ctx, dup)
		require.ErrorIs(t, err, model.ErrDuplicateAccount)
	})

	t.Run("profile_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		pr := repo.NewProfileRepository(conn)

		u := newUser("profiled@example.com")
		_, err := ur.Create(ctx, u)
		require.NoError(t, err)

		err = pr.Upsert(ctx, model.Profile{
			ID:        u.ID,
			Email:     u.Email,
			FullName:  u.FullName,
			UpdatedAt: time.Now(),
		})
		require.NoError(t, err)

		role, err := pr.GetRole(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, model.RoleUser, role)

		require.NoError(t, pr.UpdateRole(ctx, u.ID, model.RoleAuthor))

		// A later upsert must not reset the assigned role.
		err = pr.Upsert(ctx, model.Profile{
			ID:        u.ID,
			Email:     u.Email,
			FullName:  "Renamed Tester",
			UpdatedAt: time.Now(),
		})
		require.NoError(t, err)

		role, err = pr.GetRole(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, model.RoleAuthor, role)

		profiles, err := pr.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, profiles)

		require.ErrorIs(t, pr.UpdateRole(ctx, uuid.New(), model.RoleAdmin), model.ErrNotFound)
	})

	t.Run("post_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		pr := repo.NewProfileRepository(conn)
		postRepo := repo.NewPostRepository(conn)

		author := newUser("author@example.com")
		_, err := ur.Create(ctx, author)
		require.NoError(t, err)
		require.NoError(t, pr.Upsert(ctx, model.Profile{
			ID: author.ID, Email: author.Email, FullName: author.FullName, UpdatedAt: time.Now(),
		}))

		now := time.Now()
		past := now.Add(-time.Hour)
		future := now.Add(time.Hour)

		mkPost := func(slug string, status model.PostStatus, publishedAt *time.Time) model.Post {
			return model.Post{
				ID:          uuid.New(),
				Title:       "Post " + slug,
				Slug:        slug,
				Content:     "some content",
				AuthorID:    author.ID,
				Tags:        []string{"go", "testing"},
				Status:      status,
				PublishedAt: publishedAt,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
		}

		live, err := postRepo.Create(ctx, mkPost("live-post", model.PostStatusPublished, &past))
		require.NoError(t, err)
		_, err = postRepo.Create(ctx, mkPost("draft-post", model.PostStatusDraft, nil))
		require.NoError(t, err)
		_, err = postRepo.Create(ctx, mkPost("scheduled-post", model.PostStatusPublished, &future))
		require.NoError(t, err)

		// Only the already-published post is publicly visible.
		published, err := postRepo.ListPublished(ctx, now)
		require.NoError(t, err)
		slugs := make([]string, 0, len(published))
		for _, p := range published {
			slugs = append(slugs, p.Slug)
		}
		require.Contains(t, slugs, "live-post")
		require.NotContains(t, slugs, "draft-post")
		require.NotContains(t, slugs, "scheduled-post")

		bySlug, err := postRepo.GetBySlug(ctx, "live-post")
		require.NoError(t, err)
		require.Equal(t, live.ID, bySlug.ID)
		require.Equal(t, author.FullName, bySlug.AuthorName)
		require.Equal(t, []string{"go", "testing"}, bySlug.Tags)

		all, err := postRepo.ListAll(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(all), 3)

		bySlug.Title = "Updated Title"
		updated, err := postRepo.Update(ctx, bySlug)
		require.NoError(t, err)
		require.Equal(t, "Updated Title", updated.Title)

		require.NoError(t, postRepo.Delete(ctx, live.ID))
		_, err = postRepo.GetByID(ctx, live.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("comment_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		pr := repo.NewProfileRepository(conn)
		postRepo := repo.NewPostRepository(conn)
		cr := repo.NewCommentRepository(conn)

		commenter := newUser("commenter@example.com")
		_, err := ur.Create(ctx, commenter)
		require.NoError(t, err)
		require.NoError(t, pr.Upsert(ctx, model.Profile{
			ID: commenter.ID, Email: commenter.Email, FullName: commenter.FullName, UpdatedAt: time.Now(),
		}))

		post, err := postRepo.Create(ctx, model.Post{
			ID:        uuid.New(),
			Title:     "Commented Post",
			Slug:      "commented-post",
			AuthorID:  commenter.ID,
			Status:    model.PostStatusPublished,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		require.NoError(t, err)

		first, err := cr.Create(ctx, model.Comment{
			ID:        uuid.New(),
			PostID:    post.ID,
			UserID:    commenter.ID,
			Content:   "first!",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		require.NoError(t, err)

		comments, err := cr.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		require.Equal(t, commenter.FullName, comments[0].AuthorName)

		first.Content = "edited"
		edited, err := cr.Update(ctx, first)
		require.NoError(t, err)
		require.Equal(t, "edited", edited.Content)

		require.NoError(t, cr.Delete(ctx, first.ID))
		_, err = cr.GetByID(ctx, first.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("bookmark_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		postRepo := repo.NewPostRepository(conn)
		br := repo.NewBookmarkRepository(conn)

		reader := newUser("bookmarker@example.com")
		_, err := ur.Create(ctx, reader)
		require.NoError(t, err)

		post, err := postRepo.Create(ctx, model.Post{
			ID:        uuid.New(),
			Title:     "Saved Post",
			Slug:      "saved-post",
			AuthorID:  reader.ID,
			Status:    model.PostStatusPublished,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		require.NoError(t, err)

		mark := model.Bookmark{ID: uuid.New(), UserID: reader.ID, PostID: post.ID, CreatedAt: time.Now()}
		require.NoError(t, br.Add(ctx, mark))

		// Saving again is a no-op, not a constraint violation.
		mark.ID = uuid.New()
		require.NoError(t, br.Add(ctx, mark))

		exists, err := br.Exists(ctx, reader.ID, post.ID)
		require.NoError(t, err)
		require.True(t, exists)

		saved, err := br.ListPosts(ctx, reader.ID)
		require.NoError(t, err)
		require.Len(t, saved, 1)
		require.Equal(t, post.ID, saved[0].ID)

		require.NoError(t, br.Remove(ctx, reader.ID, post.ID))
		exists, err = br.Exists(ctx, reader.ID, post.ID)
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("refresh_token_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		rtr := repo.NewRefreshTokenRepository(conn)

		u := newUser("sessions@example.com")
		_, err := ur.Create(ctx, u)
		require.NoError(t, err)

		now := time.Now()
		rt := model.RefreshToken{
			ID:        uuid.New(),
			JTI:       uuid.NewString(),
			UserID:    u.ID,
			TokenHash: []byte("token-hash"),
			IssuedAt:  now,
			ExpiresAt: now.Add(24 * time.Hour),
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, rtr.Create(ctx, rt))

		stored, err := rtr.GetByJTI(ctx, rt.JTI)
		require.NoError(t, err)
		require.Equal(t, rt.UserID, stored.UserID)
		require.Nil(t, stored.RevokedAt)

		require.NoError(t, rtr.RevokeByJTI(ctx, rt.JTI))
		stored, err = rtr.GetByJTI(ctx, rt.JTI)
		require.NoError(t, err)
		require.NotNil(t, stored.RevokedAt)

		require.NoError(t, rtr.RevokeAllByUser(ctx, u.ID))
	})

	t.Run("category_repository", func(t *testing.T) {
		cat := repo.NewCategoryRepository(conn)

		id := uuid.New()
		_, err := conn.Exec(ctx,
			`INSERT INTO categories (id, name, slug, description, color) VALUES ($1, $2, $3, $4, $5)`,
			id, "Engineering", "engineering", "Technical posts", "#0f766e")
		require.NoError(t, err)

		categories, err := cat.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, categories)

		got, err := cat.GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "engineering", got.Slug)
	})
}
