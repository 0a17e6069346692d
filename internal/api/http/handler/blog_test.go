package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarshalexbalmuchu/nextnode/internal/cache"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
	"github.com/adarshalexbalmuchu/nextnode/internal/testutil"
)

type blogServiceStub struct {
	published  []model.BlogPost
	post       model.BlogPost
	all        []model.Post
	created    model.Post
	updated    model.Post
	categories []model.Category
	imageURL   string
	err        error

	lastInput model.PostInput
	deletedID uuid.UUID
}

func (s *blogServiceStub) GetPublishedPosts(context.Context) ([]model.BlogPost, error) {
	return s.published, s.err
}

func (s *blogServiceStub) GetPostBySlug(_ context.Context, _ string) (model.BlogPost, error) {
	return s.post, s.err
}

func (s *blogServiceStub) GetAllPosts(context.Context) ([]model.Post, error) {
	return s.all, s.err
}

func (s *blogServiceStub) CreatePost(_ context.Context, input model.PostInput) (model.Post, error) {
	s.lastInput = input
	return s.created, s.err
}

func (s *blogServiceStub) UpdatePost(_ context.Context, _ uuid.UUID, input model.PostInput) (model.Post, error) {
	s.lastInput = input
	return s.updated, s.err
}

func (s *blogServiceStub) DeletePost(_ context.Context, id uuid.UUID) error {
	s.deletedID = id
	return s.err
}

func (s *blogServiceStub) GetCategories(context.Context) ([]model.Category, error) {
	return s.categories, s.err
}

func (s *blogServiceStub) UploadImage(_ context.Context, _, _ string, _ io.Reader, _ int64) (string, error) {
	return s.imageURL, s.err
}

func newBlogHandler(stub *blogServiceStub) *Blog {
	// No redis client in unit tests; the cache degrades to fetch-through.
	return NewBlog(stub, cache.New(nil, testutil.MakeNoopLogger()), time.Minute, testutil.MakeNoopLogger())
}

func TestBlogHandler_ListPublished(t *testing.T) {
	stub := &blogServiceStub{published: []model.BlogPost{
		{ID: uuid.NewString(), Title: "First", Slug: "first", ReadTime: "2 min read"},
	}}
	h := newBlogHandler(stub)

	c, rec := jsonRequest(http.MethodGet, "/api/posts", "")
	require.NoError(t, h.ListPublished(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var posts []model.BlogPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "first", posts[0].Slug)
}

func TestBlogHandler_GetBySlug(t *testing.T) {
	t.Run("returns the post", func(t *testing.T) {
		stub := &blogServiceStub{post: model.BlogPost{Title: "First", Slug: "first"}}
		h := newBlogHandler(stub)

		c, rec := jsonRequest(http.MethodGet, "/api/posts/first", "")
		c.SetParamNames("slug")
		c.SetParamValues("first")

		require.NoError(t, h.GetBySlug(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("maps a missing post to 404", func(t *testing.T) {
		stub := &blogServiceStub{err: model.ErrNotFound}
		h := newBlogHandler(stub)

		c, _ := jsonRequest(http.MethodGet, "/api/posts/missing", "")
		c.SetParamNames("slug")
		c.SetParamValues("missing")

		err := h.GetBySlug(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestBlogHandler_ListAll(t *testing.T) {
	t.Run("returns raw posts including drafts", func(t *testing.T) {
		stub := &blogServiceStub{all: []model.Post{
			{ID: uuid.New(), Title: "Draft", Status: model.PostStatusDraft},
		}}
		h := newBlogHandler(stub)

		c, rec := jsonRequest(http.MethodGet, "/api/admin/posts", "")
		require.NoError(t, h.ListAll(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var posts []adminPost
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
		require.Len(t, posts, 1)
		assert.Equal(t, "draft", posts[0].Status)
	})

	t.Run("maps permission failures to 403", func(t *testing.T) {
		stub := &blogServiceStub{err: model.ErrInsufficientPermissions}
		h := newBlogHandler(stub)

		c, _ := jsonRequest(http.MethodGet, "/api/admin/posts", "")
		err := h.ListAll(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})
}

func TestBlogHandler_Create(t *testing.T) {
	stub := &blogServiceStub{created: model.Post{ID: uuid.New(), Title: "New", Slug: "new"}}
	h := newBlogHandler(stub)

	c, rec := jsonRequest(http.MethodPost, "/api/admin/posts",
		`{"title":"New","tags":["go"],"status":"draft"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "New", stub.lastInput.Title)
	assert.Equal(t, model.PostStatusDraft, stub.lastInput.Status)
}

func TestBlogHandler_Update(t *testing.T) {
	t.Run("rejects a malformed id", func(t *testing.T) {
		h := newBlogHandler(&blogServiceStub{})

		c, _ := jsonRequest(http.MethodPut, "/api/admin/posts/not-a-uuid", `{"title":"X"}`)
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")

		err := h.Update(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("applies the update", func(t *testing.T) {
		postID := uuid.New()
		stub := &blogServiceStub{updated: model.Post{ID: postID, Title: "Edited"}}
		h := newBlogHandler(stub)

		c, rec := jsonRequest(http.MethodPut, "/api/admin/posts/"+postID.String(), `{"title":"Edited"}`)
		c.SetParamNames("id")
		c.SetParamValues(postID.String())

		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestBlogHandler_Delete(t *testing.T) {
	postID := uuid.New()
	stub := &blogServiceStub{}
	h := newBlogHandler(stub)

	c, rec := jsonRequest(http.MethodDelete, "/api/admin/posts/"+postID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(postID.String())

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, postID, stub.deletedID)
}

func TestBlogHandler_UploadImage(t *testing.T) {
	t.Run("returns the public url", func(t *testing.T) {
		stub := &blogServiceStub{imageURL: "https://cdn.example.com/blog-images/abc.png"}
		h := newBlogHandler(stub)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "cover.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/images", body)
		req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
		rec := httptest.NewRecorder()

		require.NoError(t, h.UploadImage(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "https://cdn.example.com/blog-images/abc.png")
	})

	t.Run("rejects a request without a file", func(t *testing.T) {
		h := newBlogHandler(&blogServiceStub{})

		c, _ := jsonRequest(http.MethodPost, "/api/admin/images", "")
		err := h.UploadImage(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}
