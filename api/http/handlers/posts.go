package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/blog/api/http/presenter"
	"github.com/artem13815/blog/pkg/post"
)

type PostHandler struct {
	uc post.UseCase
}

func NewPostHandler(uc post.UseCase) *PostHandler { return &PostHandler{uc: uc} }

type createPostRequest struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Excerpt       string  `json:"excerpt"`
	Slug          string  `json:"slug"`
	FeaturedImage string  `json:"featuredImage"`
	Published     bool    `json:"published"`
	CategoryIDs   []int64 `json:"categoryIds"`
}

type updatePostRequest struct {
	Title         *string  `json:"title"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt"`
	Slug          *string  `json:"slug"`
	FeaturedImage *string  `json:"featuredImage"`
	Published     *bool    `json:"published"`
	CategoryIDs   *[]int64 `json:"categoryIds"`
}

// List returns a filtered, sorted page of posts.
// @Summary List posts
// @Tags    posts
// @Produce json
// @Param   page      query int    false "page number (>=1)"
// @Param   limit     query int    false "page size"
// @Param   search    query string false "substring of title or content"
// @Param   category  query string false "category name"
// @Param   published query bool   false "published flag"
// @Param   authorId  query int    false "author id"
// @Param   sortBy    query string false "createdAt | updatedAt | title | viewCount"
// @Param   sortOrder query string false "asc | desc"
// @Success 200 {object} presenter.Envelope{data=[]post.Post,pagination=presenter.Pagination}
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /posts [get]
func (h *PostHandler) List(c *fiber.Ctx) error {
	q, err := parsePostQuery(c)
	if err != nil {
		return err
	}
	page, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return presenter.Paginated(c, page.Items, presenter.Pagination{
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
	})
}

// Get returns a post by numeric id.
// @Summary Get post
// @Tags    posts
// @Produce json
// @Param   id path int true "post id"
// @Success 200 {object} presenter.Envelope{data=post.Post}
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /posts/{id} [get]
func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, post.ErrNotFound)
	if err != nil {
		return err
	}
	p, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, p, "")
}

// GetBySlug returns a post by its exact slug.
// @Summary Get post by slug
// @Tags    posts
// @Produce json
// @Param   slug path string true "post slug"
// @Success 200 {object} presenter.Envelope{data=post.Post}
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /posts/slug/{slug} [get]
func (h *PostHandler) GetBySlug(c *fiber.Ctx) error {
	p, err := h.uc.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, p, "")
}

// Create adds a post authored by the caller.
// @Summary  Create post
// @Tags     posts
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    input body createPostRequest true "post"
// @Success  201 {object} presenter.Envelope{data=post.Post}
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /posts [post]
func (h *PostHandler) Create(c *fiber.Ctx) error {
	authorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}
	p, err := h.uc.Create(c.UserContext(), authorID, post.Draft{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Slug:          req.Slug,
		FeaturedImage: req.FeaturedImage,
		Published:     req.Published,
		CategoryIDs:   req.CategoryIDs,
	})
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusCreated, p, "Post created successfully")
}

// Update changes only the supplied fields.
// @Summary  Update post
// @Tags     posts
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id    path int               true "post id"
// @Param    input body updatePostRequest true "fields to change"
// @Success  200 {object} presenter.Envelope{data=post.Post}
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /posts/{id} [put]
func (h *PostHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, post.ErrNotFound)
	if err != nil {
		return err
	}
	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}
	p, err := h.uc.Update(c.UserContext(), id, post.Patch{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Slug:          req.Slug,
		FeaturedImage: req.FeaturedImage,
		Published:     req.Published,
		CategoryIDs:   req.CategoryIDs,
	})
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, p, "Post updated successfully")
}

// Delete removes a post and returns it.
// @Summary  Delete post
// @Tags     posts
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "post id"
// @Success  200 {object} presenter.Envelope{data=post.Post}
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /posts/{id} [delete]
func (h *PostHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, post.ErrNotFound)
	if err != nil {
		return err
	}
	p, err := h.uc.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, p, "Post deleted successfully")
}

// @Summary  Publish post
// @Tags     posts
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "post id"
// @Success  200 {object} presenter.Envelope{data=post.Post}
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /posts/{id}/publish [patch]
func (h *PostHandler) Publish(c *fiber.Ctx) error {
	return h.setPublished(c, true, "Post published successfully")
}

// @Summary  Unpublish post
// @Tags     posts
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "post id"
// @Success  200 {object} presenter.Envelope{data=post.Post}
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /posts/{id}/unpublish [patch]
func (h *PostHandler) Unpublish(c *fiber.Ctx) error {
	return h.setPublished(c, false, "Post unpublished successfully")
}

func (h *PostHandler) setPublished(c *fiber.Ctx, published bool, msg string) error {
	id, err := pathID(c, post.ErrNotFound)
	if err != nil {
		return err
	}
	p, err := h.uc.SetPublished(c.UserContext(), id, published)
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, p, msg)
}
