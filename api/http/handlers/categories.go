package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/blog/api/http/presenter"
	"github.com/artem13815/blog/pkg/category"
)

type CategoryHandler struct {
	uc category.UseCase
}

func NewCategoryHandler(uc category.UseCase) *CategoryHandler { return &CategoryHandler{uc: uc} }

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// @Summary List categories
// @Tags    categories
// @Produce json
// @Success 200 {object} presenter.Envelope{data=[]category.Category}
// @Router  /categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, items, "")
}

// @Summary Get category
// @Tags    categories
// @Produce json
// @Param   id path int true "category id"
// @Success 200 {object} presenter.Envelope{data=category.Category}
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /categories/{id} [get]
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, category.ErrNotFound)
	if err != nil {
		return err
	}
	cat, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, cat, "")
}

// @Summary  Create category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    input body createCategoryRequest true "category"
// @Success  201 {object} presenter.Envelope{data=category.Category}
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}
	cat, err := h.uc.Create(c.UserContext(), category.Draft{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusCreated, cat, "Category created successfully")
}

// @Summary  Update category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id    path int                   true "category id"
// @Param    input body updateCategoryRequest true "fields to change"
// @Success  200 {object} presenter.Envelope{data=category.Category}
// @Failure  400 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, category.ErrNotFound)
	if err != nil {
		return err
	}
	var req updateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}
	cat, err := h.uc.Update(c.UserContext(), id, category.Patch{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, cat, "Category updated successfully")
}

// Delete removes the category; its posts stay.
// @Summary  Delete category
// @Tags     categories
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "category id"
// @Success  200 {object} presenter.Envelope
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, category.ErrNotFound)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, nil, "Category deleted successfully")
}
