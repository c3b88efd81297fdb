package category

import (
	"context"
	"strings"

	"github.com/artem13815/blog/pkg/validate"
)

type UseCase interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, d Draft) (Category, error)
	Update(ctx context.Context, id int64, p Patch) (Category, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) List(ctx context.Context) ([]Category, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Category{}
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id int64) (Category, error) {
	if id < 1 {
		return Category{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, d Draft) (Category, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	if err := validate.Length("Category name", d.Name, 1, 100); err != nil {
		return Category{}, err
	}
	if err := validate.Length("Description", d.Description, 0, 500); err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, d)
}

func (s *service) Update(ctx context.Context, id int64, p Patch) (Category, error) {
	if id < 1 {
		return Category{}, ErrNotFound
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := validate.Length("Category name", name, 1, 100); err != nil {
			return Category{}, err
		}
		p.Name = &name
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		if err := validate.Length("Description", desc, 0, 500); err != nil {
			return Category{}, err
		}
		p.Description = &desc
	}
	return s.repo.Update(ctx, id, p)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
