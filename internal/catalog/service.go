package catalog

import (
	"context"
	"net/url"
	"strings"

	"github.com/glossifi/storefront/internal/apperr"
)

type Service struct {
	repo  Repo
	cache ListCache // optional
}

func NewService(repo Repo, cache ListCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ProductInput carries the fields an admin submits when creating a product.
// Price travels as a string to keep it exact.
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	Featured    bool   `json:"featured"`
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	ImageURL    *string `json:"imageUrl"`
	Stock       *int    `json:"stock"`
	Category    *string `json:"category"`
	Featured    *bool   `json:"featured"`
}

func (s *Service) List(ctx context.Context, featuredOnly bool) ([]Product, error) {
	if s.cache != nil {
		if ps, ok := s.cache.Get(ctx, featuredOnly); ok {
			return ps, nil
		}
	}
	ps, err := s.repo.List(ctx, featuredOnly)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, featuredOnly, ps)
	}
	return ps, nil
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if strings.TrimSpace(id) == "" {
		return Product{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in ProductInput) (Product, error) {
	p, err := fromInput(in)
	if err != nil {
		return Product{}, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if err := applyPatch(&p, patch); err != nil {
		return Product{}, err
	}
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func fromInput(in ProductInput) (Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Product{}, apperr.Invalid("name", "required")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Product{}, apperr.Invalid("description", "required")
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return Product{}, err
	}
	if err := checkImageURL(in.ImageURL); err != nil {
		return Product{}, err
	}
	if in.Stock < 0 {
		return Product{}, apperr.Invalid("stock", "must be >= 0")
	}
	return Product{
		Name:        name,
		Description: desc,
		Price:       price,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		Category:    strings.TrimSpace(in.Category),
		Featured:    in.Featured,
	}, nil
}

func applyPatch(p *Product, patch ProductPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return apperr.Invalid("name", "required")
		}
		p.Name = name
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if desc == "" {
			return apperr.Invalid("description", "required")
		}
		p.Description = desc
	}
	if patch.Price != nil {
		price, err := ParsePrice(*patch.Price)
		if err != nil {
			return err
		}
		p.Price = price
	}
	if patch.ImageURL != nil {
		if err := checkImageURL(*patch.ImageURL); err != nil {
			return err
		}
		p.ImageURL = *patch.ImageURL
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return apperr.Invalid("stock", "must be >= 0")
		}
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	return nil
}

func checkImageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.Invalid("imageUrl", "must be an http(s) URL")
	}
	return nil
}
