package catalog

import "context"

type Repo interface {
	Create(ctx context.Context, p Product) (Product, error)
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, featuredOnly bool) ([]Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ListCache is a best-effort read cache for the catalog listing. A miss or
// a cache failure always falls through to the repo.
type ListCache interface {
	Get(ctx context.Context, featuredOnly bool) ([]Product, bool)
	Set(ctx context.Context, featuredOnly bool, ps []Product)
	Invalidate(ctx context.Context)
}
