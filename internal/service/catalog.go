package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aecom-checkout/internal/client"
	"aecom-checkout/internal/model"
)

// VariantMatch is a catalog hit for one SKU: the owning product id plus
// the matched variant as it stood at lookup time.
type VariantMatch struct {
	ProductID int
	Variant   model.Variant
}

// CatalogService is the narrow window onto the remote catalog. Every call
// re-fetches the full product collection and scans variant lists in
// order; there is no cache, no index and no optimistic-concurrency token,
// so concurrent writers can lose updates (last write wins on the full
// variant array).
type CatalogService interface {
	// FindVariantBySku returns the first variant whose SKU matches, or
	// (nil, nil) when no product carries it.
	FindVariantBySku(ctx context.Context, sku string) (*VariantMatch, error)

	// AdjustStock decrements the matched variant's stock by quantity and
	// writes the owning product's full variant list back. Stock may go
	// negative. An unknown SKU is logged and ignored.
	AdjustStock(ctx context.Context, sku string, quantity int64) error

	CreateOrder(ctx context.Context, order *model.Order) (int, error)
}

type catalogServiceImpl struct {
	strapiClient client.StrapiClient
	log          *zap.Logger
}

func NewCatalogService(strapiClient client.StrapiClient, log *zap.Logger) CatalogService {
	return &catalogServiceImpl{
		strapiClient: strapiClient,
		log:          log,
	}
}

func (s *catalogServiceImpl) FindVariantBySku(ctx context.Context, sku string) (*VariantMatch, error) {
	products, err := s.strapiClient.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	for _, product := range products {
		for _, variant := range product.Variants {
			if variant.SKU == sku {
				return &VariantMatch{
					ProductID: product.ID,
					Variant:   variant,
				}, nil
			}
		}
	}

	s.log.Warn("no product found for sku", zap.String("sku", sku))
	return nil, nil
}

func (s *catalogServiceImpl) AdjustStock(ctx context.Context, sku string, quantity int64) error {
	products, err := s.strapiClient.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("fetch products: %w", err)
	}

	for _, product := range products {
		matched := false
		for _, variant := range product.Variants {
			if variant.SKU == sku {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		updated := make([]model.Variant, len(product.Variants))
		for i, variant := range product.Variants {
			if variant.SKU == sku {
				// stock is allowed to go negative; confirmed business
				// rule, do not clamp at zero
				newStock := variant.Stock - int(quantity)
				s.log.Info("adjusting stock",
					zap.String("sku", sku),
					zap.Int("old_stock", variant.Stock),
					zap.Int("new_stock", newStock))
				variant.Stock = newStock
			}
			updated[i] = variant
		}

		if err := s.strapiClient.ReplaceProductVariants(ctx, product.ID, updated); err != nil {
			return fmt.Errorf("write back variants for product %d: %w", product.ID, err)
		}

		return nil
	}

	s.log.Warn("no variant found for sku, stock not adjusted", zap.String("sku", sku))
	return nil
}

func (s *catalogServiceImpl) CreateOrder(ctx context.Context, order *model.Order) (int, error) {
	return s.strapiClient.CreateOrder(ctx, order)
}
