package service

import (
	"context"

	"go.uber.org/zap"

	"aecom-checkout/internal/client"
	"aecom-checkout/internal/model"
)

// skuStrategy is one way of recovering the catalog SKU from a provider
// line item. Strategies are tried in a fixed order and the first non-empty
// result wins.
type skuStrategy interface {
	Name() string
	Extract(ctx context.Context, item *model.LineItem) (string, error)
}

// priceMetadataStrategy reads the SKU straight off the price metadata.
type priceMetadataStrategy struct{}

func (priceMetadataStrategy) Name() string { return "price-metadata" }

func (priceMetadataStrategy) Extract(_ context.Context, item *model.LineItem) (string, error) {
	if item.Price == nil {
		return "", nil
	}
	return item.Price.Metadata["sku"], nil
}

// productMetadataStrategy reads the SKU from the product metadata when the
// product relation was expanded inline.
type productMetadataStrategy struct{}

func (productMetadataStrategy) Name() string { return "product-metadata" }

func (productMetadataStrategy) Extract(_ context.Context, item *model.LineItem) (string, error) {
	if item.Price == nil || item.Price.Product == nil || item.Price.Product.Expanded == nil {
		return "", nil
	}
	return item.Price.Product.Expanded.Metadata["sku"], nil
}

// remoteProductStrategy fetches the product by id when only a bare
// reference is present.
type remoteProductStrategy struct {
	stripeClient client.StripeClient
}

func (remoteProductStrategy) Name() string { return "remote-product-fetch" }

func (s remoteProductStrategy) Extract(ctx context.Context, item *model.LineItem) (string, error) {
	if item.Price == nil || item.Price.Product == nil || item.Price.Product.ID == "" {
		return "", nil
	}
	if item.Price.Product.Expanded != nil {
		// already handled by the inline strategy
		return "", nil
	}

	product, err := s.stripeClient.RetrieveProduct(ctx, item.Price.Product.ID)
	if err != nil {
		return "", err
	}

	return product.Metadata["sku"], nil
}

// SkuResolver runs the strategy chain for a line item. A strategy error is
// logged and treated as a miss; an item that yields no SKU anywhere is
// skipped by the caller, not retried.
type SkuResolver struct {
	strategies []skuStrategy
	log        *zap.Logger
}

func NewSkuResolver(stripeClient client.StripeClient, log *zap.Logger) *SkuResolver {
	return &SkuResolver{
		strategies: []skuStrategy{
			priceMetadataStrategy{},
			productMetadataStrategy{},
			remoteProductStrategy{stripeClient: stripeClient},
		},
		log: log,
	}
}

func (r *SkuResolver) Resolve(ctx context.Context, item *model.LineItem) string {
	for _, strategy := range r.strategies {
		sku, err := strategy.Extract(ctx, item)
		if err != nil {
			r.log.Warn("sku extraction failed",
				zap.String("strategy", strategy.Name()),
				zap.String("line_item", item.ID),
				zap.Error(err))
			continue
		}
		if sku != "" {
			return sku
		}
	}

	return ""
}
