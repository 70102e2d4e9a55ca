package responses

import (
	"time"

	"github.com/jujinjujeen/fuga/internal/domain/product"
)

// ProductResponse is the DTO exposed to clients.
type ProductResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Artist    string         `json:"artist"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
	Image     *ImageResponse `json:"image,omitempty"`
}

// ImageResponse carries the public URL of the promoted object plus its
// decoded metadata.
type ImageResponse struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// PublicURL builds the browser-reachable URL of a permanent object.
type PublicURL func(storageKey string) string

// FromProduct maps a domain product to its DTO.
func FromProduct(p *product.Product, publicURL PublicURL) ProductResponse {
	resp := ProductResponse{
		ID:        p.ID,
		Title:     p.Title,
		Artist:    p.Artist,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.Image != nil {
		resp.Image = &ImageResponse{
			URL:    publicURL(p.Image.StorageKey),
			Key:    p.Image.StorageKey,
			Width:  p.Image.Width,
			Height: p.Image.Height,
			Format: string(p.Image.Format),
		}
	}
	return resp
}

// FromProducts maps a product list.
func FromProducts(products []product.Product, publicURL PublicURL) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, FromProduct(&products[i], publicURL))
	}
	return out
}
