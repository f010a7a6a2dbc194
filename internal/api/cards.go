package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rickgao/pricewatch/internal/model"
)

// CardURL returns the card endpoint URL for article.
func (c *Client) CardURL(article model.Article) string {
	return strings.ReplaceAll(c.urlTemplate, "{id}", url.QueryEscape(string(article)))
}

// GetCard fetches the raw JSON card payload for article.
func (c *Client) GetCard(ctx context.Context, article model.Article) ([]byte, error) {
	body, err := c.doWithRetry(ctx, http.MethodGet, c.CardURL(article), "application/json")
	if err != nil {
		return nil, fmt.Errorf("get card %s: %w", article, err)
	}
	return body, nil
}

// GetPage fetches a product page as raw bytes.
func (c *Client) GetPage(ctx context.Context, pageURL string) ([]byte, error) {
	body, err := c.doWithRetry(ctx, http.MethodGet, pageURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, fmt.Errorf("get page %s: %w", pageURL, err)
	}
	return body, nil
}
