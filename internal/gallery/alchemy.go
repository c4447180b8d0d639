package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	alchemyPageSize = 100
	alchemyMaxPages = 10
	alchemyTimeout  = 15 * time.Second
)

// AlchemyClient reads ownership data from the Alchemy NFT API v3.
type AlchemyClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAlchemyClient(baseURL, apiKey string) *AlchemyClient {
	return &AlchemyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: alchemyTimeout},
	}
}

type alchemyNFT struct {
	Contract struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"contract"`
	TokenID     string `json:"tokenId"`
	TokenType   string `json:"tokenType"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       struct {
		CachedURL    string `json:"cachedUrl"`
		ThumbnailURL string `json:"thumbnailUrl"`
		OriginalURL  string `json:"originalUrl"`
	} `json:"image"`
	Collection *struct {
		Name string `json:"name"`
	} `json:"collection"`
}

type ownedNFTsResponse struct {
	OwnedNfts  []alchemyNFT `json:"ownedNfts"`
	TotalCount int          `json:"totalCount"`
	PageKey    string       `json:"pageKey"`
}

// OwnedNFTs pages through getNFTsForOwner, stopping after alchemyMaxPages.
func (c *AlchemyClient) OwnedNFTs(ctx context.Context, owner string) ([]NFT, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("alchemy: api key is not set")
	}

	var out []NFT
	pageKey := ""
	for page := 0; page < alchemyMaxPages; page++ {
		resp, err := c.fetchPage(ctx, owner, pageKey)
		if err != nil {
			return nil, err
		}
		for _, n := range resp.OwnedNfts {
			out = append(out, n.toNFT())
		}
		if resp.PageKey == "" {
			break
		}
		pageKey = resp.PageKey
	}
	if out == nil {
		out = []NFT{}
	}
	return out, nil
}

func (c *AlchemyClient) fetchPage(ctx context.Context, owner, pageKey string) (*ownedNFTsResponse, error) {
	u, err := url.Parse(c.baseURL + "/nft/v3/" + url.PathEscape(c.apiKey) + "/getNFTsForOwner")
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("owner", owner)
	q.Set("withMetadata", "true")
	q.Set("pageSize", fmt.Sprint(alchemyPageSize))
	if pageKey != "" {
		q.Set("pageKey", pageKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alchemy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("alchemy returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out ownedNFTsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode alchemy response: %w", err)
	}
	return &out, nil
}

func (n alchemyNFT) toNFT() NFT {
	collection := n.Contract.Name
	if n.Collection != nil && n.Collection.Name != "" {
		collection = n.Collection.Name
	}
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("%s #%s", firstNonEmpty(n.Contract.Name, "Token"), n.TokenID)
	}
	return NFT{
		ID:              strings.ToLower(n.Contract.Address) + "-" + n.TokenID,
		Name:            name,
		Description:     n.Description,
		Collection:      collection,
		Chain:           ChainBase,
		ContractAddress: n.Contract.Address,
		TokenID:         n.TokenID,
		TokenType:       n.TokenType,
		ImageURL:        firstNonEmpty(n.Image.CachedURL, n.Image.ThumbnailURL, n.Image.OriginalURL),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
