// Package gallery lists the NFTs a wallet owns on Base.
package gallery

import "errors"

const ChainBase = "Base"

var (
	ErrInvalidOwner = errors.New("invalid owner address")
	ErrNotFound     = errors.New("gallery not cached")
)

// NFT is one owned token, flattened for the gallery grid.
type NFT struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Collection      string `json:"collection"`
	Chain           string `json:"chain"`
	ContractAddress string `json:"contractAddress"`
	TokenID         string `json:"tokenId"`
	TokenType       string `json:"tokenType,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
}
