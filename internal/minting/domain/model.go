package domain

import "time"

// MaxImageBytes is the largest image accepted for pinning.
const MaxImageBytes = 10 << 20

type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusSubmitted RecordStatus = "submitted"
)

// Attribute is an ERC-721 metadata trait. Value is a string or a number.
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// Metadata is the ERC-721 token metadata document pinned to IPFS.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// MintRecord tracks one prepared mint until its transaction is submitted.
type MintRecord struct {
	ID          string       `json:"id"`
	Owner       string       `json:"owner"`
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	ImageURL    string       `json:"imageUrl"`
	MetadataURL string       `json:"metadataUrl"`
	Status      RecordStatus `json:"status"`
	TxHash      string       `json:"txHash,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ImageUpload is the result of pinning an image.
type ImageUpload struct {
	CID        string `json:"cid"`
	IPFSURL    string `json:"ipfsUrl"`
	GatewayURL string `json:"gatewayUrl,omitempty"`
}

// PrepareMintRequest is what the wallet owner fills in before minting.
type PrepareMintRequest struct {
	Owner       string      `json:"owner"`
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Description string      `json:"description,omitempty"`
	ImageURL    string      `json:"imageUrl"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// MintTx is an unsigned contract call for the owner's wallet.
type MintTx struct {
	ChainID int64  `json:"chainId"`
	To      string `json:"to"`
	Data    string `json:"data"`
}

// PreparedMint bundles the pinned metadata, the record and the call to sign.
type PreparedMint struct {
	Record   *MintRecord `json:"record"`
	Metadata Metadata    `json:"metadata"`
	Tx       MintTx      `json:"tx"`
}

type ContractStats struct {
	Address       string `json:"address"`
	ChainID       int64  `json:"chainId"`
	TotalSupply   string `json:"totalSupply"`
	PointsPerMint string `json:"pointsPerMint"`
}
