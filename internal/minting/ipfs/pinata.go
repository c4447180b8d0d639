// Package ipfs pins images and metadata documents through Pinata.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

var ErrMissingJWT = errors.New("pinata jwt is not configured")

// PinataClient uploads content to Pinata and returns IPFS content ids.
type PinataClient struct {
	apiURL     string
	gateway    string
	jwt        string
	httpClient *http.Client
}

func NewPinataClient(apiURL, gateway, jwt string) (*PinataClient, error) {
	if jwt == "" {
		return nil, ErrMissingJWT
	}
	return &PinataClient{
		apiURL:  strings.TrimRight(apiURL, "/"),
		gateway: strings.TrimRight(gateway, "/"),
		jwt:     jwt,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

// PinFile uploads a single file and returns its CID.
func (c *PinataClient) PinFile(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	meta, _ := json.Marshal(pinataMetadata{Name: filename})
	if err := w.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("failed to write metadata field: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	return c.pin(ctx, "/pinning/pinFileToIPFS", w.FormDataContentType(), &body)
}

// PinJSON uploads v as a JSON document named name and returns its CID.
func (c *PinataClient) PinJSON(ctx context.Context, name string, v interface{}) (string, error) {
	payload := struct {
		Content  interface{}    `json:"pinataContent"`
		Metadata pinataMetadata `json:"pinataMetadata"`
	}{Content: v, Metadata: pinataMetadata{Name: name}}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return c.pin(ctx, "/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(jsonData))
}

func (c *PinataClient) pin(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call pinata: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pinata returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out pinResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.IpfsHash == "" {
		return "", errors.New("pinata response has no IpfsHash")
	}
	return out.IpfsHash, nil
}

// GatewayURL maps a CID to an HTTPS gateway link. Empty when no gateway is set.
func (c *PinataClient) GatewayURL(cid string) string {
	if c.gateway == "" {
		return ""
	}
	gw := c.gateway
	if !strings.HasPrefix(gw, "http://") && !strings.HasPrefix(gw, "https://") {
		gw = "https://" + gw
	}
	return gw + "/ipfs/" + cid
}

// URI formats a CID as an ipfs:// reference.
func URI(cid string) string {
	return "ipfs://" + cid
}
