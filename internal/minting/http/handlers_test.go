package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/chaincanvas/chaincanvas-backend/internal/minting/domain"
	"github.com/chaincanvas/chaincanvas-backend/internal/minting/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner  = "0x1234567890123456789012345678901234567890"
	txHash = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
)

type stubPinner struct{}

func (stubPinner) PinFile(context.Context, string, string, io.Reader) (string, error) {
	return "QmImage", nil
}
func (stubPinner) PinJSON(context.Context, string, interface{}) (string, error) { return "QmMeta", nil }
func (stubPinner) GatewayURL(cid string) string { return "" }

type oneRecordStore struct {
	rec *domain.MintRecord
}

func (s *oneRecordStore) Create(_ context.Context, rec *domain.MintRecord) error {
	rec.ID = "rec-1"
	s.rec = rec
	return nil
}

func (s *oneRecordStore) GetByID(_ context.Context, id string) (*domain.MintRecord, error) {
	if s.rec == nil || s.rec.ID != id {
		return nil, domain.ErrRecordNotFound
	}
	return s.rec, nil
}

func (s *oneRecordStore) MarkSubmitted(ctx context.Context, id, hash string) (*domain.MintRecord, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == domain.StatusSubmitted {
		return nil, domain.ErrAlreadySubmitted
	}
	rec.Status, rec.TxHash = domain.StatusSubmitted, hash
	return rec, nil
}

func (s *oneRecordStore) ListByOwner(context.Context, string, int) ([]*domain.MintRecord, error) {
	if s.rec == nil {
		return []*domain.MintRecord{}, nil
	}
	return []*domain.MintRecord{s.rec}, nil
}

type stubContract struct{}

func (stubContract) Address() string { return "0x2C4581D4cE74EeE134a0129CB9dF36e6300F5812" }
func (stubContract) Points(context.Context, string) (*big.Int, error) { return big.NewInt(20), nil }
func (stubContract) TotalSupply(context.Context) (*big.Int, error) { return big.NewInt(7), nil }
func (stubContract) PointsPerMint(context.Context) (*big.Int, error) { return big.NewInt(10), nil }
func (stubContract) MintCalldata(string, string, string) ([]byte, error) { return []byte{1, 2}, nil }

func setupRouter(withChain bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	var contract service.ContractReader
	if withChain {
		contract = stubContract{}
	}
	svc := service.NewMintService(stubPinner{}, &oneRecordStore{}, contract, 8453, nil)
	router := gin.New()
	New(svc, nil).Register(router.Group("/api/v1"))
	return router
}

func do(router *gin.Engine, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func multipartFile(t *testing.T, contentType string, content []byte) (string, *bytes.Buffer) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="meme.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write(content)
	require.NoError(t, w.Close())
	return w.FormDataContentType(), &buf
}

func TestUploadImage(t *testing.T) {
	router := setupRouter(true)

	ct, body := multipartFile(t, "image/png", []byte("png"))
	rr := do(router, http.MethodPost, "/api/v1/mint/images", ct, body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var up domain.ImageUpload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &up))
	assert.Equal(t, "ipfs://QmImage", up.IPFSURL)

	ct, body = multipartFile(t, "text/plain", []byte("hello"))
	rr = do(router, http.MethodPost, "/api/v1/mint/images", ct, body)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	rr = do(router, http.MethodPost, "/api/v1/mint/images", "application/json", bytes.NewBufferString(`{}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPrepareAndConfirm(t *testing.T) {
	router := setupRouter(true)

	body := `{"owner":"` + owner + `","name":"Pepe","symbol":"PEPE","imageUrl":"ipfs://QmImage"}`
	rr := do(router, http.MethodPost, "/api/v1/mint/prepare", "application/json", bytes.NewBufferString(body))
	require.Equal(t, http.StatusCreated, rr.Code)

	var prepared domain.PreparedMint
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &prepared))
	assert.Equal(t, "0x0102", prepared.Tx.Data)
	assert.Equal(t, "Pepe NFT", prepared.Metadata.Description)

	rr = do(router, http.MethodPost, "/api/v1/mint/records/rec-1/confirm", "application/json", bytes.NewBufferString(`{"txHash":"`+txHash+`"}`))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(router, http.MethodPost, "/api/v1/mint/records/rec-1/confirm", "application/json", bytes.NewBufferString(`{"txHash":"`+txHash+`"}`))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(router, http.MethodPost, "/api/v1/mint/records/other/confirm", "application/json", bytes.NewBufferString(`{"txHash":"`+txHash+`"}`))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(router, http.MethodPost, "/api/v1/mint/records/rec-1/confirm", "application/json", bytes.NewBufferString(`{}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(router, http.MethodGet, "/api/v1/mint/records?owner="+owner, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":1`)
}

func TestPrepare_InvalidFields(t *testing.T) {
	router := setupRouter(true)

	rr := do(router, http.MethodPost, "/api/v1/mint/prepare", "application/json", bytes.NewBufferString(`{"owner":"bad"}`))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "owner")
	assert.Contains(t, resp.Fields, "name")

	rr = do(router, http.MethodPost, "/api/v1/mint/prepare", "application/json", bytes.NewBufferString(`not json`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPointsAndStats(t *testing.T) {
	router := setupRouter(true)

	rr := do(router, http.MethodGet, "/api/v1/points/"+owner, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"address":"`+owner+`","points":"20"}`, rr.Body.String())

	rr = do(router, http.MethodGet, "/api/v1/points/0xbad", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(router, http.MethodGet, "/api/v1/contract/stats", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"totalSupply":"7"`)
}

func TestChainUnavailable(t *testing.T) {
	router := setupRouter(false)

	rr := do(router, http.MethodGet, "/api/v1/contract/stats", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
