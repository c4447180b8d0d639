package gallery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

func TestAlchemyClient_OwnedNFTs(t *testing.T) {
	var pages int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nft/v3/key-1/getNFTsForOwner", r.URL.Path)
		assert.Equal(t, owner, r.URL.Query().Get("owner"))
		assert.Equal(t, "true", r.URL.Query().Get("withMetadata"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		pages++

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageKey") == "" {
			_, _ = w.Write([]byte(`{"ownedNfts":[{"contract":{"address":"0xABC","name":"Memes"},"tokenId":"1","tokenType":"ERC721","name":"Doge","image":{"cachedUrl":"https://img/1.png"},"collection":{"name":"Meme Coll"}}],"pageKey":"next"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ownedNfts":[{"contract":{"address":"0xDEF","name":"Cats"},"tokenId":"7","image":{"originalUrl":"ipfs://x"}}]}`))
	}))
	defer srv.Close()

	nfts, err := NewAlchemyClient(srv.URL+"/", "key-1").OwnedNFTs(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	require.Len(t, nfts, 2)

	assert.Equal(t, NFT{
		ID: "0xabc-1", Name: "Doge", Collection: "Meme Coll", Chain: ChainBase,
		ContractAddress: "0xABC", TokenID: "1", TokenType: "ERC721", ImageURL: "https://img/1.png",
	}, nfts[0])
	assert.Equal(t, "Cats #7", nfts[1].Name)
	assert.Equal(t, "Cats", nfts[1].Collection)
	assert.Equal(t, "ipfs://x", nfts[1].ImageURL)
}

func TestAlchemyClient_Errors(t *testing.T) {
	_, err := NewAlchemyClient("http://unused", "").OwnedNFTs(context.Background(), owner)
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()
	_, err = NewAlchemyClient(srv.URL, "bad").OwnedNFTs(context.Background(), owner)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestAlchemyClient_EmptyIsNotNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ownedNfts":[],"totalCount":0}`))
	}))
	defer srv.Close()

	nfts, err := NewAlchemyClient(srv.URL, "k").OwnedNFTs(context.Background(), owner)
	require.NoError(t, err)
	assert.NotNil(t, nfts)
	assert.Empty(t, nfts)
}

type countingSource struct {
	nfts  []NFT
	err   error
	calls int
}

func (s *countingSource) OwnedNFTs(context.Context, string) ([]NFT, error) {
	s.calls++
	return s.nfts, s.err
}

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, 5*time.Minute), mr
}

func TestCache(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, owner)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, cache.Set(ctx, owner, []NFT{{ID: "x-1"}}))
	assert.True(t, mr.Exists("gallery:owner:0xab5801a7d398351b8be11c439e05c5b3259aec9b"))

	got, err := cache.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []NFT{{ID: "x-1"}}, got)

	mr.FastForward(6 * time.Minute)
	_, err = cache.Get(ctx, owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListOwned(t *testing.T) {
	cache, _ := setupCache(t)
	src := &countingSource{nfts: []NFT{{ID: "a-1"}}}
	svc := NewService(src, cache, nil)
	ctx := context.Background()

	_, err := svc.ListOwned(ctx, "0x12")
	assert.ErrorIs(t, err, ErrInvalidOwner)
	assert.Zero(t, src.calls)

	for i := 0; i < 3; i++ {
		nfts, err := svc.ListOwned(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, nfts, 1)
	}
	assert.Equal(t, 1, src.calls)

	require.NoError(t, svc.Refresh(ctx, owner))
	_, err = svc.ListOwned(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestService_SourceError(t *testing.T) {
	svc := NewService(&countingSource{err: errors.New("boom")}, nil, nil)
	_, err := svc.ListOwned(context.Background(), owner)
	assert.Error(t, err)
}
