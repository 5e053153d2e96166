package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/event"
	"github.com/osse101/Monsters_Go/internal/loot"
	"github.com/osse101/Monsters_Go/internal/monster"
	"github.com/osse101/Monsters_Go/internal/registry"
	"github.com/osse101/Monsters_Go/internal/render"
	"github.com/osse101/Monsters_Go/internal/weakness"
)

const (
	testAdmin  = "0x00000000000000000000000000000000000000Ad"
	testHolder = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	testOther  = "0x0000000000000000000000000000000000000B0b"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	holder := domain.MustParseAddress(testHolder)
	oracle := loot.NewStaticOracle(map[domain.LootID]domain.Address{528: holder})
	reg, err := registry.New(domain.MustParseAddress(testAdmin), loot.NewAdapter(oracle), weakness.Default())
	require.NoError(t, err)

	pub, err := event.NewResilientPublisher(event.NewMemoryBus(), 1, 10*time.Millisecond, t.TempDir()+"/deadletter.jsonl")
	require.NoError(t, err)
	svc := monster.NewService(reg, weakness.Default(), pub, monster.CacheConfig{Size: 16, TTL: time.Minute})
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	r := chi.NewRouter()
	r.Get("/collection", HandleGetCollection(svc))
	r.Get("/loot/{lootId}", HandleGetLoot(svc))
	r.Post("/loot/{lootId}/claim", HandleClaimWithLoot(svc))
	r.Get("/owners/{address}/balance", HandleGetBalance(svc))
	r.Post("/admin/withdraw", HandleWithdraw(svc))
	r.Route("/monsters/{id}", func(r chi.Router) {
		r.Get("/", HandleGetMonster(svc))
		r.Get("/metadata", HandleGetMetadata(svc))
		r.Get("/image.svg", HandleGetImage(svc))
		r.Get("/can-slay/{lootId}", HandleCanSlay(svc))
		r.Post("/mint", HandleMint(svc))
		r.Post("/reserved-mint", HandleReservedMint(svc))
		r.Put("/name", HandleSetName(svc))
		r.Post("/slay", HandleSlay(svc))
		r.Post("/transfer", HandleTransfer(svc))
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, caller, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req.Header.Set(HeaderCallerAddress, caller)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleMint(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name     string
		path     string
		caller   string
		body     string
		wantCode int
		wantKind string
	}{
		{"exact price", "/monsters/1/mint", testHolder, `{"value":"0.1"}`, http.StatusCreated, ""},
		{"overpayment", "/monsters/2/mint", testHolder, `{"value":"1"}`, http.StatusCreated, ""},
		{"already minted", "/monsters/1/mint", testOther, `{"value":"0.1"}`, http.StatusConflict, domain.ErrMsgAlreadyExists},
		{"underpayment", "/monsters/3/mint", testHolder, `{"value":"0.099999999999999999"}`, http.StatusPaymentRequired, domain.ErrMsgInsufficientPayment},
		{"reserved range", "/monsters/9801/mint", testHolder, `{"value":"0.1"}`, http.StatusBadRequest, domain.ErrMsgInvalidInput},
		{"zero id", "/monsters/0/mint", testHolder, `{"value":"0.1"}`, http.StatusBadRequest, domain.ErrMsgInvalidInput},
		{"missing caller", "/monsters/4/mint", "", `{"value":"0.1"}`, http.StatusBadRequest, ""},
		{"bad caller", "/monsters/4/mint", "0x1234", `{"value":"0.1"}`, http.StatusBadRequest, ""},
		{"bad ether", "/monsters/4/mint", testHolder, `{"value":"abc"}`, http.StatusBadRequest, ""},
		{"non-numeric id", "/monsters/abc/mint", testHolder, `{"value":"0.1"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, tt.path, tt.caller, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, decodeError(t, w).Kind)
			}
		})
	}
}

func TestHandleMint_ResponseBody(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/monsters/7/mint", testHolder, `{"value":"0.1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string          `json:"message"`
		Data    MonsterResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, MsgMonsterMinted, resp.Message)
	assert.Equal(t, domain.TokenID(7), resp.Data.ID)
	assert.Equal(t, domain.MustParseAddress(testHolder), resp.Data.Owner)
	assert.Equal(t, domain.StatusAlive, resp.Data.Status)
	assert.Nil(t, resp.Data.Slayer)
}

func TestHandleReservedMint(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/monsters/9801/reserved-mint", testHolder, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPost, "/monsters/9801/reserved-mint", testAdmin, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodPost, "/monsters/9800/reserved-mint", testAdmin, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/monsters/9801/reserved-mint", testAdmin, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleClaimWithLoot(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/loot/528/claim", testOther, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPost, "/loot/528/claim", testHolder, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodPost, "/loot/528/claim", testHolder, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodGet, "/monsters/528", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view monster.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.True(t, view.Minted)
}

func TestHandleSetName(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/monsters/1/mint", testHolder, `{"value":"0.1"}`).Code)

	w := do(t, h, http.MethodPut, "/monsters/1/name", testOther, `{"name":"Grendel"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPut, "/monsters/1/name", testHolder, `{"name":"`+strings.Repeat("a", 33)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, "/monsters/1/name", testHolder, `{"name":"Grendel"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPut, "/monsters/1/name", testHolder, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSlay(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/monsters/1/mint", testHolder, `{"value":"0.1"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/monsters/2/mint", testHolder, `{"value":"0.1"}`).Code)

	// monster 2 is a mimic, not weak to a Long Sword
	w := do(t, h, http.MethodPost, "/monsters/2/slay", testHolder, `{"loot_id":528,"name":"Nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, domain.ErrMsgIneligibleTarget, decodeError(t, w).Kind)

	w = do(t, h, http.MethodPost, "/monsters/1/slay", testOther, `{"loot_id":528,"name":"Thief"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPost, "/monsters/1/slay", testHolder, `{"loot_id":528,"name":"Grendel"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data MonsterResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusSlain, resp.Data.Status)
	assert.Equal(t, "Grendel", resp.Data.Name)
	require.NotNil(t, resp.Data.SlainWith)
	assert.Equal(t, domain.LootID(528), *resp.Data.SlainWith)
	require.NotNil(t, resp.Data.Slayer)
	assert.Equal(t, domain.MustParseAddress(testHolder), *resp.Data.Slayer)
	assert.Equal(t, domain.MustParseAddress(testHolder), resp.Data.Owner)

	w = do(t, h, http.MethodPost, "/monsters/1/slay", testHolder, `{"loot_id":528,"name":"Again"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.ErrMsgInvalidState, decodeError(t, w).Kind)

	w = do(t, h, http.MethodPost, "/monsters/1/slay", testHolder, `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleTransfer(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/monsters/1/mint", testHolder, `{"value":"0.1"}`).Code)

	w := do(t, h, http.MethodPost, "/monsters/1/transfer", testHolder, `{"to":"not-an-address"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/monsters/1/transfer", testOther, `{"to":"`+testOther+`"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPost, "/monsters/1/transfer", testHolder, `{"to":"`+testOther+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/owners/"+testOther+"/balance", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var bal BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bal))
	assert.Equal(t, 1, bal.Balance)
}

func TestHandleWithdraw(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/monsters/1/mint", testHolder, `{"value":"0.25"}`).Code)

	w := do(t, h, http.MethodPost, "/admin/withdraw", testHolder, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPost, "/admin/withdraw", testAdmin, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data WithdrawResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "250000000000000000", resp.Data.AmountWei)

	// custody is empty afterwards but a second withdrawal still succeeds
	w = do(t, h, http.MethodPost, "/admin/withdraw", testAdmin, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0", resp.Data.AmountWei)
}

func TestHandleGetMetadata(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/monsters/9999/metadata", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp MetadataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.TokenURI, render.JSONURIPrefix))

	doc, err := render.Decode(resp.TokenURI)
	require.NoError(t, err)
	assert.Equal(t, resp.Metadata, doc)

	w = do(t, h, http.MethodGet, "/monsters/10001/metadata", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetImage(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/monsters/1/image.svg", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<svg"))
	assert.Contains(t, w.Body.String(), render.LabelUnclaimed)
}

func TestHandleCanSlay(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/monsters/1/can-slay/528", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var check monster.SlayCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
	assert.True(t, check.CanSlay)

	w = do(t, h, http.MethodGet, "/monsters/1/can-slay/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/monsters/1/can-slay/8001", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetLoot(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/loot/528", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view monster.LootView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Long Sword", view.Weapon)
	assert.Equal(t, domain.MustParseAddress(testHolder), view.Owner)

	w = do(t, h, http.MethodGet, "/loot/9", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetCollection(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/monsters/1/mint", testHolder, `{"value":"0.1"}`).Code)

	w := do(t, h, http.MethodGet, "/collection", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var c monster.Collection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, domain.CollectionSymbol, c.Symbol)
	assert.Equal(t, 1, c.TotalSupply)
	assert.Equal(t, domain.MinPriceWei, c.CustodyWei)
}

func TestHandleGetBalance_InvalidAddress(t *testing.T) {
	h := newTestRouter(t)
	w := do(t, h, http.MethodGet, "/owners/nobody/balance", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrMsgInvalidAddress, decodeError(t, w).Error)
}
