package loot

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/domain"
)

type nodeRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// newNode serves eth_call with respond, which returns the JSON of either a result or an error member.
func newNode(t *testing.T, respond func(req nodeRequest) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode rpc request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		body := respond(req)
		if !strings.HasPrefix(body, `"`) && !strings.HasPrefix(body, `{`) {
			_, _ = w.Write([]byte(body))
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,` + body + `}`))
	}))
}

func dialNode(t *testing.T, srv *httptest.Server) *RPCOracle {
	t.Helper()
	o, err := DialRPCOracle(context.Background(), srv.URL, domain.MustParseAddress(domain.LootContractMainnet), 0)
	require.NoError(t, err)
	t.Cleanup(o.Close)
	return o
}

func ownerWord(addr domain.Address) string {
	return `"result":"0x` + strings.Repeat("00", 12) + hex.EncodeToString(addr[:]) + `"`
}

func TestRPCOracle_OwnerOf(t *testing.T) {
	var seen nodeRequest
	srv := newNode(t, func(req nodeRequest) string {
		seen = req
		return ownerWord(holder)
	})
	defer srv.Close()

	owner, err := dialNode(t, srv).OwnerOf(context.Background(), 528)
	require.NoError(t, err)
	assert.Equal(t, holder, owner)

	assert.Equal(t, "eth_call", seen.Method)
	require.Len(t, seen.Params, 2)
	var call map[string]string
	require.NoError(t, json.Unmarshal(seen.Params[0], &call))
	assert.True(t, strings.EqualFold(domain.LootContractMainnet, call["to"]))
	input := call["input"]
	if input == "" {
		input = call["data"]
	}
	assert.Equal(t, "0x6352211e"+strings.Repeat("0", 61)+"210", input)
	assert.JSONEq(t, `"latest"`, string(seen.Params[1]))
}

func TestRPCOracle_RevertMeansUnowned(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"revert code", `"error":{"code":3,"message":"execution reverted: ERC721: owner query for nonexistent token"}`},
		{"revert message", `"error":{"code":-32000,"message":"execution reverted"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newNode(t, func(nodeRequest) string { return tt.body })
			defer srv.Close()

			adapter := NewAdapter(dialNode(t, srv))
			_, err := adapter.OwnerOf(context.Background(), 7999)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestRPCOracle_NodeErrorsAreNotUnowned(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"rate limited", `"error":{"code":-32005,"message":"daily request count exceeded, request rate limited"}`},
		{"internal", `"error":{"code":-32603,"message":"header not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newNode(t, func(nodeRequest) string { return tt.body })
			defer srv.Close()

			adapter := NewAdapter(dialNode(t, srv))
			_, err := adapter.OwnerOf(context.Background(), 528)
			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrNotFound)
			assert.Equal(t, domain.ErrMsgInternal, domain.ErrorKind(err))
			assert.ErrorContains(t, err, ErrMsgRPCRequestFailed)
		})
	}
}

func TestRPCOracle_BadResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short result", `"result":"0x01"`},
		{"empty result", `"result":"0x"`},
		{"not hex", `"result":"0xzz"`},
		{"not json", `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newNode(t, func(nodeRequest) string { return tt.body })
			defer srv.Close()

			_, err := dialNode(t, srv).OwnerOf(context.Background(), 1)
			assert.Error(t, err)
		})
	}
}

func TestRPCOracle_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := dialNode(t, srv).OwnerOf(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

type stubCaller struct {
	msg ethereum.CallMsg
	out []byte
	err error
}

func (s *stubCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	s.msg = msg
	return s.out, s.err
}

func TestNewRPCOracle_PacksOwnerOf(t *testing.T) {
	contract := domain.MustParseAddress(domain.LootContractMainnet)
	out := make([]byte, 32)
	copy(out[12:], holder[:])
	caller := &stubCaller{out: out}

	owner, err := NewRPCOracle(caller, contract).OwnerOf(context.Background(), 528)
	require.NoError(t, err)
	assert.Equal(t, holder, owner)
	require.NotNil(t, caller.msg.To)
	assert.Equal(t, contract, domain.Address(*caller.msg.To))
	assert.Equal(t, "6352211e"+strings.Repeat("0", 61)+"210", hex.EncodeToString(caller.msg.Data))
}

func TestNewRPCOracle_TransportError(t *testing.T) {
	caller := &stubCaller{err: errors.New("connection refused")}

	_, err := NewRPCOracle(caller, domain.MustParseAddress(domain.LootContractMainnet)).OwnerOf(context.Background(), 528)
	require.Error(t, err)
	assert.Equal(t, domain.ErrMsgInternal, domain.ErrorKind(err))
}
