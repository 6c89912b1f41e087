package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskless-finance/riskless/api/service"
	"github.com/riskless-finance/riskless/contract/factory"
	"github.com/riskless-finance/riskless/contract/project"
	"github.com/riskless-finance/riskless/host"
	"github.com/riskless-finance/riskless/ledger/memkv"
	"github.com/riskless-finance/riskless/moneymarket"
)

const startTime = int64(1_662_105_262)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	h := host.New(memkv.New())
	h.SetClock(func() time.Time {
		return time.Unix(startTime, 0).UTC()
	})
	h.Register("factory", factory.New())
	h.Register("project", project.New(moneymarket.Noop{}))

	anchor, aust := "anchor1", "aust1"
	factoryAddr, err := h.Instantiate(
		context.Background(),
		"factory",
		"admin",
		&factory.InstantiateMsg{
			ProjectCodeID:            "project",
			AnchorMoneyMarketAddress: &anchor,
			AUstAddress:              &aust,
		},
	)
	require.NoError(t, err)

	return New(0, service.New(h, factoryAddr))
}

type apiResp struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(
	t *testing.T,
	s *Server,
	method string,
	path string,
	body interface{},
) *apiResp {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		bz, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(bz)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/riskless/v1/"+path, reader)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	resp := &apiResp{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), resp))
	return resp
}

func createFilm1(t *testing.T, s *Server) string {
	t.Helper()

	resp := do(t, s, http.MethodPost, "projects", map[string]interface{}{
		"sender":                  "creator",
		"name":                    "film1",
		"target_principal_amount": 1_000_000_000,
		"target_yield_amount":     200_000_000,
		"fund_deadline":           startTime + 30*24*3600,
	})
	require.Equal(t, 0, resp.Code)

	created := struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}{}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.Equal(t, "film1", created.Name)
	require.NotEmpty(t, created.Address)

	return created.Address
}

func TestPing(t *testing.T) {
	resp := do(t, newTestServer(t), http.MethodGet, "ping", nil)
	require.Equal(t, 0, resp.Code)
	require.JSONEq(t, `{"pong":"pong"}`, string(resp.Data))
}

func TestCreateFundAndQuery(t *testing.T) {
	s := newTestServer(t)
	address := createFilm1(t, s)

	resp := do(t, s, http.MethodGet, "project-address?name=film1", nil)
	require.Equal(t, 0, resp.Code)
	require.JSONEq(t, `{"address":"`+address+`"}`, string(resp.Data))

	resp = do(t, s, http.MethodPost, "fund", map[string]interface{}{
		"sender": "backer1",
		"name":   "film1",
		"funds": []map[string]interface{}{
			{"denom": "uusd", "amount": 20_000_000},
		},
	})
	require.Equal(t, 0, resp.Code)

	resp = do(t, s, http.MethodGet, "user-balance?name=film1&user=backer1", nil)
	require.Equal(t, 0, resp.Code)
	require.JSONEq(t, `{"user_balance":20000000}`, string(resp.Data))

	resp = do(t, s, http.MethodGet, "project-status?name=film1", nil)
	require.Equal(t, 0, resp.Code)

	status := struct {
		Name            string `json:"name"`
		ProjectStatus   string `json:"project_status"`
		PrincipalAmount uint64 `json:"principal_amount"`
	}{}
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	require.Equal(t, "film1", status.Name)
	require.Equal(t, "funding_in_progress", status.ProjectStatus)
	require.Equal(t, uint64(20_000_000), status.PrincipalAmount)

	resp = do(t, s, http.MethodGet, "projects", nil)
	require.Equal(t, 0, resp.Code)
	require.JSONEq(t,
		`{"projects":[{"name":"film1","address":"`+address+`"}]}`,
		string(resp.Data),
	)
}

func TestErrorCodes(t *testing.T) {
	s := newTestServer(t)
	createFilm1(t, s)

	testCases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		code   int
	}{
		{
			name:   "duplicate project name",
			method: http.MethodPost,
			path:   "projects",
			body: map[string]interface{}{
				"sender":                  "creator",
				"name":                    "film1",
				"target_principal_amount": 1,
				"target_yield_amount":     1,
				"fund_deadline":           startTime + 60,
			},
			code: service.ErrorCode[factory.ErrDuplicateProject],
		},
		{
			name:   "unknown project",
			method: http.MethodGet,
			path:   "project-address?name=ghost",
			code:   service.ErrorCode[factory.ErrNotFound],
		},
		{
			name:   "deposit below minimum",
			method: http.MethodPost,
			path:   "fund",
			body: map[string]interface{}{
				"sender": "backer1",
				"name":   "film1",
				"funds": []map[string]interface{}{
					{"denom": "uusd", "amount": 1},
				},
			},
			code: service.ErrorCode[project.ErrDepositMinimum],
		},
		{
			name:   "withdraw without backing",
			method: http.MethodPost,
			path:   "withdraw-principal",
			body: map[string]interface{}{
				"sender": "stranger",
				"name":   "film1",
			},
			code: service.ErrorCode[project.ErrNoBackingFound],
		},
		{
			name:   "missing project name",
			method: http.MethodGet,
			path:   "project-status",
			code:   1001,
		},
		{
			name:   "missing user",
			method: http.MethodGet,
			path:   "user-balance?name=film1",
			code:   1002,
		},
		{
			name:   "malformed request body",
			method: http.MethodPost,
			path:   "fund",
			body:   map[string]interface{}{"sender": "backer1"},
			code:   service.ErrorCode[service.ErrSystem],
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, s, tc.method, tc.path, tc.body)
			require.Equal(t, tc.code, resp.Code)
			require.NotEmpty(t, resp.Message)
		})
	}
}

func TestRetryableRefusalIsSuccess(t *testing.T) {
	s := newTestServer(t)
	createFilm1(t, s)

	resp := do(t, s, http.MethodPost, "fund", map[string]interface{}{
		"sender": "backer1",
		"name":   "film1",
		"funds": []map[string]interface{}{
			{"denom": "uusd", "amount": 20_000_000},
		},
	})
	require.Equal(t, 0, resp.Code)

	// Off-track yield withdrawals refuse without failing; the refusal
	// surfaces as a status attribute on a code-zero response.
	resp = do(t, s, http.MethodPost, "withdraw-yield", map[string]interface{}{
		"sender": "creator",
		"name":   "film1",
	})
	require.Equal(t, 0, resp.Code)

	exec := struct {
		Attributes []struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		} `json:"attributes"`
	}{}
	require.NoError(t, json.Unmarshal(resp.Data, &exec))

	found := false
	for _, a := range exec.Attributes {
		if a.Key == "status" {
			found = true
			require.Contains(t, a.Value, "cannot withdraw yield")
		}
	}
	require.True(t, found)
}
