package columns

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetcheck/internal/table"
)

func sites() *table.Table {
	tbl := table.New("sites", []string{"ID", "Business Location", "Regional", "Owner"})
	tbl.AppendRow([]table.Cell{table.Text("1"), table.Text("France"), table.Text("EMEA"), table.Text("ann")})
	return tbl
}

func TestStatic(t *testing.T) {
	n, err := Static{Location: "A", Region: "B"}.Resolve(context.Background(), sites())
	require.NoError(t, err)
	assert.Equal(t, Names{Location: "A", Region: "B"}, n)

	_, err = Static{Location: "A"}.Resolve(context.Background(), sites())
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestHeader(t *testing.T) {
	n, err := Header{}.Resolve(context.Background(), sites())
	require.NoError(t, err)
	assert.Equal(t, Names{Location: "Business Location", Region: "Regional"}, n)

	tbl := table.New("x", []string{"Country", "Sales Region"})
	n, err = Header{}.Resolve(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, Names{Location: "Country", Region: "Sales Region"}, n)

	_, err = Header{}.Resolve(context.Background(), table.New("y", []string{"a", "b"}))
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestChain(t *testing.T) {
	ctx := context.Background()

	n, err := Chain{Static{}, Header{}}.Resolve(ctx, sites())
	require.NoError(t, err)
	assert.Equal(t, "Regional", n.Region)

	_, err = Chain{Static{}, Header{}}.Resolve(ctx, table.New("y", []string{"a"}))
	assert.ErrorIs(t, err, ErrUnresolved)

	_, err = Chain{}.Resolve(ctx, sites())
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestParseNames(t *testing.T) {
	tests := []struct {
		reply   string
		want    Names
		wantErr bool
	}{
		{
			reply: "location_column: Business Location, regional_column: Regional",
			want:  Names{Location: "Business Location", Region: "Regional"},
		},
		{
			reply: "'location_column: Country, regional_column: Region'",
			want:  Names{Location: "Country", Region: "Region"},
		},
		{
			reply: "Sure!\nLocation_Column: `Site`, Regional_Column: `Geo`.\nHope this helps.",
			want:  Names{Location: "Site", Region: "Geo"},
		},
		{reply: "I cannot tell.", wantErr: true},
		{reply: "location_column: , regional_column: Region", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseNames(tt.reply)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnresolved, tt.reply)
			continue
		}
		require.NoError(t, err, tt.reply)
		assert.Equal(t, tt.want, got)
	}
}

func TestPrompt(t *testing.T) {
	p := Prompt(sites())
	assert.Contains(t, p, "Given these column names: ID, Business Location, Regional, Owner")
	assert.Contains(t, p, "France")
	assert.Contains(t, p, "'location_column: <name>, regional_column: <name>'")
}

func chatServer(t *testing.T, statuses []int, reply string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, systemPrompt, req.Messages[0].Content)
		}

		i := int(atomic.AddInt32(calls, 1)) - 1
		if i < len(statuses) {
			w.WriteHeader(statuses[i])
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "busy"}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": reply}}},
		})
	}))
}

func testChat(url string) *Chat {
	return NewChat(ChatConfig{
		BaseURL:     url + "/",
		APIKey:      "secret",
		Model:       "test-model",
		Timeout:     2 * time.Second,
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	})
}

func TestChat_Resolve(t *testing.T) {
	var calls int32
	srv := chatServer(t, nil, "location_column: Business Location, regional_column: Regional", &calls)
	defer srv.Close()

	n, err := testChat(srv.URL).Resolve(context.Background(), sites())
	require.NoError(t, err)
	assert.Equal(t, Names{Location: "Business Location", Region: "Regional"}, n)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestChat_RetriesTransientErrors(t *testing.T) {
	var calls int32
	srv := chatServer(t, []int{http.StatusTooManyRequests, http.StatusBadGateway}, "location_column: A, regional_column: B", &calls)
	defer srv.Close()

	n, err := testChat(srv.URL).Resolve(context.Background(), sites())
	require.NoError(t, err)
	assert.Equal(t, Names{Location: "A", Region: "B"}, n)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestChat_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := chatServer(t, []int{http.StatusUnauthorized}, "unused", &calls)
	defer srv.Close()

	_, err := testChat(srv.URL).Resolve(context.Background(), sites())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "busy", apiErr.Message)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestChat_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := chatServer(t, []int{500, 500, 500, 500}, "unused", &calls)
	defer srv.Close()

	_, err := testChat(srv.URL).Resolve(context.Background(), sites())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "status=500"))
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestChat_NotConfigured(t *testing.T) {
	_, err := NewChat(ChatConfig{}).Resolve(context.Background(), sites())
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestBuild(t *testing.T) {
	r, err := Build(ModeNone, Names{}, ChatConfig{})
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = Build(ModeHeader, Names{}, ChatConfig{})
	require.NoError(t, err)
	assert.Equal(t, Header{}, r)

	r, err = Build(ModeNone, Names{Location: "Site", Region: "Geo"}, ChatConfig{})
	require.NoError(t, err)
	assert.Equal(t, Static{Location: "Site", Region: "Geo"}, r)

	r, err = Build(ModeChat, Names{}, ChatConfig{BaseURL: "http://llm.invalid", Model: "m"})
	require.NoError(t, err)
	chain, ok := r.(Chain)
	require.True(t, ok, "chat mode should build a chain")
	require.Len(t, chain, 2)
	assert.IsType(t, &Chat{}, chain[0])
	assert.Equal(t, Header{}, chain[1])

	_, err = Build("psychic", Names{}, ChatConfig{})
	assert.Error(t, err)
}
