package notion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"watchsync/feature/watchlist/models"
)

const queryPageOne = `{
	"results": [{
		"id": "page-1",
		"properties": {
			"Title": {"title": [{"plain_text": "Aftersun"}]},
			"Runtime": {"rich_text": [{"plain_text": "1:42"}]},
			"Location": {"rich_text": [{"plain_text": "Netflix"}]},
			"Year": {"number": 2022},
			"Letterboxd ID": {"rich_text": [{"plain_text": "714840"}]},
			"Letterboxd Link": {"url": "https://letterboxd.com/film/aftersun/"}
		}
	}],
	"has_more": true,
	"next_cursor": "cursor-2"
}`

const queryPageTwo = `{
	"results": [{
		"id": "page-2",
		"properties": {
			"Title": {"title": []},
			"Runtime": {"rich_text": []},
			"Location": {"rich_text": []},
			"Year": {"number": null},
			"Letterboxd ID": {"rich_text": []},
			"Letterboxd Link": {"url": null}
		}
	}],
	"has_more": false,
	"next_cursor": null
}`

func testClient(server *httptest.Server) *Client {
	return New(Config{
		Token:          "secret-token",
		DatabaseID:     "db-1",
		BaseURL:        server.URL,
		Version:        "2022-06-28",
		TimeoutSeconds: 5,
	}, zap.NewNop())
}

func TestListMovies(t *testing.T) {
	var cursors []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/databases/db-1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))

		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		cursors = append(cursors, req["start_cursor"])

		w.Header().Set("Content-Type", "application/json")
		if req["start_cursor"] == "" {
			fmt.Fprint(w, queryPageOne)
		} else {
			fmt.Fprint(w, queryPageTwo)
		}
	}))
	defer server.Close()

	records, err := testClient(server).ListMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"", "cursor-2"}, cursors)

	assert.Equal(t, models.MovieRecord{
		Title:          "Aftersun",
		Runtime:        "1:42",
		Location:       "Netflix",
		Year:           2022,
		LetterboxdID:   "714840",
		LetterboxdLink: "https://letterboxd.com/film/aftersun/",
		WorkspaceID:    "page-1",
	}, records[0])

	// Empty property arrays read as zero values, never as an error.
	assert.Equal(t, models.MovieRecord{WorkspaceID: "page-2"}, records[1])
}

func TestInsert(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/pages", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	record := models.MovieRecord{
		Title:          "Aftersun",
		Runtime:        "1:42",
		Location:       "Rent $3.99",
		Year:           2022,
		LetterboxdID:   "714840",
		LetterboxdLink: "https://letterboxd.com/film/aftersun/",
	}
	require.NoError(t, testClient(server).Insert(context.Background(), record))

	parent := payload["parent"].(map[string]any)
	assert.Equal(t, "db-1", parent["database_id"])

	props := payload["properties"].(map[string]any)
	title := props["Title"].(map[string]any)["title"].([]any)[0].(map[string]any)
	assert.Equal(t, "Aftersun", title["text"].(map[string]any)["content"])
	assert.Equal(t, float64(2022), props["Year"].(map[string]any)["number"])
	assert.Equal(t, "https://letterboxd.com/film/aftersun/", props["Letterboxd Link"].(map[string]any)["url"])
}

func TestDelete(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	record := models.MovieRecord{Title: "Aftersun", WorkspaceID: "page-1"}
	require.NoError(t, testClient(server).Delete(context.Background(), record))
	assert.Equal(t, "/v1/blocks/page-1", path)
}

func TestDelete_MissingWorkspaceID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent")
	}))
	defer server.Close()

	err := testClient(server).Delete(context.Background(), models.MovieRecord{Title: "Aftersun"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no workspace id")
}

func TestErrorStatusSurfacesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "API token is invalid."}`)
	}))
	defer server.Close()

	_, err := testClient(server).ListMovies(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "API token is invalid")
}
