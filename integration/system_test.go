//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

type cartView struct {
	UserID string `json:"user_id"`
	CartID string `json:"cart_id"`
	Items  []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	TotalItems int `json:"total_items"`
}

func TestSystem_E2E(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var search struct {
		Results []struct {
			Query   string `json:"query"`
			Matched bool   `json:"matched"`
			Product *struct {
				ID string `json:"id"`
			} `json:"product"`
		} `json:"results"`
	}
	doJSON(t, http.MethodPost, baseURL+"/search", map[string]any{
		"queries": []string{"concrete", "plywd", "zzzzzz"},
	}, &search, 200)
	if len(search.Results) != 3 {
		t.Fatalf("results=%d", len(search.Results))
	}
	if !search.Results[0].Matched || !search.Results[1].Matched || search.Results[2].Matched {
		t.Fatalf("unexpected match flags: %#v", search.Results)
	}

	user := fmt.Sprintf("e2e_%d_%d", time.Now().Unix(), rand.Intn(100000))

	var cart cartView
	doJSON(t, http.MethodPost, baseURL+"/cart/add", map[string]any{
		"user_id": user,
		"items": []map[string]any{
			{"product_id": "concrete_bag", "quantity": 5},
			{"product_id": "plywood_sheet", "quantity": 10},
		},
	}, &cart, 200)

	doJSON(t, http.MethodPost, baseURL+"/cart/remove", map[string]any{
		"user_id": user,
		"items":   []map[string]any{{"product_id": "concrete_bag", "quantity": 1}},
	}, &cart, 200)
	assertCart(t, cart, 4, 10)

	doJSON(t, http.MethodPost, baseURL+"/cart/add", map[string]any{
		"user_id": user,
		"items":   []map[string]any{{"product_id": "unobtainium", "quantity": 1}},
	}, nil, 404)

	if svc := os.Getenv("E2E_RESTART_SERVICE"); svc != "" {
		restartService(t, ctx, svc)
		waitReady(t, ctx, baseURL+"/readyz")

		var got cartView
		doJSON(t, http.MethodGet, baseURL+"/cart/"+user, nil, &got, 200)
		assertCart(t, got, 4, 10)
		if got.CartID != cart.CartID {
			t.Fatalf("cart id changed across restart: %s -> %s", cart.CartID, got.CartID)
		}
	}
}

func assertCart(t *testing.T, c cartView, concrete, plywood int) {
	t.Helper()

	qty := map[string]int{}
	for _, it := range c.Items {
		qty[it.ProductID] = it.Quantity
	}
	if len(qty) != 2 || qty["concrete_bag"] != concrete || qty["plywood_sheet"] != plywood {
		t.Fatalf("cart=%#v", c)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
