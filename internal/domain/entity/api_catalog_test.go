package entity

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAPICatalog_JSONKeepsOrderAndKeys(t *testing.T) {
	c := &APICatalog{APIs: []APIEntry{
		{ID: "z-9", Name: "Search Service", Method: "GET", Path: "/v3/search"},
		{ID: "a-1", Name: "Auth Service", Method: "POST", Path: "/v1/auth/token"},
	}}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.HasPrefix(string(data), `{"apiList":{"z-9":{`) {
		t.Fatalf("unexpected document: %s", data)
	}

	var back APICatalog
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(back.APIs) != 2 || back.APIs[0].ID != "z-9" || back.APIs[1].ID != "a-1" {
		t.Fatalf("order lost: %+v", back.APIs)
	}
}

func TestAPICatalog_UnmarshalTakesIDFromKey(t *testing.T) {
	doc := `{"apiList":{"k-1":{"name":"Orders Service","method":"GET","path":"/v1/orders"}}}`

	var c APICatalog
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(c.APIs) != 1 || c.APIs[0].ID != "k-1" {
		t.Fatalf("APIs = %+v, want id from key", c.APIs)
	}
}

func TestAPICatalog_UnmarshalEmpty(t *testing.T) {
	for _, doc := range []string{`{}`, `{"apiList":null}`, `{"apiList":{}}`} {
		var c APICatalog
		if err := json.Unmarshal([]byte(doc), &c); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", doc, err)
		}
		if c.APIs == nil || len(c.APIs) != 0 {
			t.Errorf("Unmarshal(%s) APIs = %v, want empty", doc, c.APIs)
		}
	}

	var c APICatalog
	if err := json.Unmarshal([]byte(`{"apiList":[]}`), &c); err == nil {
		t.Error("array apiList accepted")
	}
}

func TestAPICatalog_HasRoute(t *testing.T) {
	c := &APICatalog{APIs: []APIEntry{{ID: "a", Name: "Auth Service", Method: "POST", Path: "/v1/auth/token"}}}

	tests := []struct {
		name string
		api  APIEntry
		want bool
	}{
		{"same route other id", APIEntry{ID: "b", Name: "Auth Service", Method: "POST", Path: "/v1/auth/token"}, true},
		{"same record", APIEntry{ID: "a", Name: "Auth Service", Method: "POST", Path: "/v1/auth/token"}, false},
		{"other method", APIEntry{ID: "b", Name: "Auth Service", Method: "GET", Path: "/v1/auth/token"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HasRoute(tt.api); got != tt.want {
				t.Errorf("HasRoute() = %v, want %v", got, tt.want)
			}
		})
	}
}
