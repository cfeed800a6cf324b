package hcloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// testServer mocks the Hetzner Cloud API over HTTP.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

func newTestServer() *testServer {
	mux := http.NewServeMux()
	return &testServer{
		server: httptest.NewServer(mux),
		mux:    mux,
	}
}

func (ts *testServer) close() {
	ts.server.Close()
}

func (ts *testServer) realClient() *RealClient {
	hc := hcloud.NewClient(
		hcloud.WithToken("test-token"),
		hcloud.WithEndpoint(ts.server.URL),
	)
	return NewRealClient("test-token", WithHCloudClient(hc))
}

func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRealClient_CreateSSHKey(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.mux.HandleFunc("/ssh_keys", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		jsonResponse(w, http.StatusCreated, map[string]interface{}{
			"ssh_key": map[string]interface{}{
				"id":          101,
				"name":        "hostforge-20260826",
				"fingerprint": "aa:bb:cc:dd",
				"public_key":  "ssh-ed25519 AAAA test",
			},
		})
	})

	key, err := ts.realClient().CreateSSHKey(context.Background(), "hostforge-20260826", "ssh-ed25519 AAAA test")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if key.ID != 101 {
		t.Errorf("expected ID 101, got %d", key.ID)
	}
	if key.Fingerprint != "aa:bb:cc:dd" {
		t.Errorf("expected fingerprint from response, got %q", key.Fingerprint)
	}
}

func TestRealClient_CreateSSHKey_Duplicate(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.mux.HandleFunc("/ssh_keys", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusConflict, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    "uniqueness_error",
				"message": "SSH key with the same fingerprint already exists",
			},
		})
	})

	_, err := ts.realClient().CreateSSHKey(context.Background(), "dup", "ssh-ed25519 AAAA test")
	if err == nil {
		t.Fatal("expected error for duplicate key")
	}
	if !IsUniquenessError(err) {
		t.Errorf("expected uniqueness error classification, got: %v", err)
	}
}

func TestRealClient_GetSSHKeyByFingerprint(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.mux.HandleFunc("/ssh_keys", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fingerprint") == "aa:bb:cc:dd" {
			jsonResponse(w, http.StatusOK, map[string]interface{}{
				"ssh_keys": []map[string]interface{}{{
					"id":          77,
					"name":        "older-run",
					"fingerprint": "aa:bb:cc:dd",
				}},
			})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{"ssh_keys": []interface{}{}})
	})

	client := ts.realClient()

	key, err := client.GetSSHKeyByFingerprint(context.Background(), "aa:bb:cc:dd")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if key == nil || key.ID != 77 {
		t.Fatalf("expected key 77, got: %+v", key)
	}

	missing, err := client.GetSSHKeyByFingerprint(context.Background(), "00:00:00:00")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown fingerprint, got: %+v", missing)
	}
}

func TestRealClient_CreateServer(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.mux.HandleFunc("/server_types", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]interface{}{
			"server_types": []map[string]interface{}{{
				"id":           1,
				"name":         "cx22",
				"architecture": "x86",
			}},
		})
	})
	ts.mux.HandleFunc("/images", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]interface{}{
			"images": []map[string]interface{}{{
				"id":           3,
				"name":         "ubuntu-24.04",
				"type":         "system",
				"architecture": "x86",
			}},
		})
	})
	ts.mux.HandleFunc("/locations", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]interface{}{
			"locations": []map[string]interface{}{{
				"id":   2,
				"name": "fsn1",
			}},
		})
	})
	ts.mux.HandleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		jsonResponse(w, http.StatusCreated, map[string]interface{}{
			"server": map[string]interface{}{
				"id":     42,
				"name":   "hostforge-ab12c",
				"status": "initializing",
				"public_net": map[string]interface{}{
					"ipv4": map[string]interface{}{
						"ip": "203.0.113.7",
					},
				},
			},
			"action":       map[string]interface{}{"id": 1, "status": "running"},
			"next_actions": []interface{}{},
		})
	})

	server, err := ts.realClient().CreateServer(context.Background(), ServerCreateOpts{
		Name:       "hostforge-ab12c",
		ServerType: "cx22",
		Image:      "ubuntu-24.04",
		Location:   "fsn1",
		SSHKeyIDs:  []int64{101},
		Start:      true,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if server.ID != 42 {
		t.Errorf("expected server ID 42, got %d", server.ID)
	}
	if server.PublicIPv4 != "203.0.113.7" {
		t.Errorf("expected assigned address, got %q", server.PublicIPv4)
	}
}

func TestRealClient_GetServerByName_NotFound(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.mux.HandleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]interface{}{"servers": []interface{}{}})
	})

	server, err := ts.realClient().GetServerByName(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if server != nil {
		t.Errorf("expected nil for missing server, got: %+v", server)
	}
}
