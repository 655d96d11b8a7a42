package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// proxyDB builds a Database without dialing; the driver connects lazily and
// the validation branches under test never issue an operation.
func proxyDB(t *testing.T) *mongo.Database {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("eventhorizon_test")
}

func doAction(t *testing.T, h *Handler, action, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/action/"+action, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Action(rec, req, httprouter.Params{{Key: "action", Value: action}})
	return rec
}

func TestActionUnknownIsBadRequest(t *testing.T) {
	h := NewHandler(proxyDB(t))
	rec := doAction(t, h, "frobnicate", `{"collection":"events"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "Unknown action: frobnicate" {
		t.Fatalf("error = %q, want %q", resp["error"], "Unknown action: frobnicate")
	}
}

func TestActionMissingCollectionIsBadRequest(t *testing.T) {
	h := NewHandler(proxyDB(t))
	rec := doAction(t, h, "find", `{"filter":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing collection") {
		t.Fatalf("body = %q, want Missing collection", rec.Body.String())
	}
}

func TestActionInvalidJSONIsBadRequest(t *testing.T) {
	h := NewHandler(proxyDB(t))
	rec := doAction(t, h, "find", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestActionInsertOneWithoutDocumentIsBadRequest(t *testing.T) {
	h := NewHandler(proxyDB(t))
	rec := doAction(t, h, "insertOne", `{"collection":"events"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing document") {
		t.Fatalf("body = %q, want Missing document", rec.Body.String())
	}
}

func TestActionWithoutMongoIsUnavailable(t *testing.T) {
	h := NewHandler(nil)
	rec := doAction(t, h, "find", `{"collection":"events"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", rec.Code)
	}
}
