//go:build e2e

package e2e_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/rogpeppe/go-internal/testscript"
)

const fakeToken = "e2e-token"

// neighborhood: alice is mutual with bob and carol, who are mutual with each
// other. dave follows alice without being followed back.
var (
	fakeHandles = map[string]string{"alice.test": "did:plc:alice"}
	fakeNames   = map[string]string{
		"did:plc:alice": "Alice",
		"did:plc:bob":   "Bob",
		"did:plc:carol": "Carol",
	}
	fakeFollowers = map[string][][]string{
		"did:plc:alice": {{"did:plc:bob", "did:plc:dave"}, {"did:plc:carol"}},
		"did:plc:bob":   {{"did:plc:alice", "did:plc:carol"}},
		"did:plc:carol": {{"did:plc:alice", "did:plc:bob"}},
	}
	fakeFollows = map[string][][]string{
		"did:plc:alice": {{"did:plc:bob", "did:plc:carol"}},
		"did:plc:bob":   {{"did:plc:alice"}, {"did:plc:carol"}},
		"did:plc:carol": {{"did:plc:alice", "did:plc:bob"}},
	}
)

// cmdFakePDS starts an in-process XRPC server for the rest of the script and
// points MUTUALS_SERVICE at it.
func cmdFakePDS(ts *testscript.TestScript, neg bool, _ []string) {
	if neg {
		ts.Fatalf("unsupported: ! fakepds")
	}

	srv := httptest.NewServer(fakePDSHandler())
	ts.Defer(srv.Close)
	ts.Setenv("MUTUALS_SERVICE", srv.URL)
}

func fakePDSHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Identifier string `json:"identifier"`
			Password   string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password != "app-password" {
			reply(w, http.StatusUnauthorized, map[string]string{"error": "AuthenticationRequired", "message": "Invalid identifier or password"})
			return
		}
		reply(w, http.StatusOK, map[string]string{"accessJwt": fakeToken, "did": "did:plc:me"})
	})

	mux.HandleFunc("GET /xrpc/com.atproto.identity.resolveHandle", func(w http.ResponseWriter, r *http.Request) {
		did, ok := fakeHandles[r.URL.Query().Get("handle")]
		if !ok {
			reply(w, http.StatusBadRequest, map[string]string{"error": "InvalidRequest", "message": "Unable to resolve handle"})
			return
		}
		reply(w, http.StatusOK, map[string]string{"did": did})
	})

	mux.HandleFunc("GET /xrpc/app.bsky.actor.getProfile", authed(func(w http.ResponseWriter, r *http.Request) {
		actor := r.URL.Query().Get("actor")
		reply(w, http.StatusOK, map[string]string{"did": actor, "displayName": fakeNames[actor]})
	}))

	mux.HandleFunc("GET /xrpc/app.bsky.graph.getFollowers", authed(listHandler("followers", fakeFollowers)))
	mux.HandleFunc("GET /xrpc/app.bsky.graph.getFollows", authed(listHandler("follows", fakeFollows)))

	return mux
}

func listHandler(key string, pages map[string][][]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		all := pages[q.Get("actor")]

		index := 0
		if cursor := q.Get("cursor"); cursor != "" {
			index = int(cursor[0] - '0')
		}

		var items []map[string]string
		if index < len(all) {
			for _, did := range all[index] {
				items = append(items, map[string]string{"did": did})
			}
		}

		body := map[string]any{key: items}
		if index+1 < len(all) {
			body["cursor"] = string(rune('0' + index + 1))
		}
		reply(w, http.StatusOK, body)
	}
}

func authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fakeToken {
			reply(w, http.StatusUnauthorized, map[string]string{"error": "AuthMissing"})
			return
		}
		next(w, r)
	}
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
