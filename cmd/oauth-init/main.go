// Command oauth-init walks through the Google OAuth consent flow once
// and saves the resulting token to disk. Run it when exporting the
// ledger to a spreadsheet on a personal Google account instead of a
// service account.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const defaultRedirectPort = "8085"

func main() {
	cfg, err := loadOAuthConfig()
	if err != nil {
		log.Fatalf("oauth-init: %v", err)
	}

	port := os.Getenv("OAUTH_REDIRECT_PORT")
	if port == "" {
		port = defaultRedirectPort
	}
	// The OAuth client must list this URI among its authorized redirects.
	cfg.RedirectURL = "http://localhost:" + port + "/callback"

	code, err := waitForAuthCode(cfg, port)
	if err != nil {
		log.Fatalf("oauth-init: %v", err)
	}

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		log.Fatalf("oauth-init: token exchange: %v", err)
	}
	if err := saveToken(token); err != nil {
		log.Fatalf("oauth-init: %v", err)
	}
}

// loadOAuthConfig reads the client credentials from the environment,
// preferring inline JSON over a file path.
func loadOAuthConfig() (*oauth2.Config, error) {
	var raw []byte
	switch {
	case os.Getenv("GOOGLE_OAUTH_CLIENT_JSON") != "":
		raw = []byte(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	case os.Getenv("GOOGLE_OAUTH_CLIENT_FILE") != "":
		b, err := os.ReadFile(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
		if err != nil {
			return nil, fmt.Errorf("read client file: %w", err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}

	cfg, err := google.ConfigFromJSON(raw, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client config: %w", err)
	}
	return cfg, nil
}

// waitForAuthCode prints the consent URL and runs a throwaway local
// server until Google redirects back with an authorization code.
func waitForAuthCode(cfg *oauth2.Config, port string) (string, error) {
	codeCh := make(chan string, 1)

	mux := http.NewServeMux()
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "authorization failed: "+errStr, http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authorized. You can close this window.")
		codeCh <- r.URL.Query().Get("code")
		go func() {
			time.Sleep(500 * time.Millisecond)
			_ = srv.Close()
		}()
	})
	go func() { _ = srv.ListenAndServe() }()

	fmt.Printf("Open this URL to authorize financehub:\n%s\n", cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case code := <-codeCh:
		return code, nil
	case <-time.After(5 * time.Minute):
		return "", fmt.Errorf("authorization timed out")
	case <-interrupt:
		return "", fmt.Errorf("interrupted")
	}
}

func saveToken(token *oauth2.Token) error {
	path := os.Getenv("GOOGLE_OAUTH_TOKEN_FILE")
	if path == "" {
		path = "token.json"
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	fmt.Printf("Saved token to %s\n", path)
	return nil
}
