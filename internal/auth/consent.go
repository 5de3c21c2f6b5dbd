package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	mcpoauth "github.com/giantswarm/mcp-oauth"
	"golang.org/x/oauth2"
)

// ConsentFunc obtains a fresh token through user interaction.
type ConsentFunc func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)

// DefaultConsentTimeout bounds how long the loopback listener waits for the
// browser to come back.
const DefaultConsentTimeout = 5 * time.Minute

// BrowserOpener opens url in the user's browser.
type BrowserOpener func(url string) error

// LoopbackConsent runs the installed-app flow: a one-shot HTTP listener on
// 127.0.0.1 with an OS-assigned port receives the authorization code, which
// is then exchanged using PKCE.
func LoopbackConsent(logger *slog.Logger, open BrowserOpener, timeout time.Duration) ConsentFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if open == nil {
		open = OpenBrowser
	}
	if timeout <= 0 {
		timeout = DefaultConsentTimeout
	}

	return func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return nil, fmt.Errorf("failed to start callback listener: %w", err)
		}

		port := listener.Addr().(*net.TCPAddr).Port
		flowConf := *conf
		flowConf.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d/", port)

		state, err := randomState()
		if err != nil {
			listener.Close()
			return nil, err
		}
		verifier := oauth2.GenerateVerifier()

		codes := make(chan callbackOutcome, 1)
		srv := &http.Server{
			Handler:           callbackHandler(state, codes),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				select {
				case codes <- callbackOutcome{err: err}:
				default:
				}
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		authURL := flowConf.AuthCodeURL(state,
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("prompt", "consent"),
			oauth2.S256ChallengeOption(verifier),
		)
		logger.Info("open this URL to authorize YouTube access", "url", authURL)
		if err := open(authURL); err != nil {
			logger.Warn("failed to open browser, visit the URL manually", "error", err)
		}

		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var outcome callbackOutcome
		select {
		case outcome = <-codes:
		case <-waitCtx.Done():
			return nil, fmt.Errorf("timed out waiting for authorization: %w", waitCtx.Err())
		}
		if outcome.err != nil {
			return nil, outcome.err
		}

		tok, err := flowConf.Exchange(ctx, outcome.code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
		}
		return tok, nil
	}
}

type callbackOutcome struct {
	code string
	err  error
}

func callbackHandler(state string, out chan<- callbackOutcome) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("code") == "" && q.Get("error") == "" {
			http.NotFound(w, r)
			return
		}

		result := mcpoauth.ParseCallbackQuery(
			q.Get("code"),
			q.Get("state"),
			q.Get("error"),
			q.Get("error_description"),
			q.Get("error_uri"),
		)

		err := result.Err()
		if err == nil && result.State != state {
			err = errors.New("state mismatch in authorization callback")
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `<!DOCTYPE html>
<html><head><title>Authorization Failed</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 50px;">
<h1>Authorization failed</h1>
<p>%s</p>
<p>You can close this window.</p>
</body></html>`, html.EscapeString(err.Error()))
		} else {
			fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Authorization Successful</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 50px;">
<h1>YouTube access granted</h1>
<p>You can close this window and return to your assistant.</p>
</body></html>`)
		}

		select {
		case out <- callbackOutcome{code: result.Code, err: err}:
		default:
		}
	})
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// OpenBrowser launches the platform's URL handler.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
