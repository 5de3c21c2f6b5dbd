// Package auth manages the OAuth credential used to call the YouTube APIs.
//
// A Manager loads the persisted credential and classifies it as valid,
// refreshable or unusable. It refreshes or re-authorizes as needed, then
// hands out authorized services for the Data, Analytics and Reporting APIs.
// A separate API-key path serves public-data reads without any OAuth grant.
//
// # Authentication
//
// Authenticate walks a fixed sequence under a single lock:
//
//  1. Load the credential from the CredentialStore (token.json by default).
//  2. Return it if unexpired and carrying every RequiredScopes entry.
//  3. If expired with a refresh token, refresh it. Transient failures are
//     retried with exponential backoff; any final failure falls through.
//  4. Require client_secret.json, then run the loopback consent flow in the
//     user's browser and persist the result.
//
// Failures that leave no usable credential are reported as *AuthError.
//
// # Storage
//
// FileStore writes token.json atomically with 0600 permissions, in the
// authorized-user JSON layout used by Google's client libraries. TokenStore
// adapts an mcp-oauth storage.TokenStore for deployments that keep tokens
// in memory.
//
// # Example Usage
//
//	mgr := auth.NewManager(auth.Options{})
//
//	svc, err := mgr.DataService(ctx)
//	if err != nil {
//	    var authErr *auth.AuthError
//	    if errors.As(err, &authErr) {
//	        // surface authErr.Error() to the user
//	    }
//	    return err
//	}
//
//	status := mgr.Status() // never touches the network
package auth
