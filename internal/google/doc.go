// Package google handles Google API credentials.
//
// It loads service account keys from the conventional environment variables
// (GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_SERVICE_ACCOUNT_JSON) and
// exposes them as oauth2 token sources behind the TokenSourceProvider
// interface, so the rest of the application never handles raw key material.
package google
