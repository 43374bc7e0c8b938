// Package common contains shared constants and sentinel errors used across
// ArtLedger components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the access token
// on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "
