// Package omdb provides the minimal OMDB API client used to look up movies
// before they are added to the collection.
//
// The client wraps search, lookup by IMDb id, and lookup by title. Every call
// is a single HTTP round trip: no retries and no caching. Transport failures and
// non-2xx responses surface as services.ErrNetwork, undecodable payloads as
// services.ErrParse, and an OMDB "Response":"False" body is treated as an
// empty result rather than an error. An optional rate limiter keeps callers
// under the account's request quota.
package omdb
