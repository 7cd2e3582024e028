// Package metadata is a small key/value repository over the local SQLite
// state database. The session store keeps the token and the cached user
// profile here.
package metadata
