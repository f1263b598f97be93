package database

import (
	"github.com/bradfitz/gomemcache/memcache"
)

// NewMemcached creates the client used for anexo metadata caching.
func NewMemcached(server string) *memcache.Client {
	return memcache.New(server)
}
