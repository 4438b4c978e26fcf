package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Open returns the backend named by location:
//
//	""                      NullCache
//	redis://host:6379/0     RedisCache (rediss:// for TLS)
//	mongodb://host/db       MongoCache (mongodb+srv:// too)
//	anything else           FileCache rooted at that directory
func Open(ctx context.Context, location string) (Cache, error) {
	switch {
	case location == "":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		return NewRedisCache(ctx, location)
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		return NewMongoCache(ctx, location)
	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("unsupported cache scheme in %q", location)
	default:
		return NewFileCache(location)
	}
}

// mongoDatabase extracts the database name from a MongoDB URI path.
func mongoDatabase(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongo uri: %w", err)
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db, nil
	}
	return DefaultMongoDatabase, nil
}
