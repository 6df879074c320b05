package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketSites = []byte("sites")

// URLStore persists discovered page URLs per site in a BoltDB file, so
// repeated discovery runs can report which URLs are new and feed only those
// to the downstream extractors.
type URLStore struct {
	db   *bolt.DB
	path string
}

// OpenURLStore opens (or creates) a URL store at path.
func OpenURLStore(path string) (*URLStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSites)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &URLStore{db: db, path: path}, nil
}

// Merge records the URLs for a site and returns how many were not already
// stored. The stored value is the first-seen timestamp. Membership is probed
// through a Deduplicator seeded from the site's bucket, so rescans of large
// sites answer the common "already stored" case from the Bloom filter
// instead of a B-tree lookup per URL.
func (s *URLStore) Merge(site string, urls []string) (int, error) {
	added := 0
	now := []byte(time.Now().UTC().Format(time.RFC3339))

	err := s.db.Update(func(tx *bolt.Tx) error {
		sites := tx.Bucket(bucketSites)
		if sites == nil {
			return fmt.Errorf("sites bucket not found")
		}

		b, err := sites.CreateBucketIfNotExists([]byte(site))
		if err != nil {
			return err
		}

		seen := NewDeduplicator(b.Stats().KeyN + len(urls))
		err = b.ForEach(func(k, v []byte) error {
			seen.Add(string(k))
			return nil
		})
		if err != nil {
			return err
		}

		for _, url := range urls {
			if seen.HasSeen(url) {
				continue
			}
			seen.Add(url)
			if err := b.Put([]byte(url), now); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// URLs returns every stored URL for a site.
func (s *URLStore) URLs(site string) ([]string, error) {
	var urls []string

	err := s.db.View(func(tx *bolt.Tx) error {
		sites := tx.Bucket(bucketSites)
		if sites == nil {
			return nil
		}
		b := sites.Bucket([]byte(site))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			urls = append(urls, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// Count returns the number of stored URLs for a site.
func (s *URLStore) Count(site string) (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		sites := tx.Bucket(bucketSites)
		if sites == nil {
			return nil
		}
		b := sites.Bucket([]byte(site))
		if b == nil {
			return nil
		}
		count = b.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close closes the underlying database.
func (s *URLStore) Close() error {
	return s.db.Close()
}
