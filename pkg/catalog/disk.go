package catalog

import (
	"compress/gzip"
	"fmt"
	"os"
	"path"

	"github.com/bytedance/sonic"
)

const snapshotFile = "catalog.json.gz"

// DiskStorage persists catalog snapshots as gzipped JSON so the server
// restarts warm while the feed is unreachable.
type DiskStorage struct {
	Path string
}

func NewDiskStorage(dir string) *DiskStorage {
	return &DiskStorage{Path: dir}
}

func (d *DiskStorage) fileName() string {
	return path.Join(d.Path, snapshotFile)
}

func (d *DiskStorage) SaveSnapshot(store *Store) error {
	courses, lastUpdated := store.Snapshot()
	data, err := sonic.Marshal(&Feed{Courses: courses, LastUpdatedAt: lastUpdated})
	if err != nil {
		return err
	}
	if err = os.MkdirAll(d.Path, 0755); err != nil {
		return err
	}
	tmp := d.fileName() + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(file)
	if _, err = zw.Write(data); err != nil {
		file.Close()
		return err
	}
	if err = zw.Close(); err != nil {
		file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, d.fileName())
}

func (d *DiskStorage) LoadSnapshot(store *Store) error {
	file, err := os.Open(d.fileName())
	if err != nil {
		return err
	}
	defer file.Close()
	zr, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("corrupt catalog snapshot: %w", err)
	}
	defer zr.Close()

	feed := Feed{}
	dec := sonic.ConfigDefault.NewDecoder(zr)
	if err = dec.Decode(&feed); err != nil {
		return fmt.Errorf("corrupt catalog snapshot: %w", err)
	}
	return store.Set(feed.Courses, feed.LastUpdatedAt)
}
