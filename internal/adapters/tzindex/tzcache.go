package tzindex

import (
	"fmt"
	"os"

	timezone "github.com/evanoberholster/timezoneLookup/v2"
)

// cacheFinder reads a prebuilt timezoneLookup cache file.
type cacheFinder struct {
	tzc *timezone.Timezonecache
}

func openCacheFinder(path string) (*cacheFinder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	tzc := new(timezone.Timezonecache)
	if err := tzc.Load(f); err != nil {
		return nil, fmt.Errorf("load cache %s: %w", path, err)
	}
	return &cacheFinder{tzc: tzc}, nil
}

func (c *cacheFinder) Find(lat, lon float64) string {
	res, err := c.tzc.Search(lat, lon)
	if err != nil {
		return ""
	}
	return res.Name
}

func (c *cacheFinder) Zones() []string { return nil }
