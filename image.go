package pluginsdk

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Image wraps one entry of the host's custom image table. Plugins ship icon
// zips in the host's standard format next to the plugin itself.
type Image struct {
	host ImageHost

	// Host-reported fields.
	ID int
	// Name as specified in the upload file.
	Name string
	// Base must start with the plugin key or the host refuses to load the
	// image into the collection.
	Base        string
	Description string
	// Filename of the icon zip the image came from.
	Filename string
}

// NewImage binds an icon zip filename to a host.
func NewImage(host ImageHost, filename string) *Image {
	return &Image{host: host, Filename: filename}
}

// Create loads the image zip into the host. Successfully created images are
// added to the collection immediately.
func (i *Image) Create(ctx context.Context) error {
	if err := i.host.CreateImage(ctx, i.Filename); err != nil {
		return fmt.Errorf("create image %q: %w", i.Filename, err)
	}
	return nil
}

// Delete removes the image from the host. Local instances are unchanged.
func (i *Image) Delete(ctx context.Context) error {
	if err := i.host.DeleteImage(ctx, i.Base); err != nil {
		return fmt.Errorf("delete image %q: %w", i.Base, err)
	}
	return nil
}

// ImageCollection mirrors the host's image dictionary, keyed by image base.
type ImageCollection struct {
	mu     sync.RWMutex
	images map[string]*Image
}

// NewImageCollection returns an empty collection.
func NewImageCollection() *ImageCollection {
	return &ImageCollection{images: make(map[string]*Image)}
}

// Get returns the image for a base, or nil.
func (c *ImageCollection) Get(base string) *Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.images[base]
}

// Put registers an image under its base.
func (c *ImageCollection) Put(img *Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[img.Base] = img
}

// Remove drops the image for a base.
func (c *ImageCollection) Remove(base string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.images, base)
}

// Bases returns the registered bases in sorted order.
func (c *ImageCollection) Bases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bases := make([]string, 0, len(c.images))
	for base := range c.images {
		bases = append(bases, base)
	}
	sort.Strings(bases)
	return bases
}

// Len returns the number of images.
func (c *ImageCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
