package catalog

import (
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a product id is not in the catalog.
var ErrNotFound = errors.New("catalog: not found")

// Catalog is the loaded, read-only data document with an id index.
// It is safe for concurrent use because nothing mutates it after New.
type Catalog struct {
	doc    Document
	index  map[string]int
	raw    []byte
	loaded bool
}

// New indexes a validated document.
func New(doc Document) *Catalog {
	c := &Catalog{doc: doc, index: make(map[string]int, len(doc.Products)), loaded: true}
	for i, p := range doc.Products {
		c.index[p.ID] = i
	}
	c.raw, _ = json.Marshal(doc)
	return c
}

// Empty returns a catalog with no content, used when the data document failed to load.
func Empty() *Catalog {
	c := New(Document{})
	c.loaded = false
	return c
}

// Available reports whether a data document was loaded. A valid document may
// still have no products.
func (c *Catalog) Available() bool {
	return c != nil && c.loaded
}

// Products returns the products in document order.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.doc.Products...)
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (Product, error) {
	if c == nil {
		return Product{}, ErrNotFound
	}
	i, ok := c.index[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return c.doc.Products[i], nil
}

// Featured returns featured products in document order.
func (c *Catalog) Featured() []Product {
	var out []Product
	for _, p := range c.doc.Products {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out
}

// Related returns up to limit products sharing the primary category of id, excluding id itself.
func (c *Catalog) Related(id string, limit int) []Product {
	p, err := c.Product(id)
	if err != nil {
		return nil
	}
	key := p.PrimaryCategory()
	if key == "" {
		return nil
	}
	var out []Product
	for _, other := range c.doc.Products {
		if other.ID == id || !other.InCategory(key) {
			continue
		}
		out = append(out, other)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Services returns the services list.
func (c *Catalog) Services() []Service { return append([]Service(nil), c.doc.Services...) }

// FAQ returns the FAQ entries.
func (c *Catalog) FAQ() []FAQ { return append([]FAQ(nil), c.doc.FAQ...) }

// Slides returns the hero slides.
func (c *Catalog) Slides() []Slide { return append([]Slide(nil), c.doc.Slides...) }

// Partners returns the partner brands.
func (c *Catalog) Partners() []Partner { return append([]Partner(nil), c.doc.Partners...) }

// JSON returns the document re-encoded as JSON.
func (c *Catalog) JSON() []byte {
	return c.raw
}
