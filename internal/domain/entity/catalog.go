package entity

import (
	"sort"
	"strings"
	"time"
)

// LinkUnavailable linki yo'q qurilmalar uchun yuklash paytidagi belgi
const LinkUnavailable = "🔗 غير متوفر"

// Variant bitta xotira/narx qatori
type Variant struct {
	Capacity string `json:"capacity"`
	Price    string `json:"price"`
}

// CatalogEntry qurilma va uning barcha variantlari (manba tartibida)
type CatalogEntry struct {
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
}

// PriceRow narx jadvalidagi bitta tekis qator
type PriceRow struct {
	Name     string
	Capacity string
	Price    string
}

// LinkTable qurilma nomi -> batafsil sahifa URL
type LinkTable map[string]string

// URL trimmed nom bo'yicha aniq (case-sensitive) qidiruv.
// Sentinel qiymatli yozuvlar yo'q deb hisoblanadi.
func (lt LinkTable) URL(name string) (string, bool) {
	url, ok := lt[strings.TrimSpace(name)]
	if !ok || !IsUsableLink(url) {
		return "", false
	}
	return url, true
}

// IsUsableLink bo'sh yoki sentinel bo'lmagan URL
func IsUsableLink(url string) bool {
	url = strings.TrimSpace(url)
	return url != "" && url != LinkUnavailable
}

// Catalog bitta yuklash siklining o'zgarmas snapshoti.
// Yaratilgandan keyin hech qachon o'zgartirilmaydi.
type Catalog struct {
	entries   []CatalogEntry
	index     map[string]int
	names     []string
	links     LinkTable
	linkNames []string

	Version  uint64
	LoadedAt time.Time
}

// NewCatalog tekis qatorlardan snapshot yig'ish.
// Bir xil nomli qatorlar birinchi uchragan joyida birlashtiriladi, variantlar tartibi saqlanadi.
// Nomi, narxi yoki xotirasi bo'sh qatorlar tashlab yuboriladi.
func NewCatalog(rows []PriceRow, links LinkTable, version uint64) *Catalog {
	c := &Catalog{
		index:    make(map[string]int, len(rows)),
		links:    make(LinkTable, len(links)),
		Version:  version,
		LoadedAt: time.Now(),
	}
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		price := strings.TrimSpace(row.Price)
		capacity := strings.TrimSpace(row.Capacity)
		if name == "" || price == "" || capacity == "" {
			continue
		}
		idx, ok := c.index[name]
		if !ok {
			idx = len(c.entries)
			c.index[name] = idx
			c.entries = append(c.entries, CatalogEntry{Name: name})
			c.names = append(c.names, name)
		}
		c.entries[idx].Variants = append(c.entries[idx].Variants, Variant{Capacity: capacity, Price: price})
	}
	for name, url := range links {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		url = strings.TrimSpace(url)
		if url == "" {
			url = LinkUnavailable
		}
		c.links[name] = url
	}
	c.linkNames = make([]string, 0, len(c.links))
	for name, url := range c.links {
		if IsUsableLink(url) {
			c.linkNames = append(c.linkNames, name)
		}
	}
	sort.Strings(c.linkNames)
	return c
}

// WithVersion boshqa versiyali nusxa. Ichki ma'lumot umumiy, ikkalasi ham o'zgarmas.
func (c *Catalog) WithVersion(version uint64) *Catalog {
	cp := *c
	cp.Version = version
	return &cp
}

// Entries katalog yozuvlari (manba tartibida). Natijani o'zgartirmang.
func (c *Catalog) Entries() []CatalogEntry {
	if c == nil {
		return nil
	}
	return c.entries
}

// Names barcha nomlar (manba tartibida). Natijani o'zgartirmang.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return c.names
}

// Entry nom bo'yicha yozuv
func (c *Catalog) Entry(name string) (CatalogEntry, bool) {
	if c == nil {
		return CatalogEntry{}, false
	}
	idx, ok := c.index[name]
	if !ok {
		return CatalogEntry{}, false
	}
	return c.entries[idx], true
}

// Links link jadvali. Natijani o'zgartirmang.
func (c *Catalog) Links() LinkTable {
	if c == nil {
		return nil
	}
	return c.links
}

// LinkNames ishlatsa bo'ladigan URL ga ega kalitlar, barqaror (alifbo) tartibda
func (c *Catalog) LinkNames() []string {
	if c == nil {
		return nil
	}
	return c.linkNames
}

// Len yozuvlar soni
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// VariantCount barcha variantlar soni
func (c *Catalog) VariantCount() int {
	n := 0
	for _, e := range c.Entries() {
		n += len(e.Variants)
	}
	return n
}
