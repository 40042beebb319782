package recall

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shoprank/core"
)

//go:embed catalog.yaml
var sampleCatalog []byte

// CatalogConfig 是目录文件的 YAML 结构。
//
//	products:
//	  - id: "1"
//	    name: Noise Cancelling Wireless Earbuds
//	    ...
//	lookup:
//	  wireless earbuds: ["1", "2"]
//	default_ids: ["1"]
type CatalogConfig struct {
	Products   []*core.Product     `yaml:"products"`
	Lookup     map[string][]string `yaml:"lookup"`
	DefaultIDs []string            `yaml:"default_ids"`
}

// Catalog 是基于商品 ID 列表的检索源：
//   - 按查询的商品关键字查表得到 ID 列表，未命中时使用 DefaultIDs
//   - 预算内（price <= maxPrice）
//   - 指定了特性时，任一特性以不区分大小写的子串命中商品特性
type Catalog struct {
	products   []*core.Product
	byID       map[string]*core.Product
	lookup     map[string][]string
	defaultIDs []string
}

// NewCatalog 由配置创建目录；ID 重复时返回错误。
func NewCatalog(cfg CatalogConfig) (*Catalog, error) {
	c := &Catalog{
		products:   make([]*core.Product, 0, len(cfg.Products)),
		byID:       make(map[string]*core.Product, len(cfg.Products)),
		lookup:     make(map[string][]string, len(cfg.Lookup)),
		defaultIDs: cfg.DefaultIDs,
	}
	for _, p := range cfg.Products {
		if p == nil {
			continue
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = p
		c.products = append(c.products, p)
	}
	for k, ids := range cfg.Lookup {
		c.lookup[strings.ToLower(strings.TrimSpace(k))] = ids
	}
	return c, nil
}

// LoadCatalog 从 YAML 读取目录。
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var cfg CatalogConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return NewCatalog(cfg)
}

// LoadCatalogFile 从 YAML 文件读取目录。
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// DefaultCatalog 返回内置的示例目录。
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(sampleCatalog))
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Name() string { return "recall.catalog" }

// Get 按 ID 获取商品，不存在时返回 NOT_FOUND。
func (c *Catalog) Get(id string) (*core.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeNotFound,
			fmt.Sprintf("product %q not found", id))
	}
	return p, nil
}

// Len 返回目录中的商品数。
func (c *Catalog) Len() int { return len(c.products) }

func (c *Catalog) Recall(ctx context.Context, q core.Query) ([]*core.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, ok := c.lookup[q.Key()]
	if !ok {
		ids = c.defaultIDs
	}

	out := make([]*core.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := c.byID[id]
		if !ok {
			continue
		}
		if q.Filters.MaxPrice != nil && p.Price > *q.Filters.MaxPrice {
			continue
		}
		if len(q.Filters.Features) > 0 && !anyFeature(p.Features, q.Filters.Features) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func anyFeature(have, want []string) bool {
	for _, w := range want {
		w = strings.ToLower(w)
		for _, h := range have {
			if strings.Contains(strings.ToLower(h), w) {
				return true
			}
		}
	}
	return false
}
