package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Product is one catalog record, loaded once at startup and never mutated.
// Price stays a string; it is decimal text in the source file and only the
// language model interprets it.
type Product struct {
	DisplayTitle  string `json:"displayTitle"`
	EmbeddingText string `json:"embeddingText"`
	URL           string `json:"url"`
	ImageURL      string `json:"imageUrl"`
	ProductType   string `json:"productType"`
	Discount      string `json:"discount"`
	Price         string `json:"price"`
	Variants      string `json:"variants"`
	CreateDate    string `json:"createDate"`
}

const maxResults = 2

type Service struct {
	mu       sync.RWMutex
	products []Product
	ready    bool
}

// NewService starts loading the catalog file in the background and returns
// immediately. Searches that run before the load finishes see an empty
// catalog; Ready reports whether the load has completed.
func NewService(path string) *Service {
	s := &Service{}
	go s.load(path)
	return s
}

func (s *Service) load(path string) {
	products, err := readProducts(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to load product catalog")
	}

	s.mu.Lock()
	s.products = products
	s.ready = true
	s.mu.Unlock()

	log.Info().Int("count", len(products)).Str("path", path).Msg("Product catalog loaded")
}

func readProducts(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Rows shorter or longer than the header are tolerated; missing cells
	// read as empty fields.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var products []Product
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		products = append(products, Product{
			DisplayTitle:  field(row, "displayTitle"),
			EmbeddingText: field(row, "embeddingText"),
			URL:           field(row, "url"),
			ImageURL:      field(row, "imageUrl"),
			ProductType:   field(row, "productType"),
			Discount:      field(row, "discount"),
			Price:         field(row, "price"),
			Variants:      field(row, "variants"),
			CreateDate:    field(row, "createDate"),
		})
	}

	return products, nil
}

// Ready reports whether the background catalog load has finished.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Search returns up to two products whose title or embedding text contains
// the query, case-insensitively, in catalog load order. An empty result is
// valid and means "no product found".
func (s *Service) Search(query string) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)

	var matches []Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.DisplayTitle), needle) ||
			strings.Contains(strings.ToLower(p.EmbeddingText), needle) {
			matches = append(matches, p)
			if len(matches) == maxResults {
				break
			}
		}
	}

	log.Debug().Str("query", query).Int("matches", len(matches)).Msg("Catalog search")
	return matches
}
