package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/matchme/internal/common"
	"github.com/Veraticus/matchme/internal/model"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Format is a catalog file format.
type Format string

// Supported catalog formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ctxCheckInterval is how many records are processed between context checks.
const ctxCheckInterval = 500

// DetectFormat picks the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", common.ErrUnsupportedCatalog, filepath.Ext(path))
	}
}

// Result is the outcome of loading one catalog source.
type Result struct {
	Products []model.Product
	Skipped  int
}

// Loader reads catalog exports into normalized products.
type Loader struct {
	newID func() string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithIDGenerator sets the generator used for records without an ID.
func WithIDGenerator(fn func() string) LoaderOption {
	return func(l *Loader) {
		l.newID = fn
	}
}

// NewLoader creates a loader that assigns random UUIDs to records without IDs.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{newID: uuid.NewString}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile loads a catalog file, choosing the parser by extension.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the user's command line
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			common.LogWarn("Failed to close catalog file", common.Fields{"path": path, "error": cerr.Error()})
		}
	}()

	return l.Load(ctx, f, format)
}

// Load parses r in the given format.
func (l *Loader) Load(ctx context.Context, r io.Reader, format Format) (*Result, error) {
	switch format {
	case FormatCSV:
		return l.LoadCSV(ctx, r)
	case FormatJSON:
		return l.LoadJSON(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedCatalog, format)
	}
}

// LoadCSV parses a CSV export with a header row. Columns are matched by name;
// unknown columns are ignored.
func (l *Loader) LoadCSV(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Result{Products: []model.Product{}}, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	field := func(row []string, name string) string {
		if i, ok := columns[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	result := &Result{Products: []model.Product{}}
	for line := 2; ; line++ {
		if line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		rec := rawRecord{
			ID:          flexString(field(row, "id")),
			Name:        flexString(field(row, "name")),
			Brand:       flexString(field(row, "brand")),
			Category:    flexString(field(row, "category")),
			ProductType: flexString(field(row, "product_type")),
			Price:       parseFlexFloat(field(row, "price")),
			Currency:    flexString(field(row, "currency")),
			ImageLink:   flexString(field(row, "image_link")),
			Rating:      parseFlexFloat(field(row, "rating")),
			Description: flexString(field(row, "description")),
			TagList:     field(row, "tag_list"),
			Colors:      field(row, "product_colors"),
		}
		l.collect(result, rec)
	}

	logLoaded("csv", result)
	return result, nil
}

// LoadJSON parses a JSON array of product records.
func (l *Loader) LoadJSON(ctx context.Context, r io.Reader) (*Result, error) {
	var records []rawRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return &Result{Products: []model.Product{}}, nil
		}
		return nil, fmt.Errorf("failed to decode JSON catalog: %w", err)
	}

	result := &Result{Products: make([]model.Product, 0, len(records))}
	for i, rec := range records {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		l.collect(result, rec)
	}

	logLoaded("json", result)
	return result, nil
}

func (l *Loader) collect(result *Result, rec rawRecord) {
	p, ok := l.normalize(rec)
	if !ok {
		result.Skipped++
		return
	}
	result.Products = append(result.Products, p)
}

func logLoaded(source string, result *Result) {
	common.LogInfo("Loaded catalog records", common.Fields{
		"source":  source,
		"loaded":  len(result.Products),
		"skipped": result.Skipped,
	})
}

// normalize converts a raw record into a product. Records without a name or
// brand are rejected.
func (l *Loader) normalize(rec rawRecord) (model.Product, bool) {
	name := strings.TrimSpace(string(rec.Name))
	brand := strings.TrimSpace(string(rec.Brand))
	if name == "" || brand == "" {
		return model.Product{}, false
	}

	id := strings.TrimSpace(string(rec.ID))
	if id == "" {
		id = l.newID()
	}

	currency := strings.TrimSpace(string(rec.Currency))
	if currency == "" {
		currency = defaultSourceCurrency
	}

	p := model.Product{
		ID:          id,
		Name:        name,
		Brand:       brand,
		Category:    resolveCategory(string(rec.Category), string(rec.ProductType)),
		Price:       ConvertToCAD(rec.Price.Value, currency),
		Currency:    CatalogCurrency,
		Image:       NormalizeImageURL(string(rec.ImageLink)),
		Rating:      normalizeRating(rec.Rating),
		Description: strings.TrimSpace(string(rec.Description)),
		Tags:        ParseTags(rec.TagList),
		Colors:      ParseColors(rec.Colors),
	}

	if err := p.Validate(); err != nil {
		common.LogWarn("Skipping invalid catalog record", common.Fields{"id": id, "error": err.Error()})
		return model.Product{}, false
	}
	return p, true
}

// normalizeRating drops missing, zero and out-of-range ratings so scoring
// falls back to the default rating.
func normalizeRating(f flexFloat) *float64 {
	if !f.Set || f.Value == 0 || math.IsNaN(f.Value) {
		return nil
	}
	if f.Value < 0 || f.Value > 5 {
		common.LogDebug("Ignoring out of range rating", common.Fields{"rating": f.Value})
		return nil
	}
	return model.Float64(f.Value)
}

// rawRecord mirrors the fields of a makeup dataset record.
type rawRecord struct {
	TagList     any        `json:"tag_list"`
	Colors      any        `json:"product_colors"`
	ID          flexString `json:"id"`
	Name        flexString `json:"name"`
	Brand       flexString `json:"brand"`
	Category    flexString `json:"category"`
	ProductType flexString `json:"product_type"`
	Currency    flexString `json:"currency"`
	ImageLink   flexString `json:"image_link"`
	Description flexString `json:"description"`
	Price       flexFloat  `json:"price"`
	Rating      flexFloat  `json:"rating"`
}

// flexString decodes JSON strings, numbers and null into a string.
type flexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	*s = flexString(data)
	return nil
}

// flexFloat decodes JSON numbers and numeric strings. Set is false for null
// and unparseable values.
type flexFloat struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = flexFloat{}
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = parseFlexFloat(str)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = flexFloat{}
		return nil
	}
	*f = flexFloat{Value: v, Set: true}
	return nil
}

func parseFlexFloat(s string) flexFloat {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return flexFloat{}
	}
	return flexFloat{Value: v, Set: true}
}
