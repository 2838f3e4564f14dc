package sources

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"purchases/internal/core"
)

// ErrInvalidDocument marks input that does not have the record structure.
var ErrInvalidDocument = errors.New("invalid document")

//go:embed schema.json
var schemaJSON []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Wire representation of a purchase record. Amounts are accepted as JSON
// numbers or strings ("12.50", "12,50"); value ranges are not checked here.
type (
	RecordDocument struct {
		Customer CustomerDocument  `json:"customer"`
		Products []ProductDocument `json:"products"`
	}

	CustomerDocument struct {
		Name    string `json:"name"`
		Surname string `json:"surname"`
		Age     int    `json:"age"`
		Cash    Amount `json:"cash"`
	}

	ProductDocument struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Price    Amount `json:"price"`
	}

	Amount struct {
		decimal.Decimal
	}
)

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return fmt.Errorf("%w: amount %s", core.ErrInvalidAmount, data)
	}
	a.Decimal = d
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// DecodeRecords parses a JSON array of records after checking it against
// the record schema.
func DecodeRecords(data []byte) ([]core.PurchaseRecord, error) {
	if err := checkSchema(data); err != nil {
		return nil, err
	}
	var docs []RecordDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	records := make([]core.PurchaseRecord, len(docs))
	for i, d := range docs {
		records[i] = d.Record()
	}
	return records, nil
}

// DecodeRecord parses a single JSON record object.
func DecodeRecord(data []byte) (core.PurchaseRecord, error) {
	wrapped := append(append([]byte{'['}, bytes.TrimSpace(data)...), ']')
	records, err := DecodeRecords(wrapped)
	if err != nil {
		return core.PurchaseRecord{}, err
	}
	if len(records) != 1 {
		return core.PurchaseRecord{}, fmt.Errorf("%w: expected one record, got %d", ErrInvalidDocument, len(records))
	}
	return records[0], nil
}

// EncodeRecord renders r in the wire representation.
func EncodeRecord(r core.PurchaseRecord) ([]byte, error) {
	return json.Marshal(NewRecordDocument(r))
}

// YAMLToJSON converts a YAML document to JSON so it can share the JSON path.
func YAMLToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return out, nil
}

func checkSchema(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load record schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}

	const shown = 3
	var msgs []string
	for i, e := range result.Errors() {
		if i == shown {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(result.Errors())-shown))
			break
		}
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// Record converts the document to the domain type. Unknown categories are
// kept verbatim (upper-cased) so validation can report them.
func (d RecordDocument) Record() core.PurchaseRecord {
	r := core.PurchaseRecord{
		Customer: core.Customer{
			Name:    d.Customer.Name,
			Surname: d.Customer.Surname,
			Age:     d.Customer.Age,
			Cash:    d.Customer.Cash.Decimal,
		},
		Products: make([]core.Product, len(d.Products)),
	}
	for i, p := range d.Products {
		r.Products[i] = core.Product{
			Name:     p.Name,
			Category: core.Category(strings.ToUpper(strings.TrimSpace(p.Category))),
			Price:    p.Price.Decimal,
		}
	}
	return r
}

func NewRecordDocument(r core.PurchaseRecord) RecordDocument {
	d := RecordDocument{
		Customer: CustomerDocument{
			Name:    r.Customer.Name,
			Surname: r.Customer.Surname,
			Age:     r.Customer.Age,
			Cash:    Amount{r.Customer.Cash},
		},
		Products: make([]ProductDocument, len(r.Products)),
	}
	for i, p := range r.Products {
		d.Products[i] = ProductDocument{Name: p.Name, Category: p.Category.String(), Price: Amount{p.Price}}
	}
	return d
}
