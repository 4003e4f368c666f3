// Package query turns list request parameters into a document-store query:
// equality filters, date ranges, free-text search, sort and pagination.
package query

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"project-management-app/backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSort   = "sort"
	ParamSearch = "search"
)

type FieldKind int

const (
	String FieldKind = iota
	ObjectID
	Bool
	Int
)

// Range bounds Field with the From ($gte) and To ($lte) request parameters.
type Range struct {
	Field string
	From  string
	To    string
}

// Spec declares what a resource's list endpoint recognizes.
type Spec struct {
	Fields      map[string]FieldKind
	Ranges      []Range
	Search      []string
	DefaultSort string
}

type SortField struct {
	Field string
	Desc  bool
}

type ListQuery struct {
	Scope        bson.D
	Filters      bson.D
	Ranges       bson.D
	Search       string
	SearchFields []string
	Sort         []SortField
	Page         int
	Limit        int
}

var sortFieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Parse builds a ListQuery from request parameters. Unknown parameters are
// ignored; malformed values of recognized filters are a validation error.
func Parse(values url.Values, spec Spec) (ListQuery, error) {
	q := ListQuery{
		SearchFields: spec.Search,
		Page:         positiveInt(values.Get(ParamPage), DefaultPage),
		Limit:        positiveInt(values.Get(ParamLimit), DefaultLimit),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	fields := map[string]string{}

	for _, name := range sortedKeys(spec.Fields) {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			continue
		}
		v, err := convert(raw, spec.Fields[name])
		if err != nil {
			fields[name] = "Valeur de filtre invalide"
			continue
		}
		q.Filters = append(q.Filters, bson.E{Key: name, Value: v})
	}

	for _, r := range spec.Ranges {
		bounds := bson.D{}
		if raw := strings.TrimSpace(values.Get(r.From)); raw != "" {
			t, _, err := parseDate(raw)
			if err != nil {
				fields[r.From] = "Date invalide"
			} else {
				bounds = append(bounds, bson.E{Key: "$gte", Value: t})
			}
		}
		if raw := strings.TrimSpace(values.Get(r.To)); raw != "" {
			t, dateOnly, err := parseDate(raw)
			if err != nil {
				fields[r.To] = "Date invalide"
			} else {
				if dateOnly {
					t = t.Add(24*time.Hour - time.Millisecond)
				}
				bounds = append(bounds, bson.E{Key: "$lte", Value: t})
			}
		}
		if len(bounds) > 0 {
			q.Ranges = append(q.Ranges, bson.E{Key: r.Field, Value: bounds})
		}
	}

	if len(fields) > 0 {
		return ListQuery{}, domain.NewValidationError("Paramètres de requête invalides", fields)
	}

	q.Search = strings.TrimSpace(values.Get(ParamSearch))

	q.Sort = ParseSort(values.Get(ParamSort))
	if len(q.Sort) == 0 {
		q.Sort = ParseSort(spec.DefaultSort)
	}

	return q, nil
}

// WithScope restricts the query with filters the caller cannot override.
func (q ListQuery) WithScope(elems ...bson.E) ListQuery {
	scope := make(bson.D, 0, len(q.Scope)+len(elems))
	scope = append(scope, q.Scope...)
	q.Scope = append(scope, elems...)
	return q
}

// Filter assembles scope, equality filters, ranges and the search clause
// in that order.
func (q ListQuery) Filter() bson.D {
	filter := bson.D{}
	filter = append(filter, q.Scope...)
	filter = append(filter, q.Filters...)
	filter = append(filter, q.Ranges...)
	if q.Search != "" && len(q.SearchFields) > 0 {
		re := SearchRegex(q.Search)
		or := bson.A{}
		for _, f := range q.SearchFields {
			or = append(or, bson.D{{Key: f, Value: re}})
		}
		filter = append(filter, bson.E{Key: "$or", Value: or})
	}
	return filter
}

func (q ListQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// SortDoc ends with _id, in the direction of the leading key, so pages
// stay stable when sort values tie.
func (q ListQuery) SortDoc() bson.D {
	doc := bson.D{}
	tie := 1
	for i, s := range q.Sort {
		dir := 1
		if s.Desc {
			dir = -1
		}
		if i == 0 {
			tie = dir
		}
		if s.Field == "_id" {
			return append(doc, bson.E{Key: "_id", Value: dir})
		}
		doc = append(doc, bson.E{Key: s.Field, Value: dir})
	}
	return append(doc, bson.E{Key: "_id", Value: tie})
}

func (q ListQuery) FindOptions() *options.FindOptions {
	return options.Find().SetSkip(q.Skip()).SetLimit(int64(q.Limit)).SetSort(q.SortDoc())
}

// SearchRegex matches term as a case-insensitive substring.
func SearchRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// ParseSort translates "-createdAt,titre" into ordered sort fields.
func ParseSort(raw string) []SortField {
	var out []SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		part = strings.TrimPrefix(strings.TrimPrefix(part, "-"), "+")
		if part == "id" {
			part = "_id"
		}
		if !sortFieldPattern.MatchString(part) {
			continue
		}
		out = append(out, SortField{Field: part, Desc: desc})
	}
	return out
}

func positiveInt(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func convert(raw string, kind FieldKind) (interface{}, error) {
	switch kind {
	case ObjectID:
		return primitive.ObjectIDFromHex(raw)
	case Bool:
		return strconv.ParseBool(raw)
	case Int:
		return strconv.Atoi(raw)
	default:
		return raw, nil
	}
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	return t, true, err
}

func sortedKeys(m map[string]FieldKind) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
