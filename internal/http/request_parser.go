// Package http exposes the cost service as a JSON API.
//
// This file implements parsing of query parameters and cost request bodies.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"costs/internal/core"
)

const maxBodyBytes = 1 << 20

// PeriodParams holds the optional year/month filter of a list request.
type PeriodParams struct {
	Year  int
	Month int
}

// ParsePeriodParams reads year and month from the query. Both are
// optional, but a month needs a year.
func ParsePeriodParams(query url.Values) (PeriodParams, error) {
	var p PeriodParams
	var err error
	if p.Year, err = optionalInt(query, "year"); err != nil {
		return p, err
	}
	if p.Month, err = optionalInt(query, "month"); err != nil {
		return p, err
	}
	if p.Month != 0 && p.Year == 0 {
		return p, &badRequest{msg: "month requires year"}
	}
	return p, nil
}

// RequiredInt reads a mandatory integer parameter.
func RequiredInt(query url.Values, key string) (int, error) {
	if strings.TrimSpace(query.Get(key)) == "" {
		return 0, &badRequest{msg: fmt.Sprintf("missing %s", key)}
	}
	return optionalInt(query, key)
}

func optionalInt(query url.Values, key string) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &badRequest{msg: fmt.Sprintf("invalid %s %q", key, v)}
	}
	return n, nil
}

// ParseTargetCurrency returns the requested report currency, USD when
// absent. Validation is left to the service.
func ParseTargetCurrency(query url.Values) core.Currency {
	c := strings.TrimSpace(query.Get("currency"))
	if c == "" {
		return core.USD
	}
	return core.Currency(strings.ToUpper(c))
}

// costRequest is the body of POST /api/costs. Sum may be sent as a JSON
// number or as a string with either decimal separator.
type costRequest struct {
	Sum         json.RawMessage `json:"sum"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Day         int             `json:"day"`
}

// ParseCostRequest decodes a cost from the request body. Syntax errors are
// bad requests; an unparseable sum is a validation error.
func ParseCostRequest(w http.ResponseWriter, r *http.Request) (core.CostItem, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return core.CostItem{}, &badRequest{msg: "request body too large"}
	}
	var req costRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return core.CostItem{}, &badRequest{msg: "malformed JSON body"}
	}

	sum, err := parseSumField(req.Sum)
	if err != nil {
		return core.CostItem{}, err
	}
	return core.CostItem{
		Sum:         sum,
		Currency:    core.Currency(strings.ToUpper(strings.TrimSpace(req.Currency))),
		Category:    core.Category(strings.TrimSpace(req.Category)),
		Description: sanitizeInput(req.Description),
		Year:        req.Year,
		Month:       req.Month,
		Day:         req.Day,
	}, nil
}

func parseSumField(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return core.ParseSum("")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, &badRequest{msg: "malformed sum"}
		}
		return core.ParseSum(s)
	}
	sum, err := core.ParseSum(string(raw))
	var verr *core.ValidationError
	if err != nil && !errors.As(err, &verr) {
		return decimal.Zero, &badRequest{msg: "malformed sum"}
	}
	return sum, err
}

// sanitizeInput removes control characters except tab and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\t' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
