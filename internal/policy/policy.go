// Package policy holds the client classification and pricing rules as a
// single immutable table loaded at process start.
package policy

import (
	"math"
	"strings"

	"github.com/sistemacipt/termos-cli/internal/model"
)

// Rule defines the classification inputs and discount rate for one category.
type Rule struct {
	Category model.Category

	// DiscountRate is the fraction already subtracted from an event's net
	// value for clients in this category.
	DiscountRate float64

	// Documents is an allow-list of normalized tax IDs that force the
	// category regardless of the client name.
	Documents []string

	// Keywords match as uppercase substrings of the client legal name.
	Keywords []string
}

// Table is the classification policy. Rules are checked in declaration order:
// document allow-lists first, then name keywords, then the general fallback.
type Table struct {
	rules []Rule
	docs  map[string]model.Category
	rates map[model.Category]float64
}

// New builds a Table from rules.
func New(rules []Rule) *Table {
	t := &Table{
		rules: rules,
		docs:  make(map[string]model.Category),
		rates: make(map[model.Category]float64),
	}
	for _, r := range rules {
		t.rates[r.Category] = r.DiscountRate
		for _, d := range r.Documents {
			t.docs[model.DigitsOnly(d)] = r.Category
		}
	}
	return t
}

// Default returns the production policy: the known concessionaire CNPJs, the
// government and public-institution name keywords, and the discount rates
// agreed for each category.
func Default() *Table {
	return New([]Rule{
		{
			Category:     model.CategoryConcessionaire,
			DiscountRate: 0.60,
			Documents: []string{
				"01703922000128", "03370669000163", "04007216000130",
				"05314972000174", "05301393000197", "06935095000111",
				"08911934000197", "09584747000109", "10771790000162",
				"10882812000161", "12439637000168", "12257462000178",
				"13055903000111", "14876384000115", "16918665000119",
				"21950824000100", "22080376000196", "28207096000182",
				"29500928000117", "30441031000220", "31639572000149",
				"32860087000163", "37432689000133", "40411089000101",
				"43150497000137", "46731465000113",
			},
		},
		{
			Category:     model.CategoryGovernment,
			DiscountRate: 0.20,
			Keywords: []string{
				"UNIVERSIDADE FEDERAL", "UFAL", "IFAL", "SECRETARIA DE ESTADO",
				"SESAU", "SENAI", "SEBRAE", "SENAC", "SESI", "FEPESA",
				"FUNDEPES", "OAB", "CRA/AL", "ASSEMBLEIA LEGISLATIVA",
			},
		},
		{
			Category:     model.CategoryGeneral,
			DiscountRate: 0.0,
		},
	})
}

// Classify assigns a category for a new client. Existing clients are never
// re-classified.
func (t *Table) Classify(document, legalName string) model.Category {
	if c, ok := t.docs[model.DigitsOnly(document)]; ok {
		return c
	}
	upper := strings.ToUpper(legalName)
	for _, r := range t.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(upper, kw) {
				return r.Category
			}
		}
	}
	return model.CategoryGeneral
}

// DiscountRate returns the rate for a category; unknown categories get 0.
func (t *Table) DiscountRate(cat model.Category) float64 {
	return t.rates[cat]
}

// Price derives the event pricing fields from a net value and the resolved
// client category. A nil net value means the extractor found nothing and is
// priced as 0. The gross value is only reconstructed when there is a positive
// net value, so free events never divide.
func (t *Table) Price(net *float64, cat model.Category) (netValue, grossValue float64, discountKind string) {
	if net != nil {
		netValue = *net
	}
	rate := t.rates[cat]
	if netValue > 0 {
		if rate > 0 {
			grossValue = round2(netValue / (1 - rate))
		} else {
			grossValue = netValue
		}
	}
	discountKind = model.DiscountNone
	if rate > 0 {
		discountKind = string(cat)
	}
	return netValue, grossValue, discountKind
}

// ResponsibleFromLegalName applies the short-name heuristic: an organization
// name of 2 to 4 words usually is the responsible person's own name.
func ResponsibleFromLegalName(legalName string) (string, bool) {
	n := len(strings.Fields(legalName))
	if n >= 2 && n <= 4 {
		return legalName, true
	}
	return "", false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
