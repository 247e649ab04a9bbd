package domain

import (
	"fmt"
	"strings"
)

// PropertyType is the internal home-type vocabulary. The data provider speaks
// its own strings; the two are bridged by an explicit lookup table so an
// unrecognized mapping fails at startup, not deep inside a request.
type PropertyType string

const (
	SingleFamily PropertyType = "single_family"
	MultiFamily  PropertyType = "multi_family"
	Condo        PropertyType = "condo"
	Townhouse    PropertyType = "townhouse"
)

// PropertyTypes lists every supported type, in a stable order.
var PropertyTypes = []PropertyType{SingleFamily, MultiFamily, Condo, Townhouse}

// providerTypeTable maps internal types to the provider's type strings.
var providerTypeTable = map[PropertyType]string{
	SingleFamily: "Single Family",
	MultiFamily:  "Multi Family",
	Condo:        "Condo",
	Townhouse:    "Townhouse",
}

// ProviderString returns the provider-side string for t.
func (t PropertyType) ProviderString() (string, error) {
	s, ok := providerTypeTable[t]
	if !ok {
		return "", fmt.Errorf("no provider mapping for property type %q", t)
	}
	return s, nil
}

// Valid reports whether t is one of the known types.
func (t PropertyType) Valid() bool {
	_, ok := providerTypeTable[t]
	return ok
}

// PropertyTypeFromProvider resolves a provider type string (case-insensitive)
// to the internal type.
func PropertyTypeFromProvider(s string) (PropertyType, bool) {
	for t, ps := range providerTypeTable {
		if strings.EqualFold(ps, s) {
			return t, true
		}
	}
	return "", false
}

// ParsePropertyType resolves an internal type name (case-insensitive).
func ParsePropertyType(s string) (PropertyType, bool) {
	for _, t := range PropertyTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

// ValidateTypeTable checks the internal/provider table is complete and
// bijective. Called once at startup.
func ValidateTypeTable() error {
	seen := make(map[string]PropertyType, len(providerTypeTable))
	for _, t := range PropertyTypes {
		ps, ok := providerTypeTable[t]
		if !ok {
			return fmt.Errorf("property type %q has no provider mapping", t)
		}
		key := strings.ToLower(ps)
		if other, dup := seen[key]; dup {
			return fmt.Errorf("provider string %q mapped to both %q and %q", ps, other, t)
		}
		seen[key] = t
	}
	if len(providerTypeTable) != len(PropertyTypes) {
		return fmt.Errorf("provider type table has %d entries, expected %d", len(providerTypeTable), len(PropertyTypes))
	}
	return nil
}
