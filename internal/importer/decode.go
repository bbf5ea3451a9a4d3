package importer

import (
	"reflect"
	"strings"

	"github.com/adsarees/storefront/internal/catalog"
	"github.com/adsarees/storefront/pkg/common"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// aliases maps alternative header names onto record fields
var aliases = map[string]string{
	"id":       "product_id",
	"stock":    "stock_quantity",
	"image":    "images",
	"featured": "is_featured",
	"active":   "is_active",
}

// splitListHook turns "a, b ,c" into []string{"a","b","c"}
func splitListHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
		return data, nil
	}
	return common.SplitTrim(data.(string), ","), nil
}

// boolHook accepts the spellings spreadsheets produce for flags
func boolHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(data.(string)) {
	case "true", "yes", "y", "1":
		return true, nil
	case "false", "no", "n", "0":
		return false, nil
	}
	return nil, errors.Errorf("invalid boolean %q", data)
}

// Decode coerces one header keyed row into an import record. Empty cells are
// treated as absent.
func Decode(row map[string]string) (*catalog.ImportRecord, error) {
	input := make(map[string]interface{}, len(row))
	for k, v := range row {
		if v == "" {
			continue
		}
		if alias, ok := aliases[k]; ok {
			if _, taken := row[alias]; taken && row[alias] != "" {
				continue
			}
			k = alias
		}
		input[k] = v
	}

	var record catalog.ImportRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			splitListHook,
			boolHook,
		),
		WeaklyTypedInput: true,
		Result:           &record,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(input); err != nil {
		return nil, err
	}
	return &record, nil
}
