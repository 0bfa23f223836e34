package client

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
)

var timeType = reflect.TypeOf(time.Time{})

// timeHook lets typed results take the timestamp forms the backend mixes.
func timeHook(_ reflect.Type, to reflect.Type, v any) (any, error) {
	if to != timeType {
		return v, nil
	}
	if t, ok := resolver.AsTime(v); ok {
		return t, nil
	}
	return time.Time{}, nil
}

// decodeData fills out from an envelope payload, weakly typed and keyed by
// the json tags of out.
func decodeData(data any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       timeHook,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
