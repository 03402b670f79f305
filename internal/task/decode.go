package task

import (
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
)

// decodeView decodes a free-form map into a typed view using the json tag
// names. Fields whose input does not fit keep their zero value; every other
// field is still filled. The engine treats missing data as a scoring
// outcome, not a failure.
func decodeView[T any](in map[string]any) T {
	var out T
	if len(in) == 0 {
		return out
	}

	var whole T
	err := decodeInto(in, &whole)
	if err == nil {
		return whole
	}
	slog.Debug("payload does not fit view", "view", fmt.Sprintf("%T", out), "error", err)

	// Retry key by key so one misshapen field cannot leave a partly
	// decoded value behind or cost its siblings.
	for k, v := range in {
		one := map[string]any{k: v}
		var trial T
		if decodeInto(one, &trial) != nil {
			continue
		}
		_ = decodeInto(one, &out)
	}
	return out
}

func decodeInto(in map[string]any, result any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
