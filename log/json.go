package log

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// JSON defers marshaling v until the record is actually written.
func JSON(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	j, ok := v.(JSONValue)
	if ok {
		return j
	}
	return JSONValue{Value: v}
}

type JSONValue struct {
	Value interface{}
}

func (c JSONValue) LogValue() slog.Value {
	b, err := json.Marshal(c.Value)
	if err != nil {
		return slog.StringValue(fmt.Sprintf("json.Marshal error: %v", err))
	}
	return slog.StringValue(string(b))
}

func (c JSONValue) String() string {
	return c.LogValue().String()
}
