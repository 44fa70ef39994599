package table

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// formatCell renders a cell value for CSV output. Byte blobs are base64
// encoded; everything else keeps its natural text form.
func formatCell(v any) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// parseCell converts a CSV cell back to the narrowest matching type: int64,
// then float64, then bool, otherwise the raw string.
func parseCell(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
