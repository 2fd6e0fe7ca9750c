package mediator

import (
	"reflect"
	"strings"
)

// RequestName extracts a clean request name for logs and metric labels
// Examples:
//   - "*commands.RecordSaleCommand" → "RecordSaleCommand"
//   - "*queries.GetBalanceQuery" → "GetBalanceQuery"
func RequestName(request Request) string {
	if request == nil {
		return "UnknownRequest"
	}

	fullName := reflect.TypeOf(request).String()
	fullName = strings.TrimPrefix(fullName, "*")

	parts := strings.Split(fullName, ".")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return fullName
}
