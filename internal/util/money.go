package util

import (
	"fmt"
	"strings"
)

// Money denomination sizes in base units (guijian).
const (
	YulingUnit = 100000
	YujianUnit = 1000
)

// FormatMoney renders an amount of base currency in mixed denominations,
// largest first. Zero-valued high denominations are omitted; the base
// unit always appears, so zero renders as "0 guijian".
func FormatMoney(amount int64) string {
	if amount == 0 {
		return "0 guijian"
	}

	yuling := amount / YulingUnit
	yujian := (amount % YulingUnit) / YujianUnit
	guijian := amount % YujianUnit

	var b strings.Builder
	if yuling != 0 {
		fmt.Fprintf(&b, "%d yuling ", yuling)
	}
	if yujian != 0 {
		fmt.Fprintf(&b, "%d yujian ", yujian)
	}
	fmt.Fprintf(&b, "%d guijian", guijian)
	return b.String()
}
