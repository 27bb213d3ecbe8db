package types

import "strings"

// ImageSelection captures the color variant a shopper picked for a line item.
type ImageSelection struct {
	Color     string `json:"color"`
	ColorCode string `json:"color_code"`
	URL       string `json:"url"`
}

// IsZero reports whether no variant was selected.
func (i ImageSelection) IsZero() bool {
	return strings.TrimSpace(i.Color) == "" &&
		strings.TrimSpace(i.ColorCode) == "" &&
		strings.TrimSpace(i.URL) == ""
}
