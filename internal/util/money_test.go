package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		want   string
	}{
		{"zero", 0, "0 guijian"},
		{"base only", 999, "999 guijian"},
		{"exact yujian", 1000, "1 yujian 0 guijian"},
		{"yujian and base", 2500, "2 yujian 500 guijian"},
		{"exact yuling", 100000, "1 yuling 0 guijian"},
		{"all three", 123456, "1 yuling 23 yujian 456 guijian"},
		{"yuling skips zero yujian", 100007, "1 yuling 7 guijian"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatMoney(tc.amount))
		})
	}
}
