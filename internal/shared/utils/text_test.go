package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "Dong ho deo tay", RemoveDiacritics("Đồng hồ đeo tay"))
	assert.Equal(t, "Thanh toan don hang", RemoveDiacritics("Thanh toán đơn hàng"))
	assert.Equal(t, "plain ascii 123", RemoveDiacritics("plain ascii 123"))
}

func TestToGatewayText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Thanh toán đơn hàng #12 (đồng hồ)", "Thanh toan don hang #12 dong ho"},
		{"  nhiều    khoảng   trắng  ", "nhieu khoang trang"},
		{"ORD-20240115-0000ABCD", "ORD-20240115-0000ABCD"},
		{"a&b=c?d", "abcd"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToGatewayText(tt.in))
		})
	}
}

func TestToGatewayText_Truncates(t *testing.T) {
	got := ToGatewayText(strings.Repeat("ab ", 200))

	assert.LessOrEqual(t, len(got), MaxGatewayTextLength)
	assert.False(t, strings.HasSuffix(got, " "))
}
