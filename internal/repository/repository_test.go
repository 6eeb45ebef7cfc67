package repository

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "not found", in: gorm.ErrRecordNotFound, want: ErrNotFound},
		{name: "wrapped not found", in: fmt.Errorf("query: %w", gorm.ErrRecordNotFound), want: ErrNotFound},
		{name: "other", in: gorm.ErrInvalidDB, want: gorm.ErrInvalidDB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.in); !errors.Is(got, tt.want) {
				t.Errorf("translate() = %v, want %v", got, tt.want)
			}
		})
	}
}
