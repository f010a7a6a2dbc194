package table

import "testing"

func TestNewPostgres_QuotesIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"articles", `"articles"`},
		{"price log", `"price log"`},
		{`we"ird`, `"we""ird"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPostgres(nil, tt.name, nil)
			if p.ident != tt.want {
				t.Errorf("ident = %s, want %s", p.ident, tt.want)
			}
		})
	}
}
