package cache

import "testing"

func TestGenerateKey(t *testing.T) {
	c := newTestCache(t)

	tests := []struct {
		name      string
		operation string
		params    []any
		want      string
	}{
		{"no params", "GetTeams", nil, "ESPN:GetTeams"},
		{"one param", "GetBoxScore", []any{401547}, "ESPN:GetBoxScore:401547"},
		{"mixed params", "GetScoreboard", []any{"20260826", 4}, "ESPN:GetScoreboard:20260826:4"},
		{"nil param", "GetAthlete", []any{nil, "overview"}, "ESPN:GetAthlete:null:overview"},
		{"bool param", "GetSchedule", []any{true}, "ESPN:GetSchedule:true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.GenerateKey(tt.operation, tt.params...); got != tt.want {
				t.Errorf("GenerateKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateKeyDeterministic(t *testing.T) {
	c := newTestCache(t)

	a := c.GenerateKey("GetBoxScore", 401547, "full")
	b := c.GenerateKey("GetBoxScore", 401547, "full")
	if a != b {
		t.Errorf("GenerateKey() not deterministic: %q vs %q", a, b)
	}
}

func TestOperationFromKey(t *testing.T) {
	c := newTestCache(t)

	if op := c.operationFromKey("ESPN:GetTeams:ne"); op != "GetTeams" {
		t.Errorf("operationFromKey() = %q, want GetTeams", op)
	}
	if op := c.operationFromKey("GetTeams"); op != "GetTeams" {
		t.Errorf("operationFromKey() bare = %q, want GetTeams", op)
	}
}

func TestCustomNamespace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Namespace = "NFL"
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	if got := c.GenerateKey("GetTeams"); got != "NFL:GetTeams" {
		t.Errorf("GenerateKey() = %q, want NFL:GetTeams", got)
	}
}
