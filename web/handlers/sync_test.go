package handlers

import "testing"

func TestParseSyncOperations(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
		wantErr bool
	}{
		{
			name:    "bare array",
			body:    `[{"operation":"create","id":"c1","data":{"name":"Snacks"}},{"operation":"delete","id":"c2"}]`,
			wantLen: 2,
		},
		{
			name:    "empty array",
			body:    `[]`,
			wantLen: 0,
		},
		{
			name:    "wrapper object",
			body:    `{"device_id":"dev-1","operations":[{"operation":"update","id":"c1"}]}`,
			wantLen: 1,
		},
		{
			name:    "wrapper with empty operations",
			body:    `{"device_id":"dev-1","operations":[]}`,
			wantLen: 0,
		},
		{
			name:    "single operation object",
			body:    `{"operation":"create","id":"c9","data":{"name":"Dairy"}}`,
			wantLen: 1,
		},
		{
			name:    "single operation with data only",
			body:    `{"data":{"name":"Dairy"}}`,
			wantLen: 1,
		},
		{
			name:    "empty object",
			body:    `{}`,
			wantErr: true,
		},
		{
			name:    "garbage",
			body:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := parseSyncOperations([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d operations", len(ops))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(ops) != tt.wantLen {
				t.Fatalf("got %d operations, want %d", len(ops), tt.wantLen)
			}
		})
	}
}

func TestParseSyncOperationsKeepsOrder(t *testing.T) {
	body := `[{"operation":"create","id":"a"},{"operation":"update","id":"b"},{"operation":"delete","id":"c"}]`
	ops, err := parseSyncOperations([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if ops[i].ID != id {
			t.Errorf("operation %d: got id %q, want %q", i, ops[i].ID, id)
		}
	}
}
