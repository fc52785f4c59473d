package providers

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "gemini", cfg: Config{Type: "gemini", APIKey: "k"}, want: "gemini"},
		{name: "openai", cfg: Config{Type: "openai", APIKey: "k"}, want: "openai"},
		{name: "mock", cfg: Config{Type: "mock"}, want: "mock"},
		{name: "gemini without key", cfg: Config{Type: "gemini"}, wantErr: true},
		{name: "unknown", cfg: Config{Type: "llama"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if client.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", client.Name(), tt.want)
			}
		})
	}
}
