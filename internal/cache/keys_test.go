package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "session key",
			serviceName: "session",
			objectType:  "state",
			identifier:  "123",
			expectedKey: "linguabot:session:state:123",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "session",
			objectType:  "state",
			identifier:  "123",
			paramsKey:   []string{},
			expectedKey: "linguabot:session:state:123",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "broadcast",
			objectType:  "run",
			identifier:  "2026-10-16",
			paramsKey:   []string{"14", "00"},
			expectedKey: "linguabot:broadcast:run:2026-10-16:14_00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...); got != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", got, tt.expectedKey)
			}
		})
	}
}
