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
			name:        "without paramsKey",
			serviceName: "quiz",
			objectType:  "pool",
			identifier:  "published",
			paramsKey:   nil,
			expectedKey: "quizengine:quiz:pool:published",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "quiz",
			objectType:  "pool",
			identifier:  "published",
			paramsKey:   []string{},
			expectedKey: "quizengine:quiz:pool:published",
		},
		{
			name:        "with one paramsKey",
			serviceName: "quiz",
			objectType:  "session",
			identifier:  "abc",
			paramsKey:   []string{"mode"},
			expectedKey: "quizengine:quiz:session:abc:mode",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "quiz",
			objectType:  "stats",
			identifier:  "client-1",
			paramsKey:   []string{"day", "2025-06-01"},
			expectedKey: "quizengine:quiz:stats:client-1:day_2025-06-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}
