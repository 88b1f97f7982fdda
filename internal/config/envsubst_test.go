package config

import "testing"

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("PK_TEST_SET", "hello")
	t.Setenv("PK_TEST_EMPTY", "")

	tests := []struct {
		name        string
		input       string
		want        string
		wantMissing []string
	}{
		{
			name:  "simple",
			input: "value = ${PK_TEST_SET}",
			want:  "value = hello",
		},
		{
			name:        "missing left unchanged",
			input:       "value = ${PK_TEST_NONEXISTENT_12345}",
			want:        "value = ${PK_TEST_NONEXISTENT_12345}",
			wantMissing: []string{"PK_TEST_NONEXISTENT_12345"},
		},
		{
			name:  "set but empty is not missing",
			input: "value = '${PK_TEST_EMPTY}'",
			want:  "value = ''",
		},
		{
			name:  "default used when empty",
			input: "value = ${PK_TEST_EMPTY:-fallback}",
			want:  "value = fallback",
		},
		{
			name:  "default overridden by env",
			input: "value = ${PK_TEST_SET:-fallback}",
			want:  "value = hello",
		},
		{
			name:        "required with message",
			input:       "value = ${PK_TEST_EMPTY:?API key is required}",
			want:        "value = ${PK_TEST_EMPTY:?API key is required}",
			wantMissing: []string{"PK_TEST_EMPTY: API key is required"},
		},
		{
			name:        "multiple",
			input:       "${PK_TEST_SET} ${PK_TEST_NONEXISTENT_2} ${PK_TEST_EMPTY:-three}",
			want:        "hello ${PK_TEST_NONEXISTENT_2} three",
			wantMissing: []string{"PK_TEST_NONEXISTENT_2"},
		},
		{
			name:  "no references",
			input: `user_agent = "poiskkino-client/1.0"`,
			want:  `user_agent = "poiskkino-client/1.0"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := substituteEnvVars(tt.input)
			if got != tt.want {
				t.Errorf("substituteEnvVars() = %q, want %q", got, tt.want)
			}
			if len(missing) != len(tt.wantMissing) {
				t.Fatalf("missing = %v, want %v", missing, tt.wantMissing)
			}
			for i := range missing {
				if missing[i] != tt.wantMissing[i] {
					t.Errorf("missing[%d] = %q, want %q", i, missing[i], tt.wantMissing[i])
				}
			}
		})
	}
}
