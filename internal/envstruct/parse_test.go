package envstruct

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func lookupFromMap(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		val, ok := env[key]
		return val, ok
	}
}

func TestPopulate(t *testing.T) {
	type config struct {
		Addr    string `env:"SIGHTLINE_ADDR" envDefault:"localhost:4000"`
		APIKey  string `env:"OPENAI_API_KEY"`
		skipped string
	}

	tests := []struct {
		name    string
		env     map[string]string
		want    config
		wantErr error
	}{
		{
			name: "all set",
			env: map[string]string{
				"SIGHTLINE_ADDR": "localhost:8080",
				"OPENAI_API_KEY": "sk-test",
			},
			want: config{Addr: "localhost:8080", APIKey: "sk-test"},
		},
		{
			name: "default applies",
			env: map[string]string{
				"OPENAI_API_KEY": "sk-test",
			},
			want: config{Addr: "localhost:4000", APIKey: "sk-test"},
		},
		{
			name:    "missing required",
			env:     map[string]string{},
			wantErr: ErrEnvNotSet,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got config
			err := Populate(&got, lookupFromMap(tt.env))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPopulate_invalidValue(t *testing.T) {
	lookup := lookupFromMap(nil)

	err := Populate("not a struct", lookup)
	require.ErrorIs(t, err, ErrInvalidValue)

	type intConfig struct {
		Port int `env:"PORT" envDefault:"4000"`
	}
	var cfg intConfig
	err = Populate(&cfg, lookup)
	require.ErrorIs(t, err, ErrInvalidValue)
}
