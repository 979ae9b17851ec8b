package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "http://x", "-z", "nope"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://x"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-other=1"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "flag without value",
			args:    []string{"-v", "-a", "addr"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "x"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestConfigFilePath(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"client", "-c", "journal.json", "-a", "http://x"}
	require.Equal(t, "journal.json", ConfigFilePath())

	os.Args = []string{"client"}
	require.Equal(t, "", ConfigFilePath())
}
