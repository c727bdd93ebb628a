package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/djcass44/debdeps/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	cmd := NewCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	t.Logf("output:\n%s", out.String())
	return out.String(), err
}

func TestCommand_Local(t *testing.T) {
	var cases = []struct {
		name string
		args []string
		out  string
	}{
		{
			"plain index",
			[]string{"-n", "curl", "-u", "./testdata/Packages", "-m", "local"},
			"Dependencies of curl:\n- libc6\n- libcurl4\n- zlib1g\n",
		},
		{
			"compressed index",
			[]string{"--package-name", "libc6", "--repo-url", "./testdata/Packages.gz", "--mode", "local"},
			"Dependencies of libc6:\n- libgcc-s1\n",
		},
		{
			"package without dependencies",
			[]string{"-n", "libgcc-s1", "-u", "./testdata/Packages", "-m", "local"},
			"No dependencies found for libgcc-s1\n",
		},
		{
			"unknown package",
			[]string{"-n", "nope", "-u", "./testdata/Packages", "-m", "local"},
			"No dependencies found for nope\n",
		},
		{
			"unsupported output still lists",
			[]string{"-n", "curl", "-u", "./testdata/Packages", "-m", "local", "-o", "dot"},
			"Dependencies of curl:\n- libc6\n- libcurl4\n- zlib1g\n",
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			assert.NoError(t, err)
			assert.EqualValues(t, tt.out, out)
		})
	}
}

func TestCommand_Remote(t *testing.T) {
	data, err := os.ReadFile("./testdata/Packages.gz")
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/debian/Packages.gz" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/gzip")
		_, _ = w.Write(data)
	}))
	defer ts.Close()

	t.Run("index is downloaded", func(t *testing.T) {
		out, err := execute(t, "-n", "libcurl4", "-u", ts.URL+"/debian/Packages.gz", "-m", "remote")
		assert.NoError(t, err)
		assert.EqualValues(t, "Dependencies of libcurl4:\n- libbrotli1\n- libc6\n- libgssapi-krb5-2\n- libzstd1\n- zlib1g\n", out)
	})
	t.Run("missing index is a usage error", func(t *testing.T) {
		_, err := execute(t, "-n", "libcurl4", "-u", ts.URL+"/debian/Packages.xz", "-m", "remote")
		var usageErr *UsageError
		assert.ErrorAs(t, err, &usageErr)
		assert.ErrorIs(t, err, source.ErrNetwork)
	})
}

func TestCommand_Mock(t *testing.T) {
	t.Run("any location is accepted", func(t *testing.T) {
		out, err := execute(t, "-n", "curl", "-u", "not a real location", "-m", "mock")
		assert.NoError(t, err)
		assert.EqualValues(t, "package_name=curl\nrepo_url=not a real location\nmode=mock\noutput=ascii-tree\n", out)
	})
	t.Run("location is printed as given", func(t *testing.T) {
		t.Setenv("DEBDEPS_MIRROR", "https://deb.debian.org/debian")

		out, err := execute(t, "-n", "curl", "-u", "${DEBDEPS_MIRROR}/Packages.gz", "-m", "mock", "-o", "json")
		assert.NoError(t, err)
		assert.EqualValues(t, "package_name=curl\nrepo_url=${DEBDEPS_MIRROR}/Packages.gz\nmode=mock\noutput=json\n", out)
	})
}

func TestCommand_Config(t *testing.T) {
	t.Run("config supplies the query", func(t *testing.T) {
		out, err := execute(t, "-c", "./testdata/query.yaml")
		assert.NoError(t, err)
		assert.EqualValues(t, "Dependencies of curl:\n- libc6\n- libcurl4\n- zlib1g\n", out)
	})
	t.Run("flags override the config", func(t *testing.T) {
		out, err := execute(t, "-c", "./testdata/query.yaml", "-n", "libc6")
		assert.NoError(t, err)
		assert.EqualValues(t, "Dependencies of libc6:\n- libgcc-s1\n", out)
	})
	t.Run("unexpected apiVersion is rejected", func(t *testing.T) {
		out, err := execute(t, "-c", "./testdata/wrong-api-version.yaml")
		assert.Empty(t, out)
		var usageErr *UsageError
		assert.ErrorAs(t, err, &usageErr)
	})
	t.Run("unexpected kind is rejected", func(t *testing.T) {
		_, err := execute(t, "-c", "./testdata/wrong-kind.yaml", "-n", "curl", "-u", "x", "-m", "mock")
		var usageErr *UsageError
		assert.ErrorAs(t, err, &usageErr)
	})
}

func TestCommand_UsageErrors(t *testing.T) {
	var cases = []struct {
		name string
		args []string
		err  error
	}{
		{
			"missing required flags",
			[]string{"-n", "curl"},
			nil,
		},
		{
			"invalid url",
			[]string{"-n", "curl", "-u", "deb.debian.org/debian", "-m", "remote"},
			source.ErrInvalidURL,
		},
		{
			"missing local file",
			[]string{"-n", "curl", "-u", "./testdata/does-not-exist", "-m", "local"},
			source.ErrNotExist,
		},
		{
			"unknown mode",
			[]string{"-n", "curl", "-u", "./testdata/Packages", "-m", "ftp"},
			source.ErrUnknownMode,
		},
		{
			"unknown output",
			[]string{"-n", "curl", "-u", "./testdata/Packages", "-m", "local", "-o", "svg"},
			nil,
		},
		{
			"unknown flag",
			[]string{"-n", "curl", "--recursive"},
			nil,
		},
		{
			"unexpected argument",
			[]string{"-n", "curl", "-u", "./testdata/Packages", "-m", "local", "extra"},
			nil,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			assert.Empty(t, out)
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
			var usageErr *UsageError
			assert.ErrorAs(t, err, &usageErr)
		})
	}
}

func TestExitCode(t *testing.T) {
	var cases = []struct {
		name string
		err  error
		code int
	}{
		{
			"success",
			nil,
			0,
		},
		{
			"usage error",
			&UsageError{Err: errors.New("required flag(s) \"mode\" not set")},
			2,
		},
		{
			"wrapped usage error",
			fmt.Errorf("running: %w", &UsageError{Err: errors.New("invalid url")}),
			2,
		},
		{
			"acquisition error converted to usage error",
			&UsageError{Err: fmt.Errorf("%w: 404", source.ErrNetwork)},
			2,
		},
		{
			"any other error",
			errors.New("reading index: unexpected EOF"),
			1,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualValues(t, tt.code, exitCode(tt.err))
		})
	}
}

func TestExitCode_Command(t *testing.T) {
	_, err := execute(t, "-n", "curl", "-u", "./testdata/does-not-exist", "-m", "local")
	assert.EqualValues(t, 2, exitCode(err))

	_, err = execute(t, "-n", "curl", "-u", "./testdata/Packages", "-m", "local")
	assert.EqualValues(t, 0, exitCode(err))
}
