package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

const diamondJSON = `{"nodes":[
  {"id":"A"},
  {"id":"B","level":1,"in":["A"]},
  {"id":"C","level":1,"in":["A"]},
  {"id":"D","level":2,"in":["B","C"]}
]}`

// isolate points the XDG directories at temp dirs so tests never touch the
// user's config or cache.
func isolate(t *testing.T) (cacheHome string) {
	t.Helper()
	cacheHome = t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FLOWLAYOUT_CACHE_URL", "")
	t.Setenv("FLOWLAYOUT_CACHE_URL_FILE", "")
	return cacheHome
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "flows/etl.json", "flows/etl"},
		{"", "flows/etl.layout.json", "flows/etl"},
		{"out/etl.svg", "etl.json", "out/etl"},
		{"out/etl", "etl.json", "out/etl"},
		{"out/etl.v2", "etl.json", "out/etl.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, format string
		count          int
		want           string
	}{
		{"", "svg", 1, "etl.svg"},
		{"", "json", 1, "etl.layout.json"},
		{"drawing.svg", "svg", 1, "drawing.svg"},
		{"drawing.svg", "png", 2, "etl.png"},
	}
	for _, tt := range tests {
		if got := outputPath("etl", tt.output, tt.format, tt.count); got != tt.want {
			t.Errorf("outputPath(%q, %q, %d) = %q, want %q", tt.output, tt.format, tt.count, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != pipeline.FormatSVG {
		t.Errorf("parseFormats(\"\") = %v, want [svg]", got)
	}
	if got := parseFormats("svg, png,,dot"); strings.Join(got, "|") != "svg|png|dot" {
		t.Errorf("parseFormats() = %v", got)
	}
}

func TestLayoutFlagsOnlyChangedOverride(t *testing.T) {
	fs := pflag.NewFlagSet("layout", pflag.ContinueOnError)
	var flags layoutFlags
	flags.register(fs)
	if err := fs.Parse([]string{"--vertical-gap", "60", "--break-cycles"}); err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{ExpandFlows: true}
	opts.Layout.HorizontalMargin = 10
	flags.apply(fs, &opts)

	if opts.Layout.MinVerticalGap != 60 || !opts.BreakCycles {
		t.Errorf("changed flags not applied: %+v", opts)
	}
	if opts.Layout.HorizontalMargin != 10 || !opts.ExpandFlows {
		t.Errorf("unchanged flags overrode config values: %+v", opts)
	}
}

func TestLayoutCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "etl.json", diamondJSON)

	if _, err := execute(t, "layout", input); err != nil {
		t.Fatalf("layout error = %v", err)
	}

	l, err := graph.ReadLayoutFile(filepath.Join(dir, "etl.layout.json"))
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if len(l.Nodes) != 4 || l.Nodes[3].Y != 82 {
		t.Errorf("unexpected layout: %+v", l.Nodes)
	}
}

func TestLayoutCommandUsesConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "etl.json", diamondJSON)
	cfg := writeFile(t, dir, "flowlayout.toml", "[layout]\nmin_vertical_gap = 100\n\n[cache]\nbackend = \"none\"\n")

	out := filepath.Join(dir, "custom.json")
	if _, err := execute(t, "--config", cfg, "layout", input, "-o", out); err != nil {
		t.Fatalf("layout error = %v", err)
	}
	l, err := graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := l.Nodes[1].Y; got != 101 {
		t.Errorf("B.y = %v, want 101 from the config gap", got)
	}

	// Flags beat the config file.
	if _, err := execute(t, "--config", cfg, "layout", input, "-o", out, "--vertical-gap", "40"); err != nil {
		t.Fatal(err)
	}
	l, _ = graph.ReadLayoutFile(out)
	if got := l.Nodes[1].Y; got != 41 {
		t.Errorf("B.y = %v, want 41 from the flag", got)
	}
}

func TestLayoutCommandBadConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "etl.json", diamondJSON)
	cfg := writeFile(t, dir, "flowlayout.toml", "[layout]\nno_such_key = 1\n")
	if _, err := execute(t, "--config", cfg, "layout", input); err == nil {
		t.Error("unknown config key should fail the command")
	}
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "etl.json", diamondJSON)

	if _, err := execute(t, "render", input, "-f", "svg,json"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "etl.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`id="node-A"`)) {
		t.Error("svg is missing node A")
	}
	if _, err := graph.ReadLayoutFile(filepath.Join(dir, "etl.layout.json")); err != nil {
		t.Errorf("json output is not a layout: %v", err)
	}
}

func TestRenderCommandFromLayout(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "etl.json", diamondJSON)
	if _, err := execute(t, "layout", input); err != nil {
		t.Fatal(err)
	}

	layoutFile := filepath.Join(dir, "etl.layout.json")
	out := filepath.Join(dir, "drawing.svg")
	if _, err := execute(t, "render", layoutFile, "-o", out); err != nil {
		t.Fatalf("render error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}

	if _, err := execute(t, "render", layoutFile, "-f", "json"); err == nil {
		t.Error("rendering a layout to json next to itself should refuse to overwrite it")
	}
}

func TestRenderCommandGraphvizDOT(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "etl.json", diamondJSON)

	if _, err := execute(t, "render", input, "--engine", "graphviz", "-f", "dot"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "etl.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(dot), []byte("digraph")) {
		t.Errorf("not DOT output: %.40s", dot)
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	isolate(t)
	input := writeFile(t, t.TempDir(), "etl.json", diamondJSON)
	if _, err := execute(t, "render", input, "-f", "gif"); err == nil {
		t.Error("render -f gif should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	cacheHome := isolate(t)
	input := writeFile(t, t.TempDir(), "etl.json", diamondJSON)
	if _, err := execute(t, "layout", input); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(cacheHome, appName)
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := fc.Clear(t.Context()); n != 0 {
		t.Errorf("%d entries left after cache clear", n)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the command name")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
