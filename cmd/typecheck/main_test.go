package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	one    = `{"tag": "literal", "value": 1}`
	number = `{"tctor": "builtin", "name": "number"}`
	str    = `{"tctor": "builtin", "name": "string"}`
)

func constDef(name, value, typ string) string {
	decl := `{"pattern": {"tag": "var", "name": "` + name + `", "default": ` + value + `}`
	if typ != "" {
		decl += `, "type": ` + typ
	}
	return `{"tag": "definition", "decls": [` + decl + `}]}`
}

func letDef(name, value string) string {
	return `{"tag": "definition", "mutable": true, "decls": [{"pattern": {"tag": "var", "name": "` + name + `", "default": ` + value + `}}]}`
}

func ident(name string) string { return `{"tag": "ident", "name": "` + name + `"}` }

func module(items ...string) string { return "[" + strings.Join(items, ",\n") + "]" }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

var sampleModule = module(
	constDef("x", one, ""),
	letDef("y", ident("x")),
	`{"tag": "typeDefinition", "decls": [{"name": "P", "type": {"tctor": "object", "props": [{"name": "x", "type": `+number+`}]}}]}`,
	`{"tag": "export", "def": `+constDef("z", `{"tag": "literal", "value": 2}`, number)+`}`,
)

func TestCheckText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.json", sampleModule)
	res := runCLI(t, "", "check", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "const x: 1\nlet y: number\ntype P = { x: number }\nexport const z: number\n", res.stdout)
	require.Empty(t, res.stderr)
}

func TestCheckJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.json", sampleModule)
	res := runCLI(t, "", "check", path, "-o", "json")
	require.Equal(t, 0, res.code, res.stderr)

	var report struct {
		OK       bool
		Bindings []struct {
			Name     string
			Kind     string
			Type     map[string]any
			Display  string
			Mutable  bool
			Exported bool
		}
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	require.True(t, report.OK)
	require.Len(t, report.Bindings, 4)
	require.Equal(t, map[string]any{"tctor": "literal", "value": 1.0}, report.Bindings[0].Type)
	require.True(t, report.Bindings[1].Mutable)
	require.Equal(t, "type", report.Bindings[2].Kind)
	require.True(t, report.Bindings[3].Exported)
	require.Equal(t, "number", report.Bindings[3].Display)
}

func TestCheckTypeError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", module(constDef("a", one, str)))
	res := runCLI(t, "", "check", path)
	require.Equal(t, 1, res.code)
	require.Empty(t, res.stdout)
	require.Contains(t, res.stderr, "error[E4003]: type ")
	require.Contains(t, res.stderr, "is not assignable to type 'string'")
	require.NotContains(t, res.stderr, "\x1b[")

	res = runCLI(t, "", "check", path, "--output", "json")
	require.Equal(t, 1, res.code)
	var report struct {
		OK     bool
		Errors []struct {
			Code     string
			Category string
			Expected string
			Found    string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	require.False(t, report.OK)
	require.Len(t, report.Errors, 1)
	require.Equal(t, "E4003", report.Errors[0].Code)
	require.Equal(t, "type", report.Errors[0].Category)
	require.Equal(t, "string", report.Errors[0].Expected)
}

func TestCheckAllErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", module(
		constDef("a", one, str),
		constDef("b", ident("missing"), ""),
	))
	res := runCLI(t, "", "check", path)
	require.Equal(t, 1, res.code)
	require.NotContains(t, res.stderr, "E4001")

	res = runCLI(t, "", "check", path, "--all-errors")
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "E4001")
	require.Contains(t, res.stderr, "found 2 errors")
	require.Equal(t, "const a: never\nconst b: never\n", res.stdout)
}

func TestCheckStdin(t *testing.T) {
	res := runCLI(t, module(constDef("x", one, "")), "check", "--stdin")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "const x: 1\n", res.stdout)

	res = runCLI(t, module(constDef("x", one, "")), "check", "-")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "const x: 1\n", res.stdout)
}

func TestCheckYAML(t *testing.T) {
	doc := `
- tag: definition
  decls:
    - pattern: {tag: var, name: s, default: {tag: literal, value: hi}}
`
	path := writeFile(t, t.TempDir(), "main.yaml", doc)
	res := runCLI(t, "", "check", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "const s: \"hi\"\n", res.stdout)

	res = runCLI(t, doc, "check", "--stdin")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "const s: \"hi\"\n", res.stdout)
}

func TestInputErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"no input", []string{"check"}, "no input specified"},
		{"missing file", []string{"check", filepath.Join(dir, "nope.json")}, "no such file"},
		{"malformed tree", []string{"check", writeFile(t, dir, "bad.json", `[{"tag": "loop"}]`)}, `astjson: [0]: unknown expression tag "loop"`},
		{"two sources", []string{"check", "--stdin", "x.json"}, "multiple input sources specified"},
		{"output format", []string{"check", "-o", "xml", "x.json"}, "unknown output format: xml"},
		{"log level", []string{"check", "--log-level", "loud", "x.json"}, `invalid log level "loud"`},
		{"tuple policy", []string{"check", "--tuple-overflow", "wrap", writeFile(t, dir, "ok.json", "[]")}, `invalid tuple overflow policy "wrap"`},
		{"unknown command", []string{"run"}, `unknown command "run"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			require.Equal(t, 2, res.code)
			require.Contains(t, res.stderr, tt.msg)
		})
	}
}

func TestTupleOverflowFromEnvironment(t *testing.T) {
	pair := module(`{"tag": "definition", "decls": [{"pattern": {"tag": "arrayDestruct", "items": [
		{"tag": "var", "name": "a"}, {"tag": "var", "name": "b"}
	], "default": {"tag": "array", "items": [` + one + `]}}}]}`)
	path := writeFile(t, t.TempDir(), "pair.json", pair)

	res := runCLI(t, "", "check", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "const a: 1\nconst b: undefined\n", res.stdout)

	t.Setenv("TYPECHECK_TUPLE_OVERFLOW", "reject")
	res = runCLI(t, "", "check", path)
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "E4003")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.json", module(constDef("x", one, "")))
	config := writeFile(t, dir, "settings.yaml", "output: json\n")

	res := runCLI(t, "", "check", path, "--config", config)
	require.Equal(t, 0, res.code, res.stderr)
	require.True(t, json.Valid([]byte(res.stdout)))

	// Flags take precedence over the config file.
	res = runCLI(t, "", "check", path, "--config", config, "-o", "text")
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "const x: 1\n", res.stdout)

	res = runCLI(t, "", "check", path, "--config", filepath.Join(dir, "absent.yaml"))
	require.Equal(t, 2, res.code)
	require.Contains(t, res.stderr, "reading config")
}

func TestInfer(t *testing.T) {
	dir := t.TempDir()
	concat := `{"tag": "binary", "op": "+", "x": ` + one + `, "y": {"tag": "literal", "value": "a"}}`
	res := runCLI(t, "", "infer", writeFile(t, dir, "expr.json", concat))
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "string\n", res.stdout)

	res = runCLI(t, "", "infer", writeFile(t, dir, "x.json", ident("x")), "-o", "json")
	require.Equal(t, 1, res.code)
	var report struct {
		OK     bool
		Errors []struct{ Code, Message string }
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	require.False(t, report.OK)
	require.Equal(t, "E4001", report.Errors[0].Code)
}

func TestInferInModule(t *testing.T) {
	dir := t.TempDir()
	mod := writeFile(t, dir, "mod.json", module(constDef("x", one, "")))
	expr := writeFile(t, dir, "x.json", ident("x"))

	res := runCLI(t, "", "infer", expr, "--in", mod)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "1\n", res.stdout)

	bad := writeFile(t, dir, "bad.json", module(constDef("x", one, str)))
	res = runCLI(t, "", "infer", expr, "--in", bad)
	require.Equal(t, 1, res.code)
	require.Empty(t, res.stdout)
	require.Contains(t, res.stderr, "E4003")
}

func TestModulesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.json", module(
		`{"tag": "export", "def": `+constDef("version", `{"tag": "literal", "value": "1.0"}`, "")+`}`,
		`{"tag": "export", "def": {"tag": "typeDefinition", "decls": [{"name": "Id", "type": `+str+`}]}}`,
	))
	main := writeFile(t, dir, "main.json", module(
		`{"tag": "import", "source": "./lib", "specifiers": [{"name": "version"}, {"name": "Id", "isType": true}]}`,
		constDef("v", ident("version"), `{"tctor": "identifier", "name": "Id"}`),
	))

	res := runCLI(t, "", "check", main, "--modules", dir)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "const version: \"1.0\"\ntype Id = string\nconst v: Id\n", res.stdout)

	// Without a modules directory imports are skipped.
	res = runCLI(t, "", "check", main)
	require.Equal(t, 1, res.code)
	require.Contains(t, res.stderr, "E4001")
}

func TestModulesDirectoryFailures(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "modules")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeFile(t, root, "outside.json", module(`{"tag": "export", "def": `+constDef("x", one, "")+`}`))
	writeFile(t, dir, "broken.json", module(constDef("a", one, str)))
	writeFile(t, dir, "loop.json", `[{"tag": "import", "source": "loop", "specifiers": [{"name": "x"}]}]`)

	tests := []struct {
		name   string
		source string
		msg    string
	}{
		{"missing module", "./missing", `cannot find module "./missing"`},
		{"module with errors", "./broken", `cannot load module "./broken"`},
		{"import cycle", "loop", "import cycle"},
		{"source outside the directory", "../outside", "outside the modules directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main := writeFile(t, t.TempDir(), "main.json",
				`[{"tag": "import", "source": "`+tt.source+`", "specifiers": [{"name": "x"}]}]`)
			res := runCLI(t, "", "check", main, "--modules", dir)
			require.Equal(t, 1, res.code)
			require.Contains(t, res.stderr, "E4012")
			require.Contains(t, res.stderr, tt.msg)
		})
	}
}

func TestAST(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.json", module(constDef("x", one, number)))
	res := runCLI(t, "", "ast", path)
	require.Equal(t, 0, res.code, res.stderr)
	require.Equal(t, "Definition const\n  Declarator\n    VarDef x\n      Literal 1\n    Builtin number\n", res.stdout)

	res = runCLI(t, "", "ast", path, "-o", "json")
	require.Equal(t, 0, res.code, res.stderr)
	var nodes []*ASTNode
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &nodes))
	require.Len(t, nodes, 1)
	require.Equal(t, "Definition", nodes[0].Type)
	require.Equal(t, "const", nodes[0].Value)
	require.Equal(t, "Declarator", nodes[0].Children[0].Type)
	require.Equal(t, "VarDef", nodes[0].Children[0].Children[0].Type)
}
