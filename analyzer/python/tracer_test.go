package python_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/microfy/analyzer/python"
)

func traceModule(t *testing.T, moduleName, source string, opts ...python.TracerOption) (map[string]*python.DependencyNode, map[string]*python.Node) {
	t.Helper()
	tracer := python.NewTracer(moduleName, opts...)
	registry, targets, err := tracer.Trace(parseModule(t, source))
	require.NoError(t, err)
	return registry, targets
}

func TestTracer_EndToEnd(t *testing.T) {
	source := `import sys

y = 10

def f(a, b=2):
    global y
    x = a + b
    y = 6
    class Inner:
        def method(self):
            pass
    for i in range(10):
        pass
`
	registry, _ := traceModule(t, "mod", source)

	f := registry["mod.f"]
	require.NotNil(t, f)
	assert.Equal(t, python.SymbolFunction, f.Kind)
	assert.Equal(t, []string{"a", "b"}, f.ArgNames())

	// sys is imported but never referenced inside f
	assert.False(t, f.DependsOn("mod.sys"))
	// the body reads both arguments and writes the module-level y
	x := registry["mod.f.x"]
	require.NotNil(t, x)
	assert.True(t, x.DependsOn("mod.f.a"))
	assert.True(t, x.DependsOn("mod.f.b"))
	require.NotNil(t, registry["mod.y"])
	assert.Equal(t, "mod.y", registry["mod.y"].FullName)

	inner := registry["mod.f.Inner"]
	require.NotNil(t, inner)
	assert.Equal(t, python.SymbolClass, inner.Kind)
	require.NotNil(t, registry["mod.f.Inner.method"])
	// range is a builtin and produces no node
	assert.Nil(t, registry["mod.range"])
}

func TestTracer_EdgeIdempotence(t *testing.T) {
	source := `
def helper():
    pass

def caller():
    helper()
    helper()
`
	registry, _ := traceModule(t, "mod", source)

	caller := registry["mod.caller"]
	require.NotNil(t, caller)
	deps := caller.DirectDependencies(false)
	require.Len(t, deps, 1)
	assert.Equal(t, "mod.helper", deps[0].FullName)
}

func TestTracer_AssignmentDependents(t *testing.T) {
	source := `
base = 1
total = base + base
`
	registry, _ := traceModule(t, "mod", source)

	total := registry["mod.total"]
	require.NotNil(t, total)
	assert.True(t, total.DependsOn("mod.base"))

	base := registry["mod.base"]
	require.NotNil(t, base)
	assert.Empty(t, base.DirectDependencies(false))
}

func TestTracer_ImportsAreReferences(t *testing.T) {
	source := `import os.path
from json import dumps as encode

def f():
    return encode(os.sep)
`
	registry, _ := traceModule(t, "mod", source)

	f := registry["mod.f"]
	require.NotNil(t, f)
	assert.True(t, f.DependsOn("mod.encode"))
	assert.True(t, f.DependsOn("mod.os"))

	// module-level import statements materialize nodes with no dependents
	require.NotNil(t, registry["mod.os"])
	assert.Equal(t, python.SymbolModule, registry["mod.os"].Kind)
}

func TestTracer_UndefinedReference(t *testing.T) {
	source := `def f():
    return missing
`
	tracer := python.NewTracer("mod")
	_, _, err := tracer.Trace(parseModule(t, source))
	var undefined *python.UndefinedSymbolError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "missing", undefined.Name)
	assert.Equal(t, "mod", undefined.Module)
	assert.Equal(t, 2, undefined.Line)
}

func TestTracer_TargetFunctions(t *testing.T) {
	source := `
def get_user(user_id):
    return user_id

def other():
    pass
`
	_, targets := traceModule(t, "mod", source, python.WithTargetFunctions("get_user"))

	require.Contains(t, targets, "get_user")
	assert.Equal(t, python.KindFunctionDef, targets["get_user"].Kind)
	assert.NotContains(t, targets, "other")
}

func TestTracer_LocalExclusion(t *testing.T) {
	source := `
shared = 1

def f(a):
    local = a + shared
    return local + a + shared
`
	registry, _ := traceModule(t, "mod", source)

	f := registry["mod.f"]
	require.NotNil(t, f)

	all := fullNames(f.DirectDependencies(false))
	assert.Contains(t, all, "mod.f.local")
	assert.Contains(t, all, "mod.f.a")
	assert.Contains(t, all, "mod.shared")

	outward := fullNames(f.DirectDependencies(true))
	assert.Equal(t, []string{"mod.shared"}, outward)
}

func fullNames(nodes []*python.DependencyNode) []string {
	names := make([]string, 0, len(nodes))
	for _, node := range nodes {
		names = append(names, node.FullName)
	}
	return names
}
