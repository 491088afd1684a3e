package python

// builtinNames holds the Python builtin namespace; name loads that resolve
// here never produce dependency edges.
var builtinNames = map[string]struct{}{}

func init() {
	names := []string{
		"abs", "aiter", "all", "anext", "any", "ascii", "bin", "bool",
		"breakpoint", "bytearray", "bytes", "callable", "chr", "classmethod",
		"compile", "complex", "delattr", "dict", "dir", "divmod", "enumerate",
		"eval", "exec", "filter", "float", "format", "frozenset", "getattr",
		"globals", "hasattr", "hash", "help", "hex", "id", "input", "int",
		"isinstance", "issubclass", "iter", "len", "list", "locals", "map",
		"max", "memoryview", "min", "next", "object", "oct", "open", "ord",
		"pow", "print", "property", "range", "repr", "reversed", "round",
		"set", "setattr", "slice", "sorted", "staticmethod", "str", "sum",
		"super", "tuple", "type", "vars", "zip",
		"__import__", "__name__", "__file__", "__doc__", "__debug__",
		"True", "False", "None", "NotImplemented", "Ellipsis",
		"BaseException", "Exception", "ArithmeticError", "AssertionError",
		"AttributeError", "BlockingIOError", "BrokenPipeError", "BufferError",
		"ChildProcessError", "ConnectionAbortedError", "ConnectionError",
		"ConnectionRefusedError", "ConnectionResetError", "EOFError",
		"EnvironmentError", "FileExistsError", "FileNotFoundError",
		"FloatingPointError", "GeneratorExit", "IOError", "ImportError",
		"IndentationError", "IndexError", "InterruptedError",
		"IsADirectoryError", "KeyError", "KeyboardInterrupt", "LookupError",
		"MemoryError", "ModuleNotFoundError", "NameError",
		"NotADirectoryError", "NotImplementedError", "OSError",
		"OverflowError", "PermissionError", "ProcessLookupError",
		"RecursionError", "ReferenceError", "RuntimeError",
		"StopAsyncIteration", "StopIteration", "SyntaxError", "SystemError",
		"SystemExit", "TabError", "TimeoutError", "TypeError",
		"UnboundLocalError", "UnicodeDecodeError", "UnicodeEncodeError",
		"UnicodeError", "UnicodeTranslateError", "ValueError",
		"ZeroDivisionError",
		"BytesWarning", "DeprecationWarning", "FutureWarning",
		"ImportWarning", "PendingDeprecationWarning", "ResourceWarning",
		"RuntimeWarning", "SyntaxWarning", "UnicodeWarning", "UserWarning",
		"Warning",
	}
	for _, name := range names {
		builtinNames[name] = struct{}{}
	}
}

// IsBuiltin reports whether name belongs to the Python builtin namespace.
func IsBuiltin(name string) bool {
	_, ok := builtinNames[name]
	return ok
}
