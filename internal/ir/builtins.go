package ir

// BuiltinName is the name of a builtin function recognized by the compiler
type BuiltinName string

const (
	BuiltinPrint BuiltinName = "print"
	BuiltinLen   BuiltinName = "len"
	BuiltinRange BuiltinName = "range"
	BuiltinAbs   BuiltinName = "abs"
	BuiltinMin   BuiltinName = "min"
	BuiltinMax   BuiltinName = "max"
	BuiltinInt   BuiltinName = "int"
	BuiltinFloat BuiltinName = "float"
	BuiltinStr   BuiltinName = "str"
	BuiltinBool  BuiltinName = "bool"
)

// Builtins contains every builtin a Global may resolve to
var Builtins = map[string]bool{
	string(BuiltinPrint): true,
	string(BuiltinLen):   true,
	string(BuiltinRange): true,
	string(BuiltinAbs):   true,
	string(BuiltinMin):   true,
	string(BuiltinMax):   true,
	string(BuiltinInt):   true,
	string(BuiltinFloat): true,
	string(BuiltinStr):   true,
	string(BuiltinBool):  true,
}

// LookupBuiltin resolves a global name to its builtin constant
func LookupBuiltin(name string) (Constant, bool) {
	if !Builtins[name] {
		return Constant{}, false
	}
	return BuiltinFunc(name), true
}
