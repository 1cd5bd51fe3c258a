package bytecode

// Names carried by BuiltInSub and BuiltInFunction instructions.
const (
	BuiltinEnviron    = "ENVIRON$"     // function
	BuiltinUndefined  = "_UNDEFINED_%" // function standing in for undeclared ones
	BuiltinEnvironSub = "ENVIRON"
	BuiltinInput      = "INPUT"
	BuiltinPrint      = "PRINT"
	BuiltinSystem     = "SYSTEM"
)
