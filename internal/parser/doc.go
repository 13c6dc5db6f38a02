// Package parser extracts annotated comment blocks from the C++ sources that
// register Lua functions and turns each into an apidoc.Function.
//
// Extraction is textual: a block is a /** ... */ comment directly above a
// declaration whose first parameter is a lua_State pointer. The docstring
// grammar is line oriented and never fails; anything it does not recognise
// becomes description text.
package parser
