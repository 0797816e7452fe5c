// Package plugin maps plugin libraries into the process.
//
// A plugin is a shared library that exports cfm_plugin_name, a function
// returning its display name. Loader.Open maps the library, resolves and
// calls that symbol, and hands back a reference-counted Library. The mapping
// is only released once every holder has called Release, so addresses from
// Lookup stay valid for as long as some owner keeps the library.
//
// Libraries are not deduplicated: opening the same path twice yields two
// Library values, each of which must be released.
package plugin
