// Package manifest handles parsing and validation of aisync.json project and
// preset configs. Configs are JSONC (comments and trailing commas allowed),
// validated against an embedded JSON Schema that rejects unknown keys, then
// decoded into RawConfig.
package manifest
