// Package datasource loads a site's data directory into a record tree.
//
// Every data file becomes one entry keyed by its base name without extension;
// sub-directories become nested maps keyed by directory name. Supported
// formats are YAML (.yml, .yaml), JSON (.json), TOML (.toml), CSV (.csv) and
// TSV (.tsv). CSV and TSV files decode to a list of records keyed by the
// header row.
//
// Store.Lookup resolves a rule's data_file against the tree: a plain name, a
// dotted path ("team.members"), or a JSONPath expression ("$.regions[*]").
package datasource
