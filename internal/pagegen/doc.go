// Package pagegen turns configured data collections into a two-level page
// hierarchy.
//
// Each Rule names a data collection whose records are categories; every
// category owns a nested collection of sub-categories. The Generator walks the
// collection depth first, in source order, and hands one PageDescriptor per
// record to a PageSink:
//
//	<out_dir>/<slug(category)>/index.<ext>                    parent page
//	<out_dir>/<slug(category)>/<slug(sub-category)>/index.<ext>  child page
//
// Every descriptor's data carries two reserved fields, parentSlug and
// childSlug, from which PageURL builds "<parentSlug>/<childSlug>/". For
// categories parentSlug is the rule's out_dir value as configured (not a
// slug); for sub-categories it is the category's slug. Templates rely on this
// asymmetry, so it is kept as is.
//
// The package does no file I/O and does not render anything. Records come
// from a RecordSource, template names are checked against a TemplateResolver,
// and descriptors are handed to a PageSink.
package pagegen
