// Package naming derives candidate record names from a media filename.
//
// Takeout writes one metadata record per media file but its record names
// drift from the media name: edit markers ("-edited"), duplicate counters
// ("(1)"), and a hard cap on name length. [Candidates] undoes those
// transformations one rule at a time and yields every name a record might
// carry, most specific first. The order is a contract: the locator never
// reorders candidates.
//
// Rules (see rules.go), each applied to every candidate produced so far:
//
//	identity   IMG_0001-edited(1).jpg
//	edited     IMG_0001.jpg
//	duplicate  IMG_0001-edited.jpg
//	truncated  first 48, 47, 46 runes of long names
//	stem       IMG_0001-edited(1), IMG_0001, IMG_0001-edited
package naming
