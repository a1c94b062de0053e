// Package extract recovers the weekly district production figures from snapshot HTML.
//
// Extraction is a pure text-to-reading function so it can be exercised against historical
// phrasings without network access. The page wording changed across redesigns, so two passes
// are tried: the "Broken down by districts" sentence first, then the bare five-region number
// sequence anywhere on the page.
package extract
