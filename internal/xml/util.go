package xml

import "encoding/xml"

// qualifiedName renders an xml.Name the way it appeared on the wire:
// "prefix:local" when the decoder captured a namespace prefix in
// Space, otherwise just "local". encoding/xml resolves Space to the
// namespace URI for elements under an xmlns declaration but leaves
// attribute Space as the literal prefix text for non-namespaced
// attributes (e.g. "xml" in "xml:space"), which is exactly the
// behavior opaque preservation wants: reproduce what was written, not
// re-derive it.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
