// Package artifact implements the permission-artifact verification and
// canonicalization engine: the canonical-XML transform applied before
// digesting, the two-stage digest/signature protocol, and the structured
// extraction of geofence and flight-parameter data from a verified tree.
package artifact

import (
	"fmt"

	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/domain"
	"github.com/skylarkdrones/heimdall-libnpnt/internal/core/ports"
)

// maxTagNameLen bounds the tag-name scratch buffer. Every element name in
// the permission-artifact schema fits well under this; exceeding it is a
// malformed document, never silent truncation.
const maxTagNameLen = 64

// canonicalizeInto streams src into sink, rewriting self-closing elements
// into explicit open/close tag pairs so that the verifier's digest matches
// the signer's regardless of which serialization the signer emitted.
//
// The scan reproduces the signer's transform exactly:
//   - On '<', the tag name is captured up to the first space. A name is
//     only retained for tags that carry attributes (a '>' before any space
//     clears it); closing tags clear it too since their captured text
//     starts with '/'. The '<' and name bytes are fed through verbatim.
//   - On '/' immediately followed by '>' while a name is retained, the
//     bytes "></" and the retained name are fed instead of the '/'; the
//     following '>' then passes through, producing "></Name>".
//   - Every other byte is fed verbatim.
//
// The retained name deliberately survives across non-self-closing elements,
// matching the signer. The source bytes are read-only; no tree is built.
func canonicalizeInto(sink ports.DigestAccumulator, src []byte) error {
	var nameBuf [maxTagNameLen]byte
	name := nameBuf[:0]

	i := 0
	for i < len(src) {
		runLen := 1
		if src[i] == '<' {
			j := i + 1
			delimited := false
			scratch := nameBuf[:0]
			for j < len(src) {
				if src[j] == ' ' {
					name = scratch
					delimited = true
					break
				}
				if src[j] == '>' {
					name = nameBuf[:0]
					delimited = true
					break
				}
				if len(scratch) == maxTagNameLen {
					return domain.MalformedDocumentError(
						fmt.Sprintf("tag name exceeds %d bytes at offset %d", maxTagNameLen, i))
				}
				scratch = append(scratch, src[j])
				j++
			}
			if !delimited {
				return domain.MalformedDocumentError(
					fmt.Sprintf("unterminated tag at offset %d", i))
			}
			runLen = j - i
		}

		if len(name) != 0 && src[i] == '/' && i+1 < len(src) && src[i+1] == '>' {
			sink.Update([]byte("></"))
			sink.Update(name)
			name = nameBuf[:0]
			i += runLen
			continue
		}

		sink.Update(src[i : i+runLen])
		i += runLen
	}
	return nil
}
