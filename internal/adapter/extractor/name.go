package extractor

import (
	"fmt"
	"strings"

	"templater/internal/domain"
)

// DefaultInlineSuffix marks methods whose body must be spliced at the call
// site instead of being called.
const DefaultInlineSuffix = "_mustInline"

// DeriveName returns the method identifier of caption: the token that ends
// at the first '('. When the identifier carries inlineSuffix the suffix is
// removed and mustInline is set. An identifier consisting of the suffix
// alone is rejected.
func DeriveName(caption, inlineSuffix string) (name string, mustInline bool, err error) {
	open := strings.IndexByte(caption, '(')
	if open == -1 {
		return "", false, fmt.Errorf("%w: no parameter list in %q", domain.ErrMalformedSignature, caption)
	}

	start := strings.LastIndexAny(caption[:open], " \t") + 1
	name = caption[start:open]
	if name == "" {
		return "", false, fmt.Errorf("%w: no identifier before '(' in %q", domain.ErrMalformedSignature, caption)
	}

	if inlineSuffix != "" && strings.HasSuffix(name, inlineSuffix) {
		name = strings.TrimSuffix(name, inlineSuffix)
		if name == "" {
			return "", false, fmt.Errorf("%w: identifier %q is only the inline suffix", domain.ErrMalformedSignature, inlineSuffix)
		}
		return name, true, nil
	}
	return name, false, nil
}
